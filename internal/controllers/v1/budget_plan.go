package v1

import (
	"net/http"

	"github.com/eldolucas/orcy-backend/internal/httputil"
	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterBudgetPlanRoutes registers the routes for budget plans with
// the RouterGroup that is passed.
func RegisterBudgetPlanRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetPlanList)
		r.GET("", GetBudgetPlans)
		r.POST("", CreateBudgetPlans)
	}

	// Budget plan with ID
	{
		r.OPTIONS("/:id", OptionsBudgetPlanDetail)
		r.GET("/:id", GetBudgetPlan)
		r.PATCH("/:id", UpdateBudgetPlan)
		r.DELETE("/:id", DeleteBudgetPlan)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budget Plans
// @Success		204
// @Router			/v1/budget-plans [options]
func OptionsBudgetPlanList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budget Plans
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-plans/{id} [options]
func OptionsBudgetPlanDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BudgetPlan{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create budget plans
// @Description	Creates new budget plans with their budget lines and scenarios. Exactly one scenario per plan must be the default.
// @Tags			Budget Plans
// @Accept			json
// @Produce		json
// @Success		201			{object}	BudgetPlanCreateResponse
// @Failure		400			{object}	BudgetPlanCreateResponse
// @Failure		500			{object}	BudgetPlanCreateResponse
// @Param			budgetPlans	body		[]BudgetPlanEditable	true	"Budget plans"
// @Router			/v1/budget-plans [post]
func CreateBudgetPlans(c *gin.Context) {
	var editables []BudgetPlanEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetPlanCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetPlanCreateResponse{}

	for _, editable := range editables {
		plan := editable.model()

		err = models.DB.Create(&plan).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBudgetPlan(c, plan)
		r.Data = append(r.Data, BudgetPlanResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get budget plans
// @Description	Returns a list of budget plans
// @Tags			Budget Plans
// @Produce		json
// @Success		200	{object}	BudgetPlanListResponse
// @Failure		400	{object}	BudgetPlanListResponse
// @Failure		500	{object}	BudgetPlanListResponse
// @Router			/v1/budget-plans [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			fiscalYear	query	int		false	"Filter by fiscal year"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first budget plan returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of budget plans to return. Defaults to 50."
func GetBudgetPlans(c *gin.Context) {
	var filter BudgetPlanQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Scenarios", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("fiscal_year DESC, name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 budget plans and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var plans []models.BudgetPlan
	err = q.Find(&plans).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetPlanListResponse{
			Error: &e,
		})
		return
	}

	data := make([]BudgetPlan, 0, len(plans))
	for _, plan := range plans {
		data = append(data, newBudgetPlan(c, plan))
	}

	c.JSON(http.StatusOK, BudgetPlanListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get budget plan
// @Description	Returns a specific budget plan with its budget lines, scenarios and projected totals
// @Tags			Budget Plans
// @Produce		json
// @Success		200	{object}	BudgetPlanResponse
// @Failure		400	{object}	BudgetPlanResponse
// @Failure		404	{object}	BudgetPlanResponse
// @Failure		500	{object}	BudgetPlanResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-plans/{id} [get]
func GetBudgetPlan(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanResponse{
			Error: &s,
		})
		return
	}

	var plan models.BudgetPlan
	err = models.DB.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Scenarios", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&plan, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanResponse{
			Error: &s,
		})
		return
	}

	data := newBudgetPlan(c, plan)
	c.JSON(http.StatusOK, BudgetPlanResponse{Data: &data})
}

// @Summary		Update budget plan
// @Description	Update the name, fiscal year or note of a budget plan. Only values to be updated need to be specified.
// @Tags			Budget Plans
// @Accept			json
// @Produce		json
// @Success		200			{object}	BudgetPlanResponse
// @Failure		400			{object}	BudgetPlanResponse
// @Failure		404			{object}	BudgetPlanResponse
// @Failure		500			{object}	BudgetPlanResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budgetPlan	body		BudgetPlanUpdateable	true	"Budget plan"
// @Router			/v1/budget-plans/{id} [patch]
func UpdateBudgetPlan(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanResponse{
			Error: &s,
		})
		return
	}

	var plan models.BudgetPlan
	err = models.DB.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Scenarios", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&plan, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetPlanUpdateable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanResponse{
			Error: &s,
		})
		return
	}

	var data BudgetPlanUpdateable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&plan).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetPlanResponse{
			Error: &s,
		})
		return
	}

	r := newBudgetPlan(c, plan)
	c.JSON(http.StatusOK, BudgetPlanResponse{Data: &r})
}

// @Summary		Delete budget plan
// @Description	Deletes a budget plan with its budget lines and scenarios
// @Tags			Budget Plans
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-plans/{id} [delete]
func DeleteBudgetPlan(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var plan models.BudgetPlan
	err = models.DB.First(&plan, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Delete the budget lines and scenarios together with the plan
	err = models.DB.Where("plan_id = ?", plan.ID).Delete(&models.BudgetCategory{}).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Where("plan_id = ?", plan.ID).Delete(&models.BudgetScenario{}).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&plan).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
