package v1

import (
	"net/http"

	"github.com/eldolucas/orcy-backend/internal/httputil"
	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RegisterCostCenterRoutes registers the routes for cost centers with
// the RouterGroup that is passed.
func RegisterCostCenterRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCostCenterList)
		r.GET("", GetCostCenters)
		r.POST("", CreateCostCenters)
	}

	// Tree view
	{
		r.OPTIONS("/tree", OptionsCostCenterTree)
		r.GET("/tree", GetCostCenterTree)
	}

	// Cost center with ID
	{
		r.OPTIONS("/:id", OptionsCostCenterDetail)
		r.GET("/:id", GetCostCenter)
		r.PATCH("/:id", UpdateCostCenter)
		r.DELETE("/:id", DeleteCostCenter)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Cost Centers
// @Success		204
// @Router			/v1/cost-centers [options]
func OptionsCostCenterList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Cost Centers
// @Success		204
// @Router			/v1/cost-centers/tree [options]
func OptionsCostCenterTree(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Cost Centers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cost-centers/{id} [options]
func OptionsCostCenterDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.CostCenter{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create cost centers
// @Description	Creates new cost centers
// @Tags			Cost Centers
// @Accept			json
// @Produce		json
// @Success		201				{object}	CostCenterCreateResponse
// @Failure		400				{object}	CostCenterCreateResponse
// @Failure		404				{object}	CostCenterCreateResponse
// @Failure		500				{object}	CostCenterCreateResponse
// @Param			costCenters	body		[]CostCenterEditable	true	"Cost centers"
// @Router			/v1/cost-centers [post]
func CreateCostCenters(c *gin.Context) {
	var editables []CostCenterEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CostCenterCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CostCenterCreateResponse{}

	for _, editable := range editables {
		costCenter := editable.model()

		err = models.DB.Create(&costCenter).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newCostCenter(c, costCenter)
		r.Data = append(r.Data, CostCenterResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get cost centers
// @Description	Returns a list of cost centers
// @Tags			Cost Centers
// @Produce		json
// @Success		200	{object}	CostCenterListResponse
// @Failure		400	{object}	CostCenterListResponse
// @Failure		500	{object}	CostCenterListResponse
// @Router			/v1/cost-centers [get]
// @Param			code		query	string	false	"Filter by code, glob patterns are supported"
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			parent		query	string	false	"Filter by parent cost center ID"
// @Param			level		query	int		false	"Filter by depth in the tree"
// @Param			archived	query	bool	false	"Is the cost center archived?"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first cost center returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of cost centers to return. Defaults to 50."
func GetCostCenters(c *gin.Context) {
	var filter CostCenterQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a model struct
	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("path ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 cost centers and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var costCenters []models.CostCenter
	err = q.Find(&costCenters).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CostCenterListResponse{
			Error: &e,
		})
		return
	}

	data := make([]CostCenter, 0)
	for _, costCenter := range costCenters {
		// The code filter supports glob patterns, which SQL can not
		// evaluate, so it is applied after the database query
		if slices.Contains(setFields, "Code") && !glob.Glob(filter.Code, costCenter.Code) {
			continue
		}

		data = append(data, newCostCenter(c, costCenter))
	}

	c.JSON(http.StatusOK, CostCenterListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get cost center tree
// @Description	Returns all cost centers as a tree, with children nested below their parents
// @Tags			Cost Centers
// @Produce		json
// @Success		200	{object}	CostCenterTreeResponse
// @Failure		500	{object}	CostCenterTreeResponse
// @Router			/v1/cost-centers/tree [get]
// @Param			archived	query	bool	false	"Include archived cost centers. Defaults to false."
func GetCostCenterTree(c *gin.Context) {
	var params struct {
		Archived bool `form:"archived"`
	}
	_ = c.Bind(&params)

	q := models.DB.Order("path ASC")
	if !params.Archived {
		q = q.Where("archived = ?", false)
	}

	var costCenters []models.CostCenter
	err := q.Find(&costCenters).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterTreeResponse{
			Error: &s,
		})
		return
	}

	children := make(map[string][]models.CostCenter)
	var roots []models.CostCenter
	for _, costCenter := range costCenters {
		if costCenter.ParentID == nil {
			roots = append(roots, costCenter)
			continue
		}

		key := costCenter.ParentID.String()
		children[key] = append(children[key], costCenter)
	}

	var build func(costCenter models.CostCenter) CostCenterTreeNode
	build = func(costCenter models.CostCenter) CostCenterTreeNode {
		node := CostCenterTreeNode{
			CostCenter: newCostCenter(c, costCenter),
			Children:   make([]CostCenterTreeNode, 0),
		}

		for _, child := range children[costCenter.ID.String()] {
			node.Children = append(node.Children, build(child))
		}

		return node
	}

	data := make([]CostCenterTreeNode, 0, len(roots))
	for _, root := range roots {
		data = append(data, build(root))
	}

	c.JSON(http.StatusOK, CostCenterTreeResponse{Data: data})
}

// @Summary		Get cost center
// @Description	Returns a specific cost center
// @Tags			Cost Centers
// @Produce		json
// @Success		200	{object}	CostCenterResponse
// @Failure		400	{object}	CostCenterResponse
// @Failure		404	{object}	CostCenterResponse
// @Failure		500	{object}	CostCenterResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cost-centers/{id} [get]
func GetCostCenter(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterResponse{
			Error: &s,
		})
		return
	}

	var costCenter models.CostCenter
	err = models.DB.First(&costCenter, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterResponse{
			Error: &s,
		})
		return
	}

	data := newCostCenter(c, costCenter)
	c.JSON(http.StatusOK, CostCenterResponse{Data: &data})
}

// @Summary		Update cost center
// @Description	Update an existing cost center. Only values to be updated need to be specified. Changing the code or the parent rewrites the paths of the whole subtree.
// @Tags			Cost Centers
// @Accept			json
// @Produce		json
// @Success		200			{object}	CostCenterResponse
// @Failure		400			{object}	CostCenterResponse
// @Failure		404			{object}	CostCenterResponse
// @Failure		500			{object}	CostCenterResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			costCenter	body		CostCenterEditable	true	"Cost center"
// @Router			/v1/cost-centers/{id} [patch]
func UpdateCostCenter(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterResponse{
			Error: &s,
		})
		return
	}

	var costCenter models.CostCenter
	err = models.DB.First(&costCenter, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CostCenterEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterResponse{
			Error: &s,
		})
		return
	}

	var data CostCenterEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&costCenter).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterResponse{
			Error: &s,
		})
		return
	}

	// Level and Path are recomputed by the update, read them back
	err = models.DB.First(&costCenter, "id = ?", costCenter.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostCenterResponse{
			Error: &s,
		})
		return
	}

	r := newCostCenter(c, costCenter)
	c.JSON(http.StatusOK, CostCenterResponse{Data: &r})
}

// @Summary		Delete cost center
// @Description	Deletes a cost center. Cost centers with children or with recorded spending can not be deleted.
// @Tags			Cost Centers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cost-centers/{id} [delete]
func DeleteCostCenter(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var costCenter models.CostCenter
	err = models.DB.First(&costCenter, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&costCenter).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
