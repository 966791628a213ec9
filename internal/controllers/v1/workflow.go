package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/eldolucas/orcy-backend/internal/httputil"
	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterWorkflowRoutes registers the routes for approval workflows with
// the RouterGroup that is passed.
func RegisterWorkflowRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsWorkflowList)
		r.GET("", GetWorkflows)
		r.POST("", CreateWorkflows)
	}

	// Workflow with ID
	{
		r.OPTIONS("/:id", OptionsWorkflowDetail)
		r.GET("/:id", GetWorkflow)
		r.PATCH("/:id", UpdateWorkflow)
		r.DELETE("/:id", DeleteWorkflow)
	}

	// Decision endpoints
	{
		r.OPTIONS("/:id/approve", httputil.OptionsPost)
		r.POST("/:id/approve", ApproveWorkflow)
		r.OPTIONS("/:id/reject", httputil.OptionsPost)
		r.POST("/:id/reject", RejectWorkflow)
		r.OPTIONS("/:id/request-changes", httputil.OptionsPost)
		r.POST("/:id/request-changes", RequestWorkflowChanges)
		r.OPTIONS("/:id/cancel", httputil.OptionsPost)
		r.POST("/:id/cancel", CancelWorkflow)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Workflows
// @Success		204
// @Router			/v1/workflows [options]
func OptionsWorkflowList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Workflows
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workflows/{id} [options]
func OptionsWorkflowDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.ApprovalWorkflow{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create workflows
// @Description	Creates new approval workflows. Every workflow starts at its first step.
// @Tags			Workflows
// @Accept			json
// @Produce		json
// @Success		201			{object}	WorkflowCreateResponse
// @Failure		400			{object}	WorkflowCreateResponse
// @Failure		500			{object}	WorkflowCreateResponse
// @Param			workflows	body		[]WorkflowEditable	true	"Workflows"
// @Router			/v1/workflows [post]
func CreateWorkflows(c *gin.Context) {
	var editables []WorkflowEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), WorkflowCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := WorkflowCreateResponse{}

	for _, editable := range editables {
		workflow := editable.model()

		err = models.DB.Create(&workflow).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newWorkflow(c, workflow)
		r.Data = append(r.Data, WorkflowResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get workflows
// @Description	Returns a list of approval workflows
// @Tags			Workflows
// @Produce		json
// @Success		200	{object}	WorkflowListResponse
// @Failure		400	{object}	WorkflowListResponse
// @Failure		500	{object}	WorkflowListResponse
// @Router			/v1/workflows [get]
// @Param			type		query	string	false	"Filter by request type"
// @Param			status		query	string	false	"Filter by workflow status"
// @Param			priority	query	string	false	"Filter by priority"
// @Param			requestedBy	query	string	false	"Filter by the requesting user"
// @Param			pendingFor	query	string	false	"Only workflows waiting for a decision by this user"
// @Param			overdue		query	bool	false	"Only workflows whose due date has passed"
// @Param			search		query	string	false	"Search for this text in title and description"
// @Param			offset		query	uint	false	"The offset of the first workflow returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of workflows to return. Defaults to 50."
func GetWorkflows(c *gin.Context) {
	var filter WorkflowQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// The task queue views are processed by the model layer
	if filter.PendingFor != "" {
		workflows, err := models.PendingWorkflowsForUser(models.DB, filter.PendingFor)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), WorkflowListResponse{
				Error: &s,
			})
			return
		}

		respondWorkflowList(c, workflows, filter, int64(len(workflows)))
		return
	}

	if filter.Overdue {
		workflows, err := models.OverdueWorkflows(models.DB, time.Now())
		if err != nil {
			s := err.Error()
			c.JSON(status(err), WorkflowListResponse{
				Error: &s,
			})
			return
		}

		respondWorkflowList(c, workflows, filter, int64(len(workflows)))
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number ASC") }).
		Preload("Steps.Actions").
		Order("created_at DESC").
		Where(&filterModel, queryFields...)

	if filter.Search != "" {
		q = q.Where(
			models.DB.Where("title LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)).Or(
				models.DB.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)),
			),
		)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 workflows and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var workflows []models.ApprovalWorkflow
	err = q.Find(&workflows).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), WorkflowListResponse{
			Error: &e,
		})
		return
	}

	respondWorkflowList(c, workflows, filter, count)
}

func respondWorkflowList(c *gin.Context, workflows []models.ApprovalWorkflow, filter WorkflowQueryFilter, count int64) {
	data := make([]Workflow, 0, len(workflows))
	for _, workflow := range workflows {
		data = append(data, newWorkflow(c, workflow))
	}

	limit := 50
	if filter.Limit != 0 {
		limit = filter.Limit
	}

	c.JSON(http.StatusOK, WorkflowListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get workflow
// @Description	Returns a specific approval workflow with its steps and audit trail
// @Tags			Workflows
// @Produce		json
// @Success		200	{object}	WorkflowResponse
// @Failure		400	{object}	WorkflowResponse
// @Failure		404	{object}	WorkflowResponse
// @Failure		500	{object}	WorkflowResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workflows/{id} [get]
func GetWorkflow(c *gin.Context) {
	workflow, err := getWorkflowResource(c)
	if err != nil {
		return
	}

	data := newWorkflow(c, workflow)
	c.JSON(http.StatusOK, WorkflowResponse{Data: &data})
}

// @Summary		Update workflow
// @Description	Update the title, description, due date or priority of a workflow. The steps are fixed once the workflow exists.
// @Tags			Workflows
// @Accept			json
// @Produce		json
// @Success		200			{object}	WorkflowResponse
// @Failure		400			{object}	WorkflowResponse
// @Failure		404			{object}	WorkflowResponse
// @Failure		500			{object}	WorkflowResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			workflow	body		WorkflowUpdateable	true	"Workflow"
// @Router			/v1/workflows/{id} [patch]
func UpdateWorkflow(c *gin.Context) {
	workflow, err := getWorkflowResource(c)
	if err != nil {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, WorkflowUpdateable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	var data WorkflowUpdateable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&workflow).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	r := newWorkflow(c, workflow)
	c.JSON(http.StatusOK, WorkflowResponse{Data: &r})
}

// @Summary		Delete workflow
// @Description	Deletes an approval workflow with its steps and audit trail
// @Tags			Workflows
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workflows/{id} [delete]
func DeleteWorkflow(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var workflow models.ApprovalWorkflow
	err = models.DB.First(&workflow, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&workflow).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Approve a step
// @Description	Records an approval for a step. Once the quorum of the step the workflow is waiting on is reached, the workflow advances. Approving the last step approves the workflow.
// @Tags			Workflows
// @Accept			json
// @Produce		json
// @Success		200		{object}	WorkflowResponse
// @Failure		400		{object}	WorkflowResponse
// @Failure		404		{object}	WorkflowResponse
// @Failure		500		{object}	WorkflowResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			action	body		WorkflowActionRequest	true	"Action"
// @Router			/v1/workflows/{id}/approve [post]
func ApproveWorkflow(c *gin.Context) {
	decideWorkflow(c, func(workflow *models.ApprovalWorkflow, action WorkflowActionRequest) error {
		return workflow.Approve(models.DB, action.StepID, action.ApproverID, action.ApproverName, action.Comments)
	})
}

// @Summary		Reject a step
// @Description	Records a rejection for a step. A single rejection rejects the whole workflow, no quorum applies.
// @Tags			Workflows
// @Accept			json
// @Produce		json
// @Success		200		{object}	WorkflowResponse
// @Failure		400		{object}	WorkflowResponse
// @Failure		404		{object}	WorkflowResponse
// @Failure		500		{object}	WorkflowResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			action	body		WorkflowActionRequest	true	"Action"
// @Router			/v1/workflows/{id}/reject [post]
func RejectWorkflow(c *gin.Context) {
	decideWorkflow(c, func(workflow *models.ApprovalWorkflow, action WorkflowActionRequest) error {
		return workflow.Reject(models.DB, action.StepID, action.ApproverID, action.ApproverName, action.Comments)
	})
}

// @Summary		Request changes
// @Description	Records a request for changes on a step. Only the audit trail is updated, the workflow status does not change.
// @Tags			Workflows
// @Accept			json
// @Produce		json
// @Success		200		{object}	WorkflowResponse
// @Failure		400		{object}	WorkflowResponse
// @Failure		404		{object}	WorkflowResponse
// @Failure		500		{object}	WorkflowResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			action	body		WorkflowActionRequest	true	"Action"
// @Router			/v1/workflows/{id}/request-changes [post]
func RequestWorkflowChanges(c *gin.Context) {
	decideWorkflow(c, func(workflow *models.ApprovalWorkflow, action WorkflowActionRequest) error {
		return workflow.RequestChanges(models.DB, action.StepID, action.ApproverID, action.ApproverName, action.Comments)
	})
}

// @Summary		Cancel workflow
// @Description	Cancels the workflow. Cancellation is always possible, no matter the current status.
// @Tags			Workflows
// @Produce		json
// @Success		200	{object}	WorkflowResponse
// @Failure		400	{object}	WorkflowResponse
// @Failure		404	{object}	WorkflowResponse
// @Failure		500	{object}	WorkflowResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workflows/{id}/cancel [post]
func CancelWorkflow(c *gin.Context) {
	workflow, err := getWorkflowResource(c)
	if err != nil {
		return
	}

	err = workflow.Cancel(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	respondWithWorkflow(c, workflow.ID)
}

// decideWorkflow handles the shared logic of the decision endpoints:
// loading the workflow, binding and validating the action request and
// responding with the updated workflow.
func decideWorkflow(c *gin.Context, decide func(workflow *models.ApprovalWorkflow, action WorkflowActionRequest) error) {
	workflow, err := getWorkflowResource(c)
	if err != nil {
		return
	}

	var action WorkflowActionRequest
	err = httputil.BindData(c, &action)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	if action.StepID == uuid.Nil {
		s := errStepIDNotSet.Error()
		c.JSON(http.StatusBadRequest, WorkflowResponse{
			Error: &s,
		})
		return
	}

	if action.ApproverID == "" {
		s := errApproverIDNotSet.Error()
		c.JSON(http.StatusBadRequest, WorkflowResponse{
			Error: &s,
		})
		return
	}

	err = decide(&workflow, action)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	respondWithWorkflow(c, workflow.ID)
}

// getWorkflowResource loads the workflow from the :id URI parameter with
// its steps and actions. Errors are already written to the response.
func getWorkflowResource(c *gin.Context) (models.ApprovalWorkflow, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return models.ApprovalWorkflow{}, err
	}

	var workflow models.ApprovalWorkflow
	err = models.DB.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number ASC") }).
		Preload("Steps.Actions").
		First(&workflow, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return models.ApprovalWorkflow{}, err
	}

	return workflow, nil
}

// respondWithWorkflow reloads the workflow and writes it to the response,
// so that the caller sees the state after their action.
func respondWithWorkflow(c *gin.Context, id uuid.UUID) {
	var workflow models.ApprovalWorkflow
	err := models.DB.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number ASC") }).
		Preload("Steps.Actions").
		First(&workflow, "id = ?", id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	data := newWorkflow(c, workflow)
	c.JSON(http.StatusOK, WorkflowResponse{Data: &data})
}
