package v1

import (
	"fmt"
	"time"

	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalStepEditable represents all user configurable parameters of a step
type ApprovalStepEditable struct {
	StepNumber        uint     `json:"stepNumber" example:"1"`                        // Position of the step, steps are numbered 1..n without gaps
	ApproverRole      string   `json:"approverRole" example:"manager" default:""`     // Role of the approvers of this step
	ApproverIDs       []string `json:"approverIds" example:"ana,bruno"`               // Users allowed to act on this step
	RequiredApprovals uint     `json:"requiredApprovals" example:"1" default:"1"`     // Quorum of approve actions needed to complete the step
	Parallel          bool     `json:"isParallel" example:"false" default:"false"`    // Whether the approvers work on the step at the same time
}

func (editable ApprovalStepEditable) model() models.ApprovalStep {
	return models.ApprovalStep{
		StepNumber:        editable.StepNumber,
		ApproverRole:      editable.ApproverRole,
		ApproverIDs:       models.StringSlice(editable.ApproverIDs),
		RequiredApprovals: editable.RequiredApprovals,
		Parallel:          editable.Parallel,
	}
}

// WorkflowEditable represents all user configurable parameters
type WorkflowEditable struct {
	Type        models.WorkflowType     `json:"type" example:"expense"`                                       // Type of the request, one of expense, revenue, budget
	Title       string                  `json:"title" example:"Notebooks para o time" default:""`             // Title of the request
	Description string                  `json:"description" example:"Compra de 5 notebooks" default:""`       // Details of the request
	Amount      decimal.Decimal         `json:"amount" example:"15000" default:"0"`                           // Amount of the request
	RequestedBy string                  `json:"requestedBy" example:"carla" default:""`                       // User who created the request
	DueDate     *time.Time              `json:"dueDate" example:"2026-09-15T00:00:00Z"`                       // Date the decision is due, null for no due date
	Priority    models.WorkflowPriority `json:"priority" example:"high" default:"medium"`                     // One of low, medium, high, urgent
	Steps       []ApprovalStepEditable  `json:"steps"`                                                        // The ordered approval steps
}

func (editable WorkflowEditable) model() models.ApprovalWorkflow {
	steps := make([]models.ApprovalStep, 0, len(editable.Steps))
	for _, step := range editable.Steps {
		steps = append(steps, step.model())
	}

	return models.ApprovalWorkflow{
		Type:        editable.Type,
		Title:       editable.Title,
		Description: editable.Description,
		Amount:      editable.Amount,
		RequestedBy: editable.RequestedBy,
		DueDate:     editable.DueDate,
		Priority:    editable.Priority,
		Steps:       steps,
	}
}

// WorkflowUpdateable are the fields that can still be changed after the
// workflow has been created. The steps are fixed once the workflow exists.
type WorkflowUpdateable struct {
	Title       string                  `json:"title" example:"Notebooks para o time" default:""`       // Title of the request
	Description string                  `json:"description" example:"Compra de 5 notebooks" default:""` // Details of the request
	DueDate     *time.Time              `json:"dueDate" example:"2026-09-15T00:00:00Z"`                 // Date the decision is due, null for no due date
	Priority    models.WorkflowPriority `json:"priority" example:"high" default:"medium"`               // One of low, medium, high, urgent
}

func (updateable WorkflowUpdateable) model() models.ApprovalWorkflow {
	return models.ApprovalWorkflow{
		Title:       updateable.Title,
		Description: updateable.Description,
		DueDate:     updateable.DueDate,
		Priority:    updateable.Priority,
	}
}

// WorkflowActionRequest is the body for all decision endpoints.
type WorkflowActionRequest struct {
	StepID       uuid.UUID `json:"stepId" example:"6b22cf61-ee2f-4b1e-b6a0-bd416f482a5f"` // ID of the step the action is for
	ApproverID   string    `json:"approverId" example:"ana"`                              // User taking the action
	ApproverName string    `json:"approverName" example:"Ana Souza" default:""`           // Display name of the user taking the action
	Comments     string    `json:"comments" example:"Valores conferidos" default:""`      // Free text comment for the audit trail
}

type ApprovalActionView struct {
	models.DefaultModel
	ApproverID   string            `json:"approverId" example:"ana"`                         // User who took the action
	ApproverName string            `json:"approverName" example:"Ana Souza"`                 // Display name of the user
	Type         models.ActionType `json:"type" example:"approve"`                           // One of approve, reject, request_changes
	Comments     string            `json:"comments" example:"Valores conferidos"`            // Comment left with the action
}

type ApprovalStepView struct {
	models.DefaultModel
	ApprovalStepEditable
	Status  models.StepStatus    `json:"status" example:"pending"` // One of pending, approved, rejected, skipped
	Actions []ApprovalActionView `json:"actions"`                  // Audit trail of this step
}

type WorkflowLinks struct {
	Self           string `json:"self" example:"https://example.com/api/v1/workflows/ec85e0bc-4a85-42fb-a4a2-5a31fd379845"`                     // The workflow itself
	Approve        string `json:"approve" example:"https://example.com/api/v1/workflows/ec85e0bc-4a85-42fb-a4a2-5a31fd379845/approve"`         // Endpoint to record an approval
	Reject         string `json:"reject" example:"https://example.com/api/v1/workflows/ec85e0bc-4a85-42fb-a4a2-5a31fd379845/reject"`           // Endpoint to record a rejection
	RequestChanges string `json:"requestChanges" example:"https://example.com/api/v1/workflows/ec85e0bc-4a85-42fb-a4a2-5a31fd379845/request-changes"` // Endpoint to ask the requester for changes
	Cancel         string `json:"cancel" example:"https://example.com/api/v1/workflows/ec85e0bc-4a85-42fb-a4a2-5a31fd379845/cancel"`           // Endpoint to cancel the workflow
}

type Workflow struct {
	models.DefaultModel
	WorkflowEditable
	Links WorkflowLinks `json:"links"`

	// These fields are managed by the approval process
	Status      models.WorkflowStatus `json:"status" example:"pending"` // One of pending, approved, rejected, cancelled
	CurrentStep uint                  `json:"currentStep" example:"1"`  // 1-based number of the step waiting for a decision
	TotalSteps  uint                  `json:"totalSteps" example:"2"`   // Number of steps of the workflow
	Steps       []ApprovalStepView    `json:"steps"`                    // The steps with their audit trails
}

func newWorkflow(c *gin.Context, model models.ApprovalWorkflow) Workflow {
	url := c.GetString(string(models.DBContextURL))

	steps := make([]ApprovalStepView, 0, len(model.Steps))
	for _, step := range model.Steps {
		actions := make([]ApprovalActionView, 0, len(step.Actions))
		for _, action := range step.Actions {
			actions = append(actions, ApprovalActionView{
				DefaultModel: action.DefaultModel,
				ApproverID:   action.ApproverID,
				ApproverName: action.ApproverName,
				Type:         action.Type,
				Comments:     action.Comments,
			})
		}

		steps = append(steps, ApprovalStepView{
			DefaultModel: step.DefaultModel,
			ApprovalStepEditable: ApprovalStepEditable{
				StepNumber:        step.StepNumber,
				ApproverRole:      step.ApproverRole,
				ApproverIDs:       step.ApproverIDs,
				RequiredApprovals: step.RequiredApprovals,
				Parallel:          step.Parallel,
			},
			Status:  step.Status,
			Actions: actions,
		})
	}

	return Workflow{
		DefaultModel: model.DefaultModel,
		WorkflowEditable: WorkflowEditable{
			Type:        model.Type,
			Title:       model.Title,
			Description: model.Description,
			Amount:      model.Amount,
			RequestedBy: model.RequestedBy,
			DueDate:     model.DueDate,
			Priority:    model.Priority,
		},
		Links: WorkflowLinks{
			Self:           fmt.Sprintf("%s/v1/workflows/%s", url, model.ID),
			Approve:        fmt.Sprintf("%s/v1/workflows/%s/approve", url, model.ID),
			Reject:         fmt.Sprintf("%s/v1/workflows/%s/reject", url, model.ID),
			RequestChanges: fmt.Sprintf("%s/v1/workflows/%s/request-changes", url, model.ID),
			Cancel:         fmt.Sprintf("%s/v1/workflows/%s/cancel", url, model.ID),
		},
		Status:      model.Status,
		CurrentStep: model.CurrentStep,
		TotalSteps:  model.TotalSteps,
		Steps:       steps,
	}
}

type WorkflowListResponse struct {
	Data       []Workflow  `json:"data"`                                                          // List of workflows
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type WorkflowCreateResponse struct {
	Data  []WorkflowResponse `json:"data"`                                                          // List of the created workflows or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *WorkflowCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, WorkflowResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type WorkflowResponse struct {
	Data  *Workflow `json:"data"`                                                          // Data for the workflow
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type WorkflowQueryFilter struct {
	Type        string `form:"type"`                           // By request type
	Status      string `form:"status"`                         // By workflow status
	Priority    string `form:"priority"`                       // By priority
	RequestedBy string `form:"requestedBy"`                    // By the requesting user
	PendingFor  string `form:"pendingFor" filterField:"false"` // Workflows waiting for a decision by this user
	Overdue     bool   `form:"overdue" filterField:"false"`    // Only workflows whose due date has passed
	Search      string `form:"search" filterField:"false"`     // By string in title or description
	Offset      uint   `form:"offset" filterField:"false"`     // The offset of the first workflow returned. Defaults to 0.
	Limit       int    `form:"limit" filterField:"false"`      // Maximum number of workflows to return. Defaults to 50.
}

func (f WorkflowQueryFilter) model() (models.ApprovalWorkflow, error) {
	return models.ApprovalWorkflow{
		Type:        models.WorkflowType(f.Type),
		Status:      models.WorkflowStatus(f.Status),
		Priority:    models.WorkflowPriority(f.Priority),
		RequestedBy: f.RequestedBy,
	}, nil
}
