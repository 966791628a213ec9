package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WorkflowType string

const (
	WorkflowTypeExpense WorkflowType = "expense"
	WorkflowTypeRevenue WorkflowType = "revenue"
	WorkflowTypeBudget  WorkflowType = "budget"
)

type WorkflowStatus string

const (
	WorkflowStatusPending   WorkflowStatus = "pending"
	WorkflowStatusApproved  WorkflowStatus = "approved"
	WorkflowStatusRejected  WorkflowStatus = "rejected"
	WorkflowStatusCancelled WorkflowStatus = "cancelled"
)

type WorkflowPriority string

const (
	WorkflowPriorityLow    WorkflowPriority = "low"
	WorkflowPriorityMedium WorkflowPriority = "medium"
	WorkflowPriorityHigh   WorkflowPriority = "high"
	WorkflowPriorityUrgent WorkflowPriority = "urgent"
)

type StepStatus string

const (
	StepStatusPending  StepStatus = "pending"
	StepStatusApproved StepStatus = "approved"
	StepStatusRejected StepStatus = "rejected"
	StepStatusSkipped  StepStatus = "skipped"
)

type ActionType string

const (
	ActionApprove        ActionType = "approve"
	ActionReject         ActionType = "reject"
	ActionRequestChanges ActionType = "request_changes"
)

// ApprovalWorkflow drives an expense, revenue or budget request through an
// ordered list of approval steps.
//
// CurrentStep is a 1-based pointer into the steps. It only ever moves
// forward and stops moving once the workflow reaches a terminal status.
type ApprovalWorkflow struct {
	DefaultModel
	Type        WorkflowType
	Title       string
	Description string
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	RequestedBy string
	Status      WorkflowStatus
	CurrentStep uint
	TotalSteps  uint
	DueDate     *time.Time
	Priority    WorkflowPriority
	Steps       []ApprovalStep `gorm:"foreignKey:WorkflowID"`
}

// ApprovalStep is one stage of a workflow. It is completed once the quorum
// of approve actions is reached and fails on the first reject action.
//
// Parallel is metadata describing how approvers are expected to work on
// the step. Quorum counting is the same either way.
type ApprovalStep struct {
	DefaultModel
	Workflow          ApprovalWorkflow `json:"-"`
	WorkflowID        uuid.UUID        `gorm:"uniqueIndex:approval_step_number_workflow"`
	StepNumber        uint             `gorm:"uniqueIndex:approval_step_number_workflow"`
	ApproverRole      string
	ApproverIDs       StringSlice `gorm:"type:text"`
	RequiredApprovals uint
	Parallel          bool
	Status            StepStatus
	Actions           []ApprovalAction `gorm:"foreignKey:StepID"`
}

// ApprovalAction is one append-only audit entry on a step. Actions are
// never changed or removed once recorded.
type ApprovalAction struct {
	DefaultModel
	Step         ApprovalStep `json:"-"`
	StepID       uuid.UUID
	ApproverID   string
	ApproverName string
	Type         ActionType
	Comments     string
}

func (w *ApprovalWorkflow) BeforeSave(_ *gorm.DB) error {
	w.Title = strings.TrimSpace(w.Title)
	w.Description = strings.TrimSpace(w.Description)

	if w.Priority == "" {
		w.Priority = WorkflowPriorityMedium
	}

	// The type stays empty in partial updates that do not touch it
	switch w.Type {
	case "", WorkflowTypeExpense, WorkflowTypeRevenue, WorkflowTypeBudget:
	default:
		return ErrWorkflowTypeInvalid
	}

	switch w.Priority {
	case WorkflowPriorityLow, WorkflowPriorityMedium, WorkflowPriorityHigh, WorkflowPriorityUrgent:
	default:
		return ErrWorkflowPriorityInvalid
	}

	return nil
}

// BeforeCreate initializes the workflow at its first step and verifies
// that the steps are numbered 1..n without gaps.
func (w *ApprovalWorkflow) BeforeCreate(tx *gorm.DB) error {
	_ = w.DefaultModel.BeforeCreate(tx)

	switch w.Type {
	case WorkflowTypeExpense, WorkflowTypeRevenue, WorkflowTypeBudget:
	default:
		return ErrWorkflowTypeInvalid
	}

	if len(w.Steps) == 0 {
		return ErrWorkflowNoSteps
	}

	for i := range w.Steps {
		if w.Steps[i].StepNumber != uint(i+1) {
			return ErrStepNumbersInvalid
		}
	}

	w.Status = WorkflowStatusPending
	w.CurrentStep = 1
	w.TotalSteps = uint(len(w.Steps))

	return nil
}

func (s *ApprovalStep) BeforeSave(_ *gorm.DB) error {
	s.ApproverRole = strings.TrimSpace(s.ApproverRole)

	if s.Status == "" {
		s.Status = StepStatusPending
	}

	return nil
}

func (s *ApprovalStep) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	if s.RequiredApprovals < 1 {
		return ErrQuorumInvalid
	}

	if len(s.ApproverIDs) == 0 {
		return ErrApproversEmpty
	}

	return nil
}

func (a *ApprovalAction) BeforeSave(_ *gorm.DB) error {
	a.ApproverID = strings.TrimSpace(a.ApproverID)
	a.ApproverName = strings.TrimSpace(a.ApproverName)
	a.Comments = strings.TrimSpace(a.Comments)

	return nil
}

// BeforeUpdate keeps the audit log append-only.
func (a *ApprovalAction) BeforeUpdate(_ *gorm.DB) error {
	return ErrActionImmutable
}

// Terminal reports whether the workflow has reached a final status.
func (w ApprovalWorkflow) Terminal() bool {
	return w.Status != WorkflowStatusPending
}

// CurrentStepRef returns the step the workflow pointer is on. Steps must
// be loaded.
func (w ApprovalWorkflow) CurrentStepRef() *ApprovalStep {
	for i := range w.Steps {
		if w.Steps[i].StepNumber == w.CurrentStep {
			return &w.Steps[i]
		}
	}

	return nil
}

// Approve records an approve action for the step.
//
// The step becomes approved once the quorum of approve actions is reached.
// Completing the step the workflow pointer is on advances the pointer, and
// completing the last step approves the whole workflow. Approvals on other
// steps are recorded and update that step's own status, but never move the
// pointer.
func (w *ApprovalWorkflow) Approve(db *gorm.DB, stepID uuid.UUID, approverID, approverName, comments string) error {
	if w.Terminal() {
		return ErrWorkflowTerminal
	}

	step, err := w.step(db, stepID)
	if err != nil {
		return err
	}

	err = step.record(db, ActionApprove, approverID, approverName, comments)
	if err != nil {
		return err
	}

	approvals, err := step.approvalCount(db)
	if err != nil {
		return err
	}

	if step.Status == StepStatusPending && approvals >= int64(step.RequiredApprovals) {
		step.Status = StepStatusApproved
		err = db.Model(&step).Updates(map[string]any{"status": StepStatusApproved}).Error
		if err != nil {
			return err
		}
	}

	// Only completion of the current step drives advancement
	if step.StepNumber == w.CurrentStep && step.Status == StepStatusApproved {
		if w.CurrentStep == w.TotalSteps {
			w.Status = WorkflowStatusApproved
		} else {
			w.CurrentStep++
		}
	}

	return w.save(db)
}

// Reject records a reject action for the step and rejects the workflow.
//
// A single reject action is enough, no quorum applies, and the workflow is
// rejected no matter which step the pointer is on.
func (w *ApprovalWorkflow) Reject(db *gorm.DB, stepID uuid.UUID, approverID, approverName, comments string) error {
	if w.Terminal() {
		return ErrWorkflowTerminal
	}

	step, err := w.step(db, stepID)
	if err != nil {
		return err
	}

	err = step.record(db, ActionReject, approverID, approverName, comments)
	if err != nil {
		return err
	}

	step.Status = StepStatusRejected
	err = db.Model(&step).Updates(map[string]any{"status": StepStatusRejected}).Error
	if err != nil {
		return err
	}

	w.Status = WorkflowStatusRejected
	return w.save(db)
}

// RequestChanges records a request_changes action for the step. The audit
// entry is the only durable effect, neither the step nor the workflow
// status changes.
func (w *ApprovalWorkflow) RequestChanges(db *gorm.DB, stepID uuid.UUID, approverID, approverName, comments string) error {
	if w.Terminal() {
		return ErrWorkflowTerminal
	}

	step, err := w.step(db, stepID)
	if err != nil {
		return err
	}

	err = step.record(db, ActionRequestChanges, approverID, approverName, comments)
	if err != nil {
		return err
	}

	return w.save(db)
}

// Cancel sets the workflow to cancelled. No precondition applies, even a
// workflow that already reached a terminal status can be cancelled.
func (w *ApprovalWorkflow) Cancel(db *gorm.DB) error {
	w.Status = WorkflowStatusCancelled
	return w.save(db)
}

// step loads a step of this workflow.
func (w *ApprovalWorkflow) step(db *gorm.DB, stepID uuid.UUID) (ApprovalStep, error) {
	var step ApprovalStep
	err := db.First(&step, "id = ? AND workflow_id = ?", stepID, w.ID).Error
	return step, err
}

// save persists the workflow status and pointer and refreshes the
// workflow-wide update timestamp.
func (w *ApprovalWorkflow) save(db *gorm.DB) error {
	return db.Model(w).Updates(map[string]any{
		"status":       w.Status,
		"current_step": w.CurrentStep,
	}).Error
}

// record verifies that the acting user is an approver of the step and
// appends the audit entry.
func (s *ApprovalStep) record(db *gorm.DB, action ActionType, approverID, approverName, comments string) error {
	if !s.ApproverIDs.Contains(approverID) {
		return ErrApproverNotAllowed
	}

	return db.Create(&ApprovalAction{
		StepID:       s.ID,
		ApproverID:   approverID,
		ApproverName: approverName,
		Type:         action,
		Comments:     comments,
	}).Error
}

// approvalCount counts the approve actions recorded for the step.
func (s ApprovalStep) approvalCount(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&ApprovalAction{}).
		Where("step_id = ? AND type = ?", s.ID, ActionApprove).
		Count(&count).Error
	return count, err
}

// PendingWorkflowsForUser returns the pending workflows where the user is
// an approver of the step the pointer is currently on. This is the task
// queue view for an approver.
func PendingWorkflowsForUser(db *gorm.DB, userID string) ([]ApprovalWorkflow, error) {
	var workflows []ApprovalWorkflow
	err := db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number ASC") }).
		Preload("Steps.Actions").
		Where("status = ?", WorkflowStatusPending).
		Order("due_date ASC").
		Find(&workflows).Error
	if err != nil {
		return nil, err
	}

	pending := make([]ApprovalWorkflow, 0, len(workflows))
	for _, workflow := range workflows {
		step := workflow.CurrentStepRef()
		if step != nil && step.ApproverIDs.Contains(userID) {
			pending = append(pending, workflow)
		}
	}

	return pending, nil
}

// OverdueWorkflows returns the pending workflows whose due date has passed.
func OverdueWorkflows(db *gorm.DB, now time.Time) ([]ApprovalWorkflow, error) {
	var workflows []ApprovalWorkflow
	err := db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number ASC") }).
		Preload("Steps.Actions").
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", WorkflowStatusPending, now).
		Order("due_date ASC").
		Find(&workflows).Error
	return workflows, err
}

// StringSlice is a list of strings stored as a JSON array.
type StringSlice []string

func (s StringSlice) Contains(v string) bool {
	for _, entry := range s {
		if entry == v {
			return true
		}
	}

	return false
}

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}

	j, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	return string(j), nil
}

func (s *StringSlice) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	}

	return fmt.Errorf("cannot scan %T into a string list", value)
}

func (StringSlice) GormDataType() string {
	return "text"
}
