package models_test

import (
	"time"

	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestWorkflowCreateInitializesPointer() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{
		Title:  "Notebooks para o time",
		Amount: decimal.NewFromInt(15000),
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverRole: "manager", ApproverIDs: models.StringSlice{"u1"}, RequiredApprovals: 1},
			{StepNumber: 2, ApproverRole: "director", ApproverIDs: models.StringSlice{"u2"}, RequiredApprovals: 1},
		},
	})

	assert := suite.Assert()
	assert.Equal(models.WorkflowStatusPending, workflow.Status)
	assert.Equal(uint(1), workflow.CurrentStep)
	assert.Equal(uint(2), workflow.TotalSteps)
	assert.Equal(models.WorkflowPriorityMedium, workflow.Priority)
}

func (suite *TestSuiteStandard) TestWorkflowCreateValidation() {
	err := models.DB.Create(&models.ApprovalWorkflow{Type: models.WorkflowTypeExpense}).Error
	suite.Assert().ErrorIs(err, models.ErrWorkflowNoSteps)

	err = models.DB.Create(&models.ApprovalWorkflow{
		Type: models.WorkflowTypeExpense,
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"u1"}, RequiredApprovals: 1},
			{StepNumber: 3, ApproverIDs: models.StringSlice{"u2"}, RequiredApprovals: 1},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrStepNumbersInvalid)

	err = models.DB.Create(&models.ApprovalWorkflow{
		Type: models.WorkflowTypeExpense,
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"u1"}, RequiredApprovals: 0},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrQuorumInvalid)

	err = models.DB.Create(&models.ApprovalWorkflow{
		Type: models.WorkflowTypeExpense,
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{}, RequiredApprovals: 1},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrApproversEmpty)

	err = models.DB.Create(&models.ApprovalWorkflow{
		Type: "reimbursement",
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"u1"}, RequiredApprovals: 1},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrWorkflowTypeInvalid)
}

func (suite *TestSuiteStandard) TestWorkflowSingleStepApproval() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{})

	err := workflow.Approve(models.DB, workflow.Steps[0].ID, "u1", "Ana", "ok")
	suite.Assert().Nil(err)
	suite.Assert().Equal(models.WorkflowStatusApproved, workflow.Status)

	var reloaded models.ApprovalWorkflow
	suite.Require().Nil(models.DB.Preload("Steps").First(&reloaded, "id = ?", workflow.ID).Error)
	suite.Assert().Equal(models.WorkflowStatusApproved, reloaded.Status)
	suite.Assert().Equal(uint(1), reloaded.CurrentStep)
	suite.Assert().Equal(models.StepStatusApproved, reloaded.Steps[0].Status)
}

func (suite *TestSuiteStandard) TestWorkflowTwoStepApproval() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"u1"}, RequiredApprovals: 1},
			{StepNumber: 2, ApproverIDs: models.StringSlice{"u2"}, RequiredApprovals: 1},
		},
	})

	suite.Require().Nil(workflow.Approve(models.DB, workflow.Steps[0].ID, "u1", "Ana", ""))
	suite.Assert().Equal(models.WorkflowStatusPending, workflow.Status)
	suite.Assert().Equal(uint(2), workflow.CurrentStep)

	suite.Require().Nil(workflow.Approve(models.DB, workflow.Steps[1].ID, "u2", "Bruno", ""))
	suite.Assert().Equal(models.WorkflowStatusApproved, workflow.Status)
	suite.Assert().Equal(uint(2), workflow.CurrentStep)
}

func (suite *TestSuiteStandard) TestWorkflowRejectIsTerminal() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"u1"}, RequiredApprovals: 1},
			{StepNumber: 2, ApproverIDs: models.StringSlice{"u2"}, RequiredApprovals: 1},
		},
	})

	suite.Require().Nil(workflow.Approve(models.DB, workflow.Steps[0].ID, "u1", "Ana", ""))
	suite.Require().Nil(workflow.Reject(models.DB, workflow.Steps[1].ID, "u2", "Bruno", "values do not add up"))

	suite.Assert().Equal(models.WorkflowStatusRejected, workflow.Status)

	var step models.ApprovalStep
	suite.Require().Nil(models.DB.First(&step, "id = ?", workflow.Steps[1].ID).Error)
	suite.Assert().Equal(models.StepStatusRejected, step.Status)

	// No action gets past a finished workflow
	err := workflow.Approve(models.DB, workflow.Steps[1].ID, "u2", "Bruno", "")
	suite.Assert().ErrorIs(err, models.ErrWorkflowTerminal)
}

func (suite *TestSuiteStandard) TestWorkflowRejectNeedsNoQuorum() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"u1", "u2", "u3"}, RequiredApprovals: 3},
		},
	})

	suite.Require().Nil(workflow.Reject(models.DB, workflow.Steps[0].ID, "u2", "Bruno", ""))
	suite.Assert().Equal(models.WorkflowStatusRejected, workflow.Status)
}

func (suite *TestSuiteStandard) TestWorkflowOutOfOrderApprovalDoesNotAdvance() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"u1"}, RequiredApprovals: 1},
			{StepNumber: 2, ApproverIDs: models.StringSlice{"u2"}, RequiredApprovals: 1},
		},
	})

	suite.Require().Nil(workflow.Approve(models.DB, workflow.Steps[1].ID, "u2", "Bruno", "pre-approving"))

	// The action on the later step is recorded, but the pointer stays put
	suite.Assert().Equal(models.WorkflowStatusPending, workflow.Status)
	suite.Assert().Equal(uint(1), workflow.CurrentStep)

	var step models.ApprovalStep
	suite.Require().Nil(models.DB.First(&step, "id = ?", workflow.Steps[1].ID).Error)
	suite.Assert().Equal(models.StepStatusApproved, step.Status)
}

func (suite *TestSuiteStandard) TestWorkflowQuorum() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"u1", "u2"}, RequiredApprovals: 2},
		},
	})

	suite.Require().Nil(workflow.Approve(models.DB, workflow.Steps[0].ID, "u1", "Ana", ""))
	suite.Assert().Equal(models.WorkflowStatusPending, workflow.Status)

	suite.Require().Nil(workflow.Approve(models.DB, workflow.Steps[0].ID, "u2", "Bruno", ""))
	suite.Assert().Equal(models.WorkflowStatusApproved, workflow.Status)
}

func (suite *TestSuiteStandard) TestWorkflowApproverNotAllowed() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{})

	err := workflow.Approve(models.DB, workflow.Steps[0].ID, "intruder", "Mallory", "")
	suite.Assert().ErrorIs(err, models.ErrApproverNotAllowed)
	suite.Assert().Equal(models.WorkflowStatusPending, workflow.Status)
}

func (suite *TestSuiteStandard) TestWorkflowRequestChangesIsAuditOnly() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{})

	suite.Require().Nil(workflow.RequestChanges(models.DB, workflow.Steps[0].ID, "u1", "Ana", "please attach the quote"))

	suite.Assert().Equal(models.WorkflowStatusPending, workflow.Status)
	suite.Assert().Equal(uint(1), workflow.CurrentStep)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.ApprovalAction{}).Where("step_id = ?", workflow.Steps[0].ID).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}

func (suite *TestSuiteStandard) TestWorkflowCancel() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{})

	suite.Require().Nil(workflow.Cancel(models.DB))
	suite.Assert().Equal(models.WorkflowStatusCancelled, workflow.Status)

	var reloaded models.ApprovalWorkflow
	suite.Require().Nil(models.DB.First(&reloaded, "id = ?", workflow.ID).Error)
	suite.Assert().Equal(models.WorkflowStatusCancelled, reloaded.Status)
}

func (suite *TestSuiteStandard) TestWorkflowActionImmutable() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{})
	suite.Require().Nil(workflow.Approve(models.DB, workflow.Steps[0].ID, "u1", "Ana", "ok"))

	var action models.ApprovalAction
	suite.Require().Nil(models.DB.First(&action, "step_id = ?", workflow.Steps[0].ID).Error)

	err := models.DB.Model(&action).Updates(models.ApprovalAction{Comments: "rewritten history"}).Error
	suite.Assert().ErrorIs(err, models.ErrActionImmutable)
}

func (suite *TestSuiteStandard) TestPendingWorkflowsForUser() {
	forAna := suite.createTestWorkflow(models.ApprovalWorkflow{
		Title: "Para Ana",
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"ana"}, RequiredApprovals: 1},
		},
	})

	_ = suite.createTestWorkflow(models.ApprovalWorkflow{
		Title: "Para Bruno",
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"bruno"}, RequiredApprovals: 1},
		},
	})

	// Ana already approved this one, it is no longer pending for anyone
	approved := suite.createTestWorkflow(models.ApprovalWorkflow{
		Title: "Aprovado",
		Steps: []models.ApprovalStep{
			{StepNumber: 1, ApproverIDs: models.StringSlice{"ana"}, RequiredApprovals: 1},
		},
	})
	suite.Require().Nil(approved.Approve(models.DB, approved.Steps[0].ID, "ana", "Ana", ""))

	pending, err := models.PendingWorkflowsForUser(models.DB, "ana")
	suite.Require().Nil(err)
	suite.Require().Len(pending, 1)
	suite.Assert().Equal(forAna.ID, pending[0].ID)
}

func (suite *TestSuiteStandard) TestOverdueWorkflows() {
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	overdue := suite.createTestWorkflow(models.ApprovalWorkflow{Title: "Atrasado", DueDate: &yesterday})
	_ = suite.createTestWorkflow(models.ApprovalWorkflow{Title: "No prazo", DueDate: &tomorrow})
	_ = suite.createTestWorkflow(models.ApprovalWorkflow{Title: "Sem prazo"})

	workflows, err := models.OverdueWorkflows(models.DB, time.Now())
	suite.Require().Nil(err)
	suite.Require().Len(workflows, 1)
	suite.Assert().Equal(overdue.ID, workflows[0].ID)
}

func (suite *TestSuiteStandard) TestStepNumberUniquePerWorkflow() {
	workflow := suite.createTestWorkflow(models.ApprovalWorkflow{})

	err := models.DB.Create(&models.ApprovalStep{
		WorkflowID:        workflow.ID,
		StepNumber:        1,
		ApproverIDs:       models.StringSlice{"u9"},
		RequiredApprovals: 1,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrStepNumberNotUnique)
}
