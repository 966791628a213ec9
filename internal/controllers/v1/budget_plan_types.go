package v1

import (
	"fmt"

	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetCategoryEditable represents all user configurable parameters of a
// budget line
type BudgetCategoryEditable struct {
	Name          string                  `json:"name" example:"Pessoal" default:""`                    // Name of the budget line, unique within the plan
	PlannedAmount decimal.Decimal         `json:"plannedAmount" example:"300000" default:"0"`           // Planned amount for the fiscal year
	GrowthRate    decimal.Decimal         `json:"growthRate" example:"0.05" default:"0"`                // Expected growth over the previous year
	Seasonality   []float64               `json:"seasonality" example:"1,1,1,1,1,1,1,1,1,1,1,1"`        // 12 monthly weight factors, empty for an even distribution
	Priority      models.CategoryPriority `json:"priority" example:"high" default:"medium"`             // One of low, medium, high
	Justification string                  `json:"justification" example:"Reajuste salarial" default:""` // Reasoning behind the planned amount
}

func (editable BudgetCategoryEditable) model() models.BudgetCategory {
	return models.BudgetCategory{
		Name:          editable.Name,
		PlannedAmount: editable.PlannedAmount,
		GrowthRate:    editable.GrowthRate,
		Seasonality:   models.FloatSlice(editable.Seasonality),
		Priority:      editable.Priority,
		Justification: editable.Justification,
	}
}

// BudgetScenarioEditable represents all user configurable parameters of a
// scenario
type BudgetScenarioEditable struct {
	Name             string              `json:"name" example:"Otimista" default:""`        // Name of the scenario, unique within the plan
	Kind             models.ScenarioKind `json:"kind" example:"optimistic"`                 // One of optimistic, realistic, pessimistic
	AdjustmentFactor decimal.Decimal     `json:"adjustmentFactor" example:"1.1" default:"1"` // Factor applied to the planned total
	IsDefault        bool                `json:"isDefault" example:"true" default:"false"`  // Is this the default scenario? Exactly one scenario of a plan must be the default.
}

func (editable BudgetScenarioEditable) model() models.BudgetScenario {
	return models.BudgetScenario{
		Name:             editable.Name,
		Kind:             editable.Kind,
		AdjustmentFactor: editable.AdjustmentFactor,
		IsDefault:        editable.IsDefault,
	}
}

// BudgetPlanEditable represents all user configurable parameters
type BudgetPlanEditable struct {
	Name       string                   `json:"name" example:"Orçamento Operacional" default:""`  // Name of the plan, unique per fiscal year
	FiscalYear int                      `json:"fiscalYear" example:"2026" default:"0"`            // Fiscal year the plan covers
	Note       string                   `json:"note" example:"Aprovado pela diretoria" default:""` // Notes about the plan
	Categories []BudgetCategoryEditable `json:"categories"`                                       // The budget lines of the plan
	Scenarios  []BudgetScenarioEditable `json:"scenarios"`                                        // The scenarios of the plan, exactly one must be the default
}

func (editable BudgetPlanEditable) model() models.BudgetPlan {
	categories := make([]models.BudgetCategory, 0, len(editable.Categories))
	for _, category := range editable.Categories {
		categories = append(categories, category.model())
	}

	scenarios := make([]models.BudgetScenario, 0, len(editable.Scenarios))
	for _, scenario := range editable.Scenarios {
		scenarios = append(scenarios, scenario.model())
	}

	return models.BudgetPlan{
		Name:       editable.Name,
		FiscalYear: editable.FiscalYear,
		Note:       editable.Note,
		Categories: categories,
		Scenarios:  scenarios,
	}
}

// BudgetPlanUpdateable are the fields that can be changed after the plan
// has been created.
type BudgetPlanUpdateable struct {
	Name       string `json:"name" example:"Orçamento Operacional" default:""`  // Name of the plan, unique per fiscal year
	FiscalYear int    `json:"fiscalYear" example:"2026" default:"0"`            // Fiscal year the plan covers
	Note       string `json:"note" example:"Aprovado pela diretoria" default:""` // Notes about the plan
}

func (updateable BudgetPlanUpdateable) model() models.BudgetPlan {
	return models.BudgetPlan{
		Name:       updateable.Name,
		FiscalYear: updateable.FiscalYear,
		Note:       updateable.Note,
	}
}

type BudgetCategoryView struct {
	models.DefaultModel
	BudgetCategoryEditable

	// These fields are computed
	MonthlyAmounts []decimal.Decimal `json:"monthlyAmounts"` // The planned amount distributed over the twelve months
}

type BudgetScenarioView struct {
	models.DefaultModel
	BudgetScenarioEditable

	// These fields are computed
	ProjectedTotal decimal.Decimal `json:"projectedTotal" example:"550000"` // Planned total of the plan with the adjustment factor applied
}

type BudgetPlanLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/budget-plans/029cb225-1b3c-4d27-81ba-4e3ac4b55e0b"` // The budget plan itself
}

type BudgetPlan struct {
	models.DefaultModel
	BudgetPlanUpdateable
	Links BudgetPlanLinks `json:"links"`

	// These fields are computed
	TotalPlanned decimal.Decimal      `json:"totalPlanned" example:"500000"` // Sum of the planned amounts of all valid budget lines
	Categories   []BudgetCategoryView `json:"categories"`                    // The budget lines of the plan
	Scenarios    []BudgetScenarioView `json:"scenarios"`                     // The scenarios of the plan
}

func newBudgetPlan(c *gin.Context, model models.BudgetPlan) BudgetPlan {
	url := c.GetString(string(models.DBContextURL))
	totalPlanned := model.TotalPlanned()

	categories := make([]BudgetCategoryView, 0, len(model.Categories))
	for _, category := range model.Categories {
		categories = append(categories, BudgetCategoryView{
			DefaultModel: category.DefaultModel,
			BudgetCategoryEditable: BudgetCategoryEditable{
				Name:          category.Name,
				PlannedAmount: category.PlannedAmount,
				GrowthRate:    category.GrowthRate,
				Seasonality:   category.Seasonality,
				Priority:      category.Priority,
				Justification: category.Justification,
			},
			MonthlyAmounts: category.MonthlyAmounts(),
		})
	}

	scenarios := make([]BudgetScenarioView, 0, len(model.Scenarios))
	for _, scenario := range model.Scenarios {
		scenarios = append(scenarios, BudgetScenarioView{
			DefaultModel: scenario.DefaultModel,
			BudgetScenarioEditable: BudgetScenarioEditable{
				Name:             scenario.Name,
				Kind:             scenario.Kind,
				AdjustmentFactor: scenario.AdjustmentFactor,
				IsDefault:        scenario.IsDefault,
			},
			ProjectedTotal: scenario.ProjectedTotal(totalPlanned),
		})
	}

	return BudgetPlan{
		DefaultModel: model.DefaultModel,
		BudgetPlanUpdateable: BudgetPlanUpdateable{
			Name:       model.Name,
			FiscalYear: model.FiscalYear,
			Note:       model.Note,
		},
		Links: BudgetPlanLinks{
			Self: fmt.Sprintf("%s/v1/budget-plans/%s", url, model.ID),
		},
		TotalPlanned: totalPlanned,
		Categories:   categories,
		Scenarios:    scenarios,
	}
}

type BudgetPlanListResponse struct {
	Data       []BudgetPlan `json:"data"`                                                          // List of budget plans
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type BudgetPlanCreateResponse struct {
	Data  []BudgetPlanResponse `json:"data"`                                                          // List of the created budget plans or their respective error
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *BudgetPlanCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, BudgetPlanResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetPlanResponse struct {
	Data  *BudgetPlan `json:"data"`                                                          // Data for the budget plan
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetPlanQueryFilter struct {
	Name       string `form:"name" filterField:"false"`   // By name
	Note       string `form:"note" filterField:"false"`   // By note
	FiscalYear int    `form:"fiscalYear"`                 // By fiscal year
	Search     string `form:"search" filterField:"false"` // By string in name or note
	Offset     uint   `form:"offset" filterField:"false"` // The offset of the first budget plan returned. Defaults to 0.
	Limit      int    `form:"limit" filterField:"false"`  // Maximum number of budget plans to return. Defaults to 50.
}

func (f BudgetPlanQueryFilter) model() (models.BudgetPlan, error) {
	return models.BudgetPlan{
		FiscalYear: f.FiscalYear,
	}, nil
}
