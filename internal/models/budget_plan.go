package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ScenarioKind string

const (
	ScenarioOptimistic  ScenarioKind = "optimistic"
	ScenarioRealistic   ScenarioKind = "realistic"
	ScenarioPessimistic ScenarioKind = "pessimistic"
)

type CategoryPriority string

const (
	CategoryPriorityLow    CategoryPriority = "low"
	CategoryPriorityMedium CategoryPriority = "medium"
	CategoryPriorityHigh   CategoryPriority = "high"
)

// BudgetPlan is a yearly plan consisting of named budget lines and
// adjustment scenarios over their total.
type BudgetPlan struct {
	DefaultModel
	Name       string `gorm:"uniqueIndex:budget_plan_name_year"`
	FiscalYear int    `gorm:"uniqueIndex:budget_plan_name_year"`
	Note       string
	Categories []BudgetCategory `gorm:"foreignKey:PlanID"`
	Scenarios  []BudgetScenario `gorm:"foreignKey:PlanID"`
}

// BudgetCategory is one planned budget line.
type BudgetCategory struct {
	DefaultModel
	Plan          BudgetPlan `json:"-"`
	PlanID        uuid.UUID  `gorm:"uniqueIndex:budget_category_name_plan"`
	Name          string     `gorm:"uniqueIndex:budget_category_name_plan"`
	PlannedAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	GrowthRate    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Seasonality   FloatSlice      `gorm:"type:text"` // 12 monthly weight factors
	Priority      CategoryPriority
	Justification string
}

// BudgetScenario is a multiplicative adjustment view over the planned
// total of the plan. Exactly one scenario of a plan is the default.
type BudgetScenario struct {
	DefaultModel
	Plan             BudgetPlan `json:"-"`
	PlanID           uuid.UUID  `gorm:"uniqueIndex:budget_scenario_name_plan"`
	Name             string     `gorm:"uniqueIndex:budget_scenario_name_plan"`
	Kind             ScenarioKind
	AdjustmentFactor decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	IsDefault        bool
}

func (p *BudgetPlan) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Note = strings.TrimSpace(p.Note)

	return nil
}

func (p *BudgetPlan) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)
	return ValidateScenarios(p.Scenarios)
}

func (c *BudgetCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Justification = strings.TrimSpace(c.Justification)

	if c.Priority == "" {
		c.Priority = CategoryPriorityMedium
	}

	if len(c.Seasonality) != 0 && len(c.Seasonality) != 12 {
		return ErrSeasonalityLength
	}

	return nil
}

func (s *BudgetScenario) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)

	return nil
}

// ValidateScenarios verifies that exactly one scenario is the default.
func ValidateScenarios(scenarios []BudgetScenario) error {
	var defaults int
	for _, scenario := range scenarios {
		if scenario.IsDefault {
			defaults++
		}
	}

	if defaults != 1 {
		return ErrScenarioDefaultNotUnique
	}

	return nil
}

// TotalPlanned sums the planned amounts of all valid categories. A
// category counts when it has a name and a positive planned amount.
func (p BudgetPlan) TotalPlanned() decimal.Decimal {
	total := decimal.Zero
	for _, category := range p.Categories {
		if strings.TrimSpace(category.Name) == "" || !category.PlannedAmount.IsPositive() {
			continue
		}

		total = total.Add(category.PlannedAmount)
	}

	return total
}

// ProjectedTotal applies the adjustment factor of the scenario to the
// planned total.
func (s BudgetScenario) ProjectedTotal(totalPlanned decimal.Decimal) decimal.Decimal {
	return totalPlanned.Mul(s.AdjustmentFactor)
}

// MonthlyAmounts distributes the planned amount over twelve months using
// the seasonality weights. Without seasonality the amount is distributed
// evenly.
func (c BudgetCategory) MonthlyAmounts() []decimal.Decimal {
	amounts := make([]decimal.Decimal, 12)

	if len(c.Seasonality) != 12 {
		monthly := c.PlannedAmount.Div(decimal.NewFromInt(12))
		for i := range amounts {
			amounts[i] = monthly
		}

		return amounts
	}

	weightSum := decimal.Zero
	for _, factor := range c.Seasonality {
		weightSum = weightSum.Add(decimal.NewFromFloat(factor))
	}

	if !weightSum.IsPositive() {
		return amounts
	}

	for i, factor := range c.Seasonality {
		amounts[i] = c.PlannedAmount.Mul(decimal.NewFromFloat(factor)).Div(weightSum)
	}

	return amounts
}

// FloatSlice is a list of numbers stored as a JSON array.
type FloatSlice []float64

func (f FloatSlice) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}

	j, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}

	return string(j), nil
}

func (f *FloatSlice) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*f = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), f)
	case []byte:
		return json.Unmarshal(v, f)
	}

	return fmt.Errorf("cannot scan %T into a number list", value)
}

func (FloatSlice) GormDataType() string {
	return "text"
}
