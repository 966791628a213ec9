package models_test

import (
	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/shopspring/decimal"
)

func decimalOne() decimal.Decimal {
	return decimal.NewFromInt(1)
}

func (suite *TestSuiteStandard) TestBudgetPlanCreate() {
	plan := suite.createTestBudgetPlan(models.BudgetPlan{
		Name:       "Orçamento Operacional",
		FiscalYear: 2026,
		Categories: []models.BudgetCategory{
			{Name: "Pessoal", PlannedAmount: decimal.NewFromInt(300000)},
			{Name: "Infraestrutura", PlannedAmount: decimal.NewFromInt(200000)},
		},
	})

	suite.Assert().Equal("Orçamento Operacional", plan.Name)
	suite.Assert().Equal(models.CategoryPriorityMedium, plan.Categories[0].Priority)
}

func (suite *TestSuiteStandard) TestBudgetPlanDefaultScenarioValidation() {
	err := models.DB.Create(&models.BudgetPlan{
		Name:       "Sem padrão",
		FiscalYear: 2026,
		Scenarios: []models.BudgetScenario{
			{Name: "Otimista", Kind: models.ScenarioOptimistic, AdjustmentFactor: decimal.NewFromFloat(1.1)},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrScenarioDefaultNotUnique)

	err = models.DB.Create(&models.BudgetPlan{
		Name:       "Dois padrões",
		FiscalYear: 2026,
		Scenarios: []models.BudgetScenario{
			{Name: "Realista", Kind: models.ScenarioRealistic, AdjustmentFactor: decimalOne(), IsDefault: true},
			{Name: "Otimista", Kind: models.ScenarioOptimistic, AdjustmentFactor: decimal.NewFromFloat(1.1), IsDefault: true},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrScenarioDefaultNotUnique)
}

func (suite *TestSuiteStandard) TestBudgetPlanTotalPlanned() {
	plan := models.BudgetPlan{
		Categories: []models.BudgetCategory{
			{Name: "Pessoal", PlannedAmount: decimal.NewFromInt(300000)},
			{Name: "Marketing", PlannedAmount: decimal.NewFromInt(200000)},
			{Name: "", PlannedAmount: decimal.NewFromInt(50000)},
			{Name: "Zerada", PlannedAmount: decimal.Zero},
			{Name: "Negativa", PlannedAmount: decimal.NewFromInt(-10000)},
		},
	}

	suite.Assert().True(plan.TotalPlanned().Equal(decimal.NewFromInt(500000)))
}

func (suite *TestSuiteStandard) TestBudgetScenarioProjectedTotal() {
	scenario := models.BudgetScenario{AdjustmentFactor: decimal.NewFromFloat(1.1)}
	total := scenario.ProjectedTotal(decimal.NewFromInt(500000))

	suite.Assert().True(total.Equal(decimal.NewFromInt(550000)), "projected total is %s", total)

	pessimistic := models.BudgetScenario{AdjustmentFactor: decimal.NewFromFloat(0.85)}
	total = pessimistic.ProjectedTotal(decimal.NewFromInt(500000))

	suite.Assert().True(total.Equal(decimal.NewFromInt(425000)), "projected total is %s", total)
}

func (suite *TestSuiteStandard) TestBudgetCategorySeasonalityLength() {
	plan := suite.createTestBudgetPlan(models.BudgetPlan{Name: "Plano", FiscalYear: 2026})

	err := models.DB.Create(&models.BudgetCategory{
		PlanID:        plan.ID,
		Name:          "Eventos",
		PlannedAmount: decimal.NewFromInt(120000),
		Seasonality:   models.FloatSlice{1, 2, 3},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrSeasonalityLength)
}

func (suite *TestSuiteStandard) TestBudgetCategoryNameUniquePerPlan() {
	plan := suite.createTestBudgetPlan(models.BudgetPlan{Name: "Plano", FiscalYear: 2026})

	category := models.BudgetCategory{PlanID: plan.ID, Name: "Pessoal", PlannedAmount: decimal.NewFromInt(1000)}
	suite.Require().Nil(models.DB.Create(&category).Error)

	err := models.DB.Create(&models.BudgetCategory{PlanID: plan.ID, Name: "Pessoal", PlannedAmount: decimal.NewFromInt(2000)}).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNameNotUnique)
}

func (suite *TestSuiteStandard) TestBudgetScenarioNameUniquePerPlan() {
	plan := suite.createTestBudgetPlan(models.BudgetPlan{Name: "Plano", FiscalYear: 2026})

	err := models.DB.Create(&models.BudgetScenario{
		PlanID:           plan.ID,
		Name:             "Realista",
		Kind:             models.ScenarioRealistic,
		AdjustmentFactor: decimalOne(),
	}).Error
	suite.Assert().ErrorIs(err, models.ErrScenarioNameNotUnique)
}

func (suite *TestSuiteStandard) TestBudgetCategoryMonthlyAmountsEven() {
	category := models.BudgetCategory{PlannedAmount: decimal.NewFromInt(120000)}

	amounts := category.MonthlyAmounts()
	suite.Require().Len(amounts, 12)

	for _, amount := range amounts {
		suite.Assert().True(amount.Equal(decimal.NewFromInt(10000)), "monthly amount is %s", amount)
	}
}

func (suite *TestSuiteStandard) TestBudgetCategoryMonthlyAmountsSeasonal() {
	category := models.BudgetCategory{
		PlannedAmount: decimal.NewFromInt(120000),
		Seasonality:   models.FloatSlice{2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	}

	amounts := category.MonthlyAmounts()
	suite.Require().Len(amounts, 12)

	suite.Assert().True(amounts[0].Equal(decimal.NewFromInt(20000)), "january is %s", amounts[0])
	suite.Assert().True(amounts[1].Equal(decimal.NewFromInt(10000)), "february is %s", amounts[1])
	suite.Assert().True(amounts[11].IsZero(), "december is %s", amounts[11])

	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	suite.Assert().True(total.Equal(category.PlannedAmount), "total is %s", total)
}
