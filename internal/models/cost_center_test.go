package models_test

import (
	"testing"

	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCostCenterTrimWhitespace() {
	costCenter := suite.createTestCostCenter(models.CostCenter{
		Code: " FIN-01 ",
		Name: " Financeiro ",
		Note: " Whitespace everywhere ",
	})

	assert := suite.Assert()
	assert.Equal("FIN-01", costCenter.Code)
	assert.Equal("Financeiro", costCenter.Name)
	assert.Equal("Whitespace everywhere", costCenter.Note)
}

func (suite *TestSuiteStandard) TestCostCenterPlacement() {
	root := suite.createTestCostCenter(models.CostCenter{Code: "DIR", Name: "Diretoria"})
	child := suite.createTestCostCenter(models.CostCenter{Code: "FIN", Name: "Financeiro", ParentID: &root.ID})
	grandchild := suite.createTestCostCenter(models.CostCenter{Code: "CONT", Name: "Contabilidade", ParentID: &child.ID})

	assert := suite.Assert()
	assert.Equal(0, root.Level)
	assert.Equal("DIR", root.Path)
	assert.Equal(1, child.Level)
	assert.Equal("DIR/FIN", child.Path)
	assert.Equal(2, grandchild.Level)
	assert.Equal("DIR/FIN/CONT", grandchild.Path)
}

func (suite *TestSuiteStandard) TestCostCenterCodeUniquePerParent() {
	root := suite.createTestCostCenter(models.CostCenter{Code: "DIR"})
	_ = suite.createTestCostCenter(models.CostCenter{Code: "FIN", ParentID: &root.ID})

	err := models.DB.Create(&models.CostCenter{Code: "FIN", ParentID: &root.ID}).Error
	suite.Assert().ErrorIs(err, models.ErrCostCenterCodeNotUnique)
}

func (suite *TestSuiteStandard) TestCostCenterSameCodeDifferentParent() {
	rootA := suite.createTestCostCenter(models.CostCenter{Code: "DIR-A"})
	rootB := suite.createTestCostCenter(models.CostCenter{Code: "DIR-B"})

	_ = suite.createTestCostCenter(models.CostCenter{Code: "FIN", ParentID: &rootA.ID})
	_ = suite.createTestCostCenter(models.CostCenter{Code: "FIN", ParentID: &rootB.ID})
}

func (suite *TestSuiteStandard) TestCostCenterReparentCascadesPaths() {
	rootA := suite.createTestCostCenter(models.CostCenter{Code: "A"})
	rootB := suite.createTestCostCenter(models.CostCenter{Code: "B"})
	child := suite.createTestCostCenter(models.CostCenter{Code: "C", ParentID: &rootA.ID})
	grandchild := suite.createTestCostCenter(models.CostCenter{Code: "D", ParentID: &child.ID})

	err := models.DB.Model(&child).Updates(models.CostCenter{ParentID: &rootB.ID}).Error
	suite.Assert().Nil(err)

	var movedChild, movedGrandchild models.CostCenter
	suite.Assert().Nil(models.DB.First(&movedChild, "id = ?", child.ID).Error)
	suite.Assert().Nil(models.DB.First(&movedGrandchild, "id = ?", grandchild.ID).Error)

	assert := suite.Assert()
	assert.Equal(1, movedChild.Level)
	assert.Equal("B/C", movedChild.Path)
	assert.Equal(2, movedGrandchild.Level)
	assert.Equal("B/C/D", movedGrandchild.Path)
}

func (suite *TestSuiteStandard) TestCostCenterRenameCascadesPaths() {
	root := suite.createTestCostCenter(models.CostCenter{Code: "OLD"})
	child := suite.createTestCostCenter(models.CostCenter{Code: "FIN", ParentID: &root.ID})

	err := models.DB.Model(&root).Updates(models.CostCenter{Code: "NEW"}).Error
	suite.Assert().Nil(err)

	var renamedChild models.CostCenter
	suite.Assert().Nil(models.DB.First(&renamedChild, "id = ?", child.ID).Error)
	suite.Assert().Equal("NEW/FIN", renamedChild.Path)
}

func (suite *TestSuiteStandard) TestCostCenterReparentToSelf() {
	costCenter := suite.createTestCostCenter(models.CostCenter{Code: "DIR"})

	err := models.DB.Model(&costCenter).Updates(models.CostCenter{ParentID: &costCenter.ID}).Error
	suite.Assert().ErrorIs(err, models.ErrCostCenterCycle)
}

func (suite *TestSuiteStandard) TestCostCenterReparentToDescendant() {
	root := suite.createTestCostCenter(models.CostCenter{Code: "DIR"})
	child := suite.createTestCostCenter(models.CostCenter{Code: "FIN", ParentID: &root.ID})
	grandchild := suite.createTestCostCenter(models.CostCenter{Code: "CONT", ParentID: &child.ID})

	err := models.DB.Model(&root).Updates(models.CostCenter{ParentID: &grandchild.ID}).Error
	suite.Assert().ErrorIs(err, models.ErrCostCenterCycle)
}

func (suite *TestSuiteStandard) TestCostCenterDeleteWithChildren() {
	root := suite.createTestCostCenter(models.CostCenter{Code: "DIR"})
	_ = suite.createTestCostCenter(models.CostCenter{Code: "FIN", ParentID: &root.ID})

	err := models.DB.Delete(&root).Error
	suite.Assert().ErrorIs(err, models.ErrCostCenterHasChildren)
}

func (suite *TestSuiteStandard) TestCostCenterDeleteWithSpending() {
	costCenter := suite.createTestCostCenter(models.CostCenter{
		Code:   "FIN",
		Budget: decimal.NewFromInt(1000),
		Spent:  decimal.NewFromInt(250),
	})

	err := models.DB.Delete(&costCenter).Error
	suite.Assert().ErrorIs(err, models.ErrCostCenterHasSpending)
}

func (suite *TestSuiteStandard) TestCostCenterDelete() {
	costCenter := suite.createTestCostCenter(models.CostCenter{Code: "FIN"})

	suite.Assert().Nil(models.DB.Delete(&costCenter).Error)

	err := models.DB.First(&models.CostCenter{}, "id = ?", costCenter.ID).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestCostCenterChildrenOrdered() {
	root := suite.createTestCostCenter(models.CostCenter{Code: "DIR"})
	_ = suite.createTestCostCenter(models.CostCenter{Code: "RH", ParentID: &root.ID})
	_ = suite.createTestCostCenter(models.CostCenter{Code: "FIN", ParentID: &root.ID})

	children, err := root.Children(models.DB)
	suite.Assert().Nil(err)
	suite.Require().Len(children, 2)
	suite.Assert().Equal("FIN", children[0].Code)
	suite.Assert().Equal("RH", children[1].Code)
}

func (suite *TestSuiteStandard) TestCostCenterUtilization() {
	tests := []struct {
		name        string
		budget      decimal.Decimal
		spent       decimal.Decimal
		utilization *float64
		status      string
	}{
		{"no budget", decimal.Zero, decimal.NewFromInt(100), nil, ""},
		{"ok", decimal.NewFromInt(1000), decimal.NewFromInt(500), float64p(0.5), models.UtilizationOK},
		{"boundary is not a warning", decimal.NewFromInt(1000), decimal.NewFromInt(750), float64p(0.75), models.UtilizationOK},
		{"warning", decimal.NewFromInt(1000), decimal.NewFromInt(800), float64p(0.8), models.UtilizationWarning},
		{"critical", decimal.NewFromInt(1000), decimal.NewFromInt(950), float64p(0.95), models.UtilizationCritical},
		{"overspent", decimal.NewFromInt(1000), decimal.NewFromInt(1200), float64p(1.2), models.UtilizationCritical},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			costCenter := models.CostCenter{Budget: tt.budget, Spent: tt.spent}

			utilization := costCenter.Utilization()
			if tt.utilization == nil {
				assert.Nil(t, utilization)
			} else {
				require.NotNil(t, utilization)
				assert.InDelta(t, *tt.utilization, *utilization, 0.0001)
			}

			assert.Equal(t, tt.status, costCenter.UtilizationStatus())
		})
	}
}

func float64p(f float64) *float64 {
	return &f
}
