package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostCenter is a budget owning organizational unit. Cost centers form a
// forest: every cost center can have a parent and the Level and Path
// columns are derived from the chain of parents.
type CostCenter struct {
	DefaultModel
	Code            string      `gorm:"uniqueIndex:cost_center_code_parent"`
	Name            string
	Note            string
	Parent          *CostCenter `json:"-"`
	ParentID        *uuid.UUID  `gorm:"uniqueIndex:cost_center_code_parent"`
	Level           int             // Depth from the root, 0 for root cost centers
	Path            string          // Slash joined chain of codes from the root to this cost center
	Budget          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Spent           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AllocatedBudget decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	InheritedBudget decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Archived        bool

	// Set when an update changes the placement, so that AfterUpdate can
	// rewrite the paths of the subtree below this cost center.
	cascade *placement
}

// placement is the derived position of a cost center in the forest.
type placement struct {
	level int
	path  string
}

// Utilization thresholds. A cost center that spent more than 90% of its
// budget is critical, more than 75% is a warning.
const (
	UtilizationOK       = "ok"
	UtilizationWarning  = "warning"
	UtilizationCritical = "critical"
)

func (c *CostCenter) BeforeSave(_ *gorm.DB) error {
	c.Code = strings.TrimSpace(c.Code)
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

func (c *CostCenter) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	level, path, err := c.derivePlacement(tx, c.ParentID, c.Code)
	if err != nil {
		return err
	}

	c.Level = level
	c.Path = path
	return nil
}

// BeforeUpdate recomputes Level and Path when the code or the parent of
// the cost center changes and remembers the new placement so that
// AfterUpdate can cascade it to all descendants.
func (c *CostCenter) BeforeUpdate(tx *gorm.DB) error {
	if !tx.Statement.Changed("ParentID") && !tx.Statement.Changed("Code") {
		return nil
	}

	toSave := tx.Statement.Dest.(CostCenter)

	code := c.Code
	if tx.Statement.Changed("Code") {
		code = strings.TrimSpace(toSave.Code)
	}

	parentID := c.ParentID
	if tx.Statement.Changed("ParentID") {
		parentID = toSave.ParentID
	}

	level, path, err := c.derivePlacement(tx, parentID, code)
	if err != nil {
		return err
	}

	tx.Statement.SetColumn("Level", level)
	tx.Statement.SetColumn("Path", path)
	c.cascade = &placement{level: level, path: path}

	return nil
}

// AfterUpdate rewrites the levels and paths of all descendants after the
// cost center has been moved or renamed.
func (c *CostCenter) AfterUpdate(tx *gorm.DB) error {
	if c.cascade == nil {
		return nil
	}

	place := *c.cascade
	c.cascade = nil

	return rebuildDescendantPaths(tx, c.ID, place.level, place.path)
}

// BeforeDelete only allows deleting cost centers without children and
// without recorded spending.
func (c *CostCenter) BeforeDelete(tx *gorm.DB) error {
	var count int64
	err := tx.Model(&CostCenter{}).Where("parent_id = ?", c.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrCostCenterHasChildren
	}

	if c.Spent.IsPositive() {
		return ErrCostCenterHasSpending
	}

	return nil
}

// derivePlacement computes Level and Path for a cost center below the
// given parent. Reparenting a cost center to itself or to one of its own
// descendants is rejected since it would detach the subtree into a cycle.
func (c *CostCenter) derivePlacement(tx *gorm.DB, parentID *uuid.UUID, code string) (int, string, error) {
	if parentID == nil {
		return 0, code, nil
	}

	if *parentID == c.ID {
		return 0, "", ErrCostCenterCycle
	}

	var parent CostCenter
	err := tx.First(&parent, "id = ?", parentID).Error
	if err != nil {
		return 0, "", err
	}

	if c.Path != "" && strings.HasPrefix(parent.Path+"/", c.Path+"/") {
		return 0, "", ErrCostCenterCycle
	}

	return parent.Level + 1, parent.Path + "/" + code, nil
}

// rebuildDescendantPaths walks the subtree below a cost center and rewrites
// the derived Level and Path columns of every descendant.
func rebuildDescendantPaths(tx *gorm.DB, id uuid.UUID, level int, path string) error {
	var children []CostCenter
	err := tx.Where("parent_id = ?", id).Find(&children).Error
	if err != nil {
		return err
	}

	for _, child := range children {
		childPath := path + "/" + child.Code

		err = tx.Model(&CostCenter{}).Where("id = ?", child.ID).UpdateColumns(map[string]any{
			"level": level + 1,
			"path":  childPath,
		}).Error
		if err != nil {
			return err
		}

		err = rebuildDescendantPaths(tx, child.ID, level+1, childPath)
		if err != nil {
			return err
		}
	}

	return nil
}

// Children returns the direct children of the cost center.
func (c CostCenter) Children(db *gorm.DB) ([]CostCenter, error) {
	var children []CostCenter
	err := db.Where("parent_id = ?", c.ID).Order("code ASC").Find(&children).Error
	return children, err
}

// Utilization is the share of the budget that has been spent.
//
// It is nil when the cost center has no positive budget since the ratio is
// undefined in that case.
func (c CostCenter) Utilization() *float64 {
	if !c.Budget.IsPositive() {
		return nil
	}

	utilization, _ := c.Spent.Div(c.Budget).Float64()
	return &utilization
}

// UtilizationStatus classifies the utilization against the fixed
// thresholds. It is empty when the utilization is undefined.
func (c CostCenter) UtilizationStatus() string {
	utilization := c.Utilization()
	if utilization == nil {
		return ""
	}

	switch {
	case *utilization > 0.9:
		return UtilizationCritical
	case *utilization > 0.75:
		return UtilizationWarning
	default:
		return UtilizationOK
	}
}
