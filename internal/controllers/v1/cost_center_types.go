package v1

import (
	"fmt"

	"github.com/eldolucas/orcy-backend/internal/models"
	orcy_uuid "github.com/eldolucas/orcy-backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostCenterEditable represents all user configurable parameters
type CostCenterEditable struct {
	Code            string          `json:"code" example:"FIN-01" default:""`                                     // Code of the cost center, unique below the same parent
	Name            string          `json:"name" example:"Financeiro" default:""`                                 // Name of the cost center
	Note            string          `json:"note" example:"Inclui contabilidade e tesouraria" default:""`          // Notes about the cost center
	ParentID        *uuid.UUID      `json:"parentId" example:"d280ad6b-dc04-4b80-a515-9ab7018e693e" default:""`   // ID of the parent cost center, null for roots
	Budget          decimal.Decimal `json:"budget" example:"500000" default:"0"`                                  // Budget assigned to the cost center
	Spent           decimal.Decimal `json:"spent" example:"120000" default:"0"`                                   // Amount already spent
	AllocatedBudget decimal.Decimal `json:"allocatedBudget" example:"350000" default:"0"`                         // Amount distributed to child cost centers
	InheritedBudget decimal.Decimal `json:"inheritedBudget" example:"50000" default:"0"`                          // Amount received from the parent cost center
	Archived        bool            `json:"archived" example:"true" default:"false"`                              // Is the cost center archived?
}

func (editable CostCenterEditable) model() models.CostCenter {
	return models.CostCenter{
		Code:            editable.Code,
		Name:            editable.Name,
		Note:            editable.Note,
		ParentID:        editable.ParentID,
		Budget:          editable.Budget,
		Spent:           editable.Spent,
		AllocatedBudget: editable.AllocatedBudget,
		InheritedBudget: editable.InheritedBudget,
		Archived:        editable.Archived,
	}
}

type CostCenterLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/cost-centers/af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"`             // The cost center itself
	Children string `json:"children" example:"https://example.com/api/v1/cost-centers?parent=af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"` // Direct children of this cost center
}

type CostCenter struct {
	models.DefaultModel
	CostCenterEditable
	Links CostCenterLinks `json:"links"`

	// These fields are computed
	Level             int      `json:"level" example:"1"`                   // Depth of the cost center in the tree, 0 for roots
	Path              string   `json:"path" example:"DIR/FIN-01"`           // Slash joined chain of codes from the root
	Utilization       *float64 `json:"utilization" example:"0.24"`          // Share of the budget that is spent, null without a budget
	UtilizationStatus string   `json:"utilizationStatus" example:"warning"` // ok, warning or critical. Empty without a budget
}

func newCostCenter(c *gin.Context, model models.CostCenter) CostCenter {
	url := c.GetString(string(models.DBContextURL))

	return CostCenter{
		DefaultModel: model.DefaultModel,
		CostCenterEditable: CostCenterEditable{
			Code:            model.Code,
			Name:            model.Name,
			Note:            model.Note,
			ParentID:        model.ParentID,
			Budget:          model.Budget,
			Spent:           model.Spent,
			AllocatedBudget: model.AllocatedBudget,
			InheritedBudget: model.InheritedBudget,
			Archived:        model.Archived,
		},
		Links: CostCenterLinks{
			Self:     fmt.Sprintf("%s/v1/cost-centers/%s", url, model.ID),
			Children: fmt.Sprintf("%s/v1/cost-centers?parent=%s", url, model.ID),
		},
		Level:             model.Level,
		Path:              model.Path,
		Utilization:       model.Utilization(),
		UtilizationStatus: model.UtilizationStatus(),
	}
}

type CostCenterListResponse struct {
	Data       []CostCenter `json:"data"`                                                          // List of cost centers
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type CostCenterCreateResponse struct {
	Data  []CostCenterResponse `json:"data"`                                                          // List of the created cost centers or their respective error
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *CostCenterCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, CostCenterResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CostCenterResponse struct {
	Data  *CostCenter `json:"data"`                                                          // Data for the cost center
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// CostCenterTreeNode is a cost center with its children nested below it.
type CostCenterTreeNode struct {
	CostCenter
	Children []CostCenterTreeNode `json:"children"`
}

type CostCenterTreeResponse struct {
	Data  []CostCenterTreeNode `json:"data"`                                                     // Root cost centers with their subtrees
	Error *string              `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type CostCenterQueryFilter struct {
	Code     string         `form:"code" filterField:"false"`   // By code, glob patterns are supported
	Name     string         `form:"name" filterField:"false"`   // By name
	Note     string         `form:"note" filterField:"false"`   // By note
	ParentID orcy_uuid.UUID `form:"parent"`                     // By ID of the parent cost center
	Level    int            `form:"level"`                      // By depth in the tree
	Archived bool           `form:"archived"`                   // Is the cost center archived?
	Search   string         `form:"search" filterField:"false"` // By string in name or note
	Offset   uint           `form:"offset" filterField:"false"` // The offset of the first cost center returned. Defaults to 0.
	Limit    int            `form:"limit" filterField:"false"`  // Maximum number of cost centers to return. Defaults to 50.
}

func (f CostCenterQueryFilter) model() (models.CostCenter, error) {
	var parentID *uuid.UUID
	if f.ParentID.UUID != uuid.Nil {
		parentID = &f.ParentID.UUID
	}

	return models.CostCenter{
		ParentID: parentID,
		Level:    f.Level,
		Archived: f.Archived,
	}, nil
}
