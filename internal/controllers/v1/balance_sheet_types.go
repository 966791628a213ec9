package v1

import (
	"fmt"

	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/eldolucas/orcy-backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BalanceSheetEditable represents all user configurable parameters
type BalanceSheetEditable struct {
	Name   string                    `json:"name" example:"Balanço Patrimonial" default:""` // Name of the balance sheet, unique per period
	Period types.Month               `json:"period" example:"2026-06"`                      // Month the balance sheet covers
	Status models.BalanceSheetStatus `json:"status" example:"draft" default:"draft"`        // One of draft, published, closed
	Note   string                    `json:"note" example:"Fechamento semestral" default:""` // Notes about the balance sheet
}

func (editable BalanceSheetEditable) model() models.BalanceSheet {
	return models.BalanceSheet{
		Name:   editable.Name,
		Period: editable.Period,
		Status: editable.Status,
		Note:   editable.Note,
	}
}

// BalanceSheetItemEditable represents all user configurable parameters of
// an account balance
type BalanceSheetItemEditable struct {
	AccountCode  string             `json:"accountCode" example:"1.1.01" default:""`       // Code of the account in the chart of accounts
	AccountName  string             `json:"accountName" example:"Caixa" default:""`        // Name of the account
	AccountType  models.AccountType `json:"accountType" example:"asset"`                   // One of asset, liability, equity, revenue, expense
	AccountGroup string             `json:"accountGroup" example:"Ativo Circulante" default:""` // Free form grouping label
	Current      bool               `json:"isCurrent" example:"true" default:"false"`      // Whether the account is a current (short term) position
	Amount       decimal.Decimal    `json:"amount" example:"60000" default:"0"`            // Balance of the account
}

func (editable BalanceSheetItemEditable) model() models.BalanceSheetItem {
	return models.BalanceSheetItem{
		AccountCode:  editable.AccountCode,
		AccountName:  editable.AccountName,
		AccountType:  editable.AccountType,
		AccountGroup: editable.AccountGroup,
		Current:      editable.Current,
		Amount:       editable.Amount,
	}
}

type BalanceSheetItemView struct {
	models.DefaultModel
	BalanceSheetItemEditable
}

func newBalanceSheetItem(model models.BalanceSheetItem) BalanceSheetItemView {
	return BalanceSheetItemView{
		DefaultModel: model.DefaultModel,
		BalanceSheetItemEditable: BalanceSheetItemEditable{
			AccountCode:  model.AccountCode,
			AccountName:  model.AccountName,
			AccountType:  model.AccountType,
			AccountGroup: model.AccountGroup,
			Current:      model.Current,
			Amount:       model.Amount,
		},
	}
}

type BalanceSheetLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/balance-sheets/27fcd9b3-1b2d-4c4d-b695-afde0d2a4b77"`            // The balance sheet itself
	Items   string `json:"items" example:"https://example.com/api/v1/balance-sheets/27fcd9b3-1b2d-4c4d-b695-afde0d2a4b77/items"`     // The account balances of this balance sheet
	Summary string `json:"summary" example:"https://example.com/api/v1/balance-sheets/27fcd9b3-1b2d-4c4d-b695-afde0d2a4b77/summary"` // Totals, ratios and the accounting equation check
}

type BalanceSheet struct {
	models.DefaultModel
	BalanceSheetEditable
	Links BalanceSheetLinks `json:"links"`
}

func newBalanceSheet(c *gin.Context, model models.BalanceSheet) BalanceSheet {
	url := c.GetString(string(models.DBContextURL))

	return BalanceSheet{
		DefaultModel: model.DefaultModel,
		BalanceSheetEditable: BalanceSheetEditable{
			Name:   model.Name,
			Period: model.Period,
			Status: model.Status,
			Note:   model.Note,
		},
		Links: BalanceSheetLinks{
			Self:    fmt.Sprintf("%s/v1/balance-sheets/%s", url, model.ID),
			Items:   fmt.Sprintf("%s/v1/balance-sheets/%s/items", url, model.ID),
			Summary: fmt.Sprintf("%s/v1/balance-sheets/%s/summary", url, model.ID),
		},
	}
}

type BalanceSheetListResponse struct {
	Data       []BalanceSheet `json:"data"`                                                          // List of balance sheets
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type BalanceSheetCreateResponse struct {
	Data  []BalanceSheetResponse `json:"data"`                                                          // List of the created balance sheets or their respective error
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *BalanceSheetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, BalanceSheetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BalanceSheetResponse struct {
	Data  *BalanceSheet `json:"data"`                                                          // Data for the balance sheet
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BalanceSheetItemListResponse struct {
	Data  []BalanceSheetItemView `json:"data"`                                                          // List of account balances
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BalanceSheetItemCreateResponse struct {
	Data  []BalanceSheetItemResponse `json:"data"`                                                          // List of the created account balances or their respective error
	Error *string                    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *BalanceSheetItemCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, BalanceSheetItemResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BalanceSheetItemResponse struct {
	Data  *BalanceSheetItemView `json:"data"`                                                          // Data for the account balance
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BalanceSheetSummaryResponse struct {
	Data  *models.BalanceSheetSummary `json:"data"`                                                          // Totals, ratios and the accounting equation check
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BalanceSheetQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // By name
	Note   string `form:"note" filterField:"false"`   // By note
	Status string `form:"status"`                     // By status
	Search string `form:"search" filterField:"false"` // By string in name or note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first balance sheet returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of balance sheets to return. Defaults to 50.
}

func (f BalanceSheetQueryFilter) model() (models.BalanceSheet, error) {
	return models.BalanceSheet{
		Status: models.BalanceSheetStatus(f.Status),
	}, nil
}
