package models

import (
	"strings"

	"github.com/eldolucas/orcy-backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BalanceSheetStatus string

const (
	BalanceSheetDraft     BalanceSheetStatus = "draft"
	BalanceSheetPublished BalanceSheetStatus = "published"
	BalanceSheetClosed    BalanceSheetStatus = "closed"
)

type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// BalanceSheet is a period scoped ledger of account balances.
type BalanceSheet struct {
	DefaultModel
	Name   string      `gorm:"uniqueIndex:balance_sheet_name_period"`
	Period types.Month `gorm:"uniqueIndex:balance_sheet_name_period"`
	Status BalanceSheetStatus
	Note   string
	Items  []BalanceSheetItem `gorm:"foreignKey:SheetID"`
}

// BalanceSheetItem is the balance of one accounting account within a
// balance sheet.
type BalanceSheetItem struct {
	DefaultModel
	Sheet        BalanceSheet `json:"-"`
	SheetID      uuid.UUID
	AccountCode  string
	AccountName  string
	AccountType  AccountType
	AccountGroup string
	Current      bool            // Whether the account is a current (short term) position
	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// Account codes that count towards the quick ratio: cash, banks and
// receivables.
var quickAssetCodes = map[string]bool{
	"1.1.01": true,
	"1.1.02": true,
	"1.1.03": true,
}

// The accounting equation is checked with a small tolerance to absorb
// floating point noise from imported figures.
var balanceTolerance = decimal.NewFromFloat(0.01)

func (b *BalanceSheet) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	if b.Status == "" {
		b.Status = BalanceSheetDraft
	}

	switch b.Status {
	case BalanceSheetDraft, BalanceSheetPublished, BalanceSheetClosed:
	default:
		return ErrBalanceSheetStatusInvalid
	}

	return nil
}

// BeforeDelete only allows deleting balance sheets that are still drafts.
func (b *BalanceSheet) BeforeDelete(_ *gorm.DB) error {
	if b.Status != "" && b.Status != BalanceSheetDraft {
		return ErrBalanceSheetNotDraft
	}

	return nil
}

func (i *BalanceSheetItem) BeforeSave(_ *gorm.DB) error {
	i.AccountCode = strings.TrimSpace(i.AccountCode)
	i.AccountName = strings.TrimSpace(i.AccountName)
	i.AccountGroup = strings.TrimSpace(i.AccountGroup)

	// The account type stays empty in partial updates that do not touch it
	switch i.AccountType {
	case "", AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
	default:
		return ErrAccountTypeInvalid
	}

	return nil
}

func (i *BalanceSheetItem) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	switch i.AccountType {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
	default:
		return ErrAccountTypeInvalid
	}

	return i.checkIntegrity(tx, *i)
}

// checkIntegrity verifies references to other resources
func (i *BalanceSheetItem) checkIntegrity(tx *gorm.DB, toSave BalanceSheetItem) error {
	return tx.First(&BalanceSheet{}, "id = ?", toSave.SheetID).Error
}

// BalanceSheetSummary aggregates the items of a balance sheet.
//
// Ratios are nil when their denominator is zero or negative, so that an
// undefined ratio never shows up as a number.
type BalanceSheetSummary struct {
	TotalAssets      decimal.Decimal `json:"totalAssets" example:"930000"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities" example:"420000"`
	TotalEquity      decimal.Decimal `json:"totalEquity" example:"510000"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue" example:"150000"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses" example:"90000"`
	NetIncome        decimal.Decimal `json:"netIncome" example:"60000"`
	CurrentRatio     *float64        `json:"currentRatio" example:"1.8"`
	QuickRatio       *float64        `json:"quickRatio" example:"1.2"`
	DebtToEquity     *float64        `json:"debtToEquityRatio" example:"0.82"`
	ReturnOnAssets   *float64        `json:"returnOnAssets" example:"0.06"`
	ReturnOnEquity   *float64        `json:"returnOnEquity" example:"0.11"`
	Balanced         bool            `json:"balanced" example:"true"`
}

// Summary aggregates all items of the balance sheet into totals, derived
// ratios and the accounting equation check.
func (b BalanceSheet) Summary(db *gorm.DB) (BalanceSheetSummary, error) {
	var items []BalanceSheetItem
	err := db.Where("sheet_id = ?", b.ID).Find(&items).Error
	if err != nil {
		return BalanceSheetSummary{}, err
	}

	var summary BalanceSheetSummary
	var currentAssets, currentLiabilities, quickAssets decimal.Decimal

	for _, item := range items {
		switch item.AccountType {
		case AccountTypeAsset:
			summary.TotalAssets = summary.TotalAssets.Add(item.Amount)
			if item.Current {
				currentAssets = currentAssets.Add(item.Amount)
			}
			if quickAssetCodes[item.AccountCode] {
				quickAssets = quickAssets.Add(item.Amount)
			}
		case AccountTypeLiability:
			summary.TotalLiabilities = summary.TotalLiabilities.Add(item.Amount)
			if item.Current {
				currentLiabilities = currentLiabilities.Add(item.Amount)
			}
		case AccountTypeEquity:
			summary.TotalEquity = summary.TotalEquity.Add(item.Amount)
		case AccountTypeRevenue:
			summary.TotalRevenue = summary.TotalRevenue.Add(item.Amount)
		case AccountTypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(item.Amount)
		}
	}

	summary.NetIncome = summary.TotalRevenue.Sub(summary.TotalExpenses)

	summary.CurrentRatio = ratio(currentAssets, currentLiabilities)
	summary.QuickRatio = ratio(quickAssets, currentLiabilities)
	summary.DebtToEquity = ratio(summary.TotalLiabilities, summary.TotalEquity)
	summary.ReturnOnAssets = ratio(summary.NetIncome, summary.TotalAssets)
	summary.ReturnOnEquity = ratio(summary.NetIncome, summary.TotalEquity)

	difference := summary.TotalAssets.Sub(summary.TotalLiabilities.Add(summary.TotalEquity))
	summary.Balanced = difference.Abs().LessThan(balanceTolerance)

	return summary, nil
}

// ratio divides numerator by denominator, returning nil for denominators
// where the ratio is undefined.
func ratio(numerator, denominator decimal.Decimal) *float64 {
	if !denominator.IsPositive() {
		return nil
	}

	value, _ := numerator.Div(denominator).Float64()
	return &value
}
