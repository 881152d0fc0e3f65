package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the subscription state of a customer account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Account is a customer subscription account as served by the accounts
// record-keeping service. SubTotal/Taxes/Discount are the amounts of the
// current billing cycle. This backend mutates an account only to activate it.
type Account struct {
	AccountNumber   string          `json:"accountNumber"`
	SubTotal        decimal.Decimal `json:"subTotal"`
	Taxes           decimal.Decimal `json:"taxes"`
	Discount        decimal.Decimal `json:"discount"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	StatusValue     AccountStatus   `json:"statusValue"`
	MasterReference string          `json:"masterReference"` // billing-parent account number; empty when self is master
	IsMaster        bool            `json:"isMaster"`
	CurrencyValue   string          `json:"currencyValue"`
	ActivatedAt     *time.Time      `json:"activatedAt"`
}

// MasterAccountNumber resolves the account number that billing aggregates at.
// Slave accounts are always invoiced through their master.
func (a Account) MasterAccountNumber() string {
	if a.IsMaster || a.MasterReference == "" {
		return a.AccountNumber
	}
	return a.MasterReference
}
