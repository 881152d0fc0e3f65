package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptType distinguishes one-off receipts from monthly cycle billing.
type ReceiptType string

const (
	ReceiptManual  ReceiptType = "manual"
	ReceiptMonthly ReceiptType = "monthly"
)

// ReceiptStatus is the payment state of a receipt. This backend only ever
// creates pending receipts.
type ReceiptStatus string

const (
	ReceiptPending ReceiptStatus = "pending"
	ReceiptPaid    ReceiptStatus = "paid"
)

// Item is a single line on a receipt. ProductName is capped at 200 characters
// by the receipts service.
type Item struct {
	ProductID   string          `json:"productId,omitempty"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Discount    decimal.Decimal `json:"discount"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Total       decimal.Decimal `json:"total"`
}

// Receipt is an invoice-like billing record. Folio is assigned by the
// receipts service on creation. OperationType/OperationID tie the receipt
// back to the work order that produced it; together with ParentID they form
// the dedup key for the idempotency guard.
type Receipt struct {
	ParentID           string          `json:"parentId"`
	ParentType         string          `json:"parentType"`
	Folio              int             `json:"folio,omitempty"`
	MovementDate       time.Time       `json:"movementDate"`
	Items              []Item          `json:"items"`
	SubTotal           decimal.Decimal `json:"subTotal"`
	Taxes              decimal.Decimal `json:"taxes"`
	Discount           decimal.Decimal `json:"discount"`
	Total              decimal.Decimal `json:"total"`
	StatusValue        ReceiptStatus   `json:"statusValue"`
	TypeValue          ReceiptType     `json:"typeValue"`
	OperationType      string          `json:"operationType,omitempty"`
	OperationID        int             `json:"operationId,omitempty"`
	CurrencyValue      string          `json:"currencyValue"`
	ExchangeRate       decimal.Decimal `json:"exchangeRate"`
	IsFromInstallation bool            `json:"isFromInstallation"`
}
