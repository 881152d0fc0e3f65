package dto

import (
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReceiptFilter narrows a receipt query on the receipts service. Zero-valued
// fields are left out of the query.
type ReceiptFilter struct {
	ParentID      string               `json:"parentId,omitempty"`
	OperationType string               `json:"operationType,omitempty"`
	OperationID   int                  `json:"operationId,omitempty"`
	TypeValue     domain.ReceiptType   `json:"typeValue,omitempty"`
	StatusValue   domain.ReceiptStatus `json:"statusValue,omitempty"`
}

// ReceiptResponse is the API representation of a receipt.
type ReceiptResponse struct {
	ParentID      string          `json:"parentId"`
	ParentType    string          `json:"parentType"`
	Folio         int             `json:"folio,omitempty"`
	MovementDate  time.Time       `json:"movementDate"`
	Items         []domain.Item   `json:"items"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	Taxes         decimal.Decimal `json:"taxes"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	StatusValue   string          `json:"statusValue"`
	TypeValue     string          `json:"typeValue"`
	OperationType string          `json:"operationType,omitempty"`
	OperationID   int             `json:"operationId,omitempty"`
	CurrencyValue string          `json:"currencyValue"`
}

// ToReceiptResponse maps a domain receipt to its API representation.
func ToReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ParentID:      r.ParentID,
		ParentType:    r.ParentType,
		Folio:         r.Folio,
		MovementDate:  r.MovementDate,
		Items:         r.Items,
		SubTotal:      r.SubTotal,
		Taxes:         r.Taxes,
		Discount:      r.Discount,
		Total:         r.Total,
		StatusValue:   string(r.StatusValue),
		TypeValue:     string(r.TypeValue),
		OperationType: r.OperationType,
		OperationID:   r.OperationID,
		CurrencyValue: r.CurrencyValue,
	}
}
