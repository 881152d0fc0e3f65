package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderType identifies the kind of field operation a work order records.
type WorkOrderType string

const (
	WorkOrderInstallation  WorkOrderType = "installation"
	WorkOrderServiceCall   WorkOrderType = "service"
	WorkOrderCollection    WorkOrderType = "collection"
	WorkOrderAddressChange WorkOrderType = "address_change"
)

// WorkOrderStatus is the lifecycle state of a work order. This backend only
// ever moves a work order to Approved; every other transition belongs to the
// intake service.
type WorkOrderStatus string

const (
	WorkOrderPending  WorkOrderStatus = "pending"
	WorkOrderApproved WorkOrderStatus = "approved"
)

// Charge type tags recognized as one-time installation fees.
const (
	ChargeTypeInstallation        = "installation"
	ChargeTypeExpressInstallation = "express_installation"
)

// ChargeDetail is a single declared charge on a work order. Amount is
// tax-inclusive.
type ChargeDetail struct {
	Amount          decimal.Decimal `json:"amount"`
	ChargeTypeValue string          `json:"chargeTypeValue"`
}

// WorkOrder represents a field operation tied to an account. It is created by
// the intake service; this backend reads it and flips its status on approval.
type WorkOrder struct {
	Folio              int             `json:"folio"`
	StartedAt          *time.Time      `json:"startedAt"`
	FinishedAt         *time.Time      `json:"finishedAt"`
	StatusValue        WorkOrderStatus `json:"statusValue"`
	TypeValue          WorkOrderType   `json:"typeValue"`
	ChargeDetails      []ChargeDetail  `json:"chargeDetails"` // nil when intake declared no charges at all
	AccountNumber      string          `json:"accountNumber"`
	TechnicalUser      string          `json:"technicalUser"`
	InstalledEquipment string          `json:"installedEquipment"`
	Comments           string          `json:"comments"`
}
