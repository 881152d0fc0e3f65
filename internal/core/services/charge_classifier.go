package services

import (
	"github.com/altanet-mx/crm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ChargeClassification is the one-time charge extracted from a work order's
// charge list, if any.
type ChargeClassification struct {
	IsInstallation  bool
	ChargeTypeValue string
	Amount          decimal.Decimal
}

// ClassifyCharges scans the charge list for the first one-time installation
// fee. Charge type tags are free-form on the work-orders service; only the
// two installation tags have billing consequences here.
func ClassifyCharges(details []domain.ChargeDetail) ChargeClassification {
	for _, d := range details {
		switch d.ChargeTypeValue {
		case domain.ChargeTypeInstallation, domain.ChargeTypeExpressInstallation:
			return ChargeClassification{
				IsInstallation:  true,
				ChargeTypeValue: d.ChargeTypeValue,
				Amount:          d.Amount,
			}
		}
	}
	return ChargeClassification{Amount: decimal.Zero}
}

// chargeItemName returns the product name used for the one-time charge item.
func chargeItemName(chargeTypeValue string) string {
	if chargeTypeValue == domain.ChargeTypeExpressInstallation {
		return "Cargo por instalación express"
	}
	return "Cargo por instalación"
}
