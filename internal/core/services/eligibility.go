package services

import (
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	"github.com/altanet-mx/crm_backend/internal/dto"
	"github.com/go-playground/validator/v10"
)

// approvalEligibility is the schema a work order must satisfy before approval
// may proceed. Validated once, before the coordinator touches anything.
type approvalEligibility struct {
	StartedAt     *time.Time `validate:"required"`
	FinishedAt    *time.Time `validate:"required"`
	TechnicalUser string     `validate:"required"`
}

// EligibilityValidator checks that a work order is approvable. Any failure
// aborts the whole approval before side effects run.
type EligibilityValidator struct {
	validate *validator.Validate
}

// NewEligibilityValidator builds the validator with the cross-field date rule
// registered.
func NewEligibilityValidator() *EligibilityValidator {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		e := sl.Current().Interface().(approvalEligibility)
		if e.StartedAt != nil && e.FinishedAt != nil && e.StartedAt.After(*e.FinishedAt) {
			sl.ReportError(e.StartedAt, "StartedAt", "startedAt", "ltefield", "FinishedAt")
		}
	}, approvalEligibility{})
	return &EligibilityValidator{validate: v}
}

// Validate returns the list of eligibility failures for a work order. An
// empty list means the work order may be approved.
func (ev *EligibilityValidator) Validate(wo *domain.WorkOrder) []dto.ValidationFailure {
	subject := approvalEligibility{
		StartedAt:     wo.StartedAt,
		FinishedAt:    wo.FinishedAt,
		TechnicalUser: wo.TechnicalUser,
	}

	err := ev.validate.Struct(subject)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []dto.ValidationFailure{{Property: "workOrder", Message: err.Error()}}
	}

	failures := make([]dto.ValidationFailure, 0, len(verrs))
	for _, fe := range verrs {
		failures = append(failures, dto.ValidationFailure{
			Property: eligibilityProperty(fe.StructField()),
			Message:  eligibilityMessage(fe),
		})
	}
	return failures
}

func eligibilityProperty(structField string) string {
	switch structField {
	case "StartedAt":
		return "startedAt"
	case "FinishedAt":
		return "finishedAt"
	case "TechnicalUser":
		return "technicalUser"
	}
	return structField
}

func eligibilityMessage(fe validator.FieldError) string {
	switch {
	case fe.StructField() == "TechnicalUser":
		return "a technician must be assigned before approval"
	case fe.Tag() == "ltefield":
		return "startedAt must not be after finishedAt"
	case fe.StructField() == "StartedAt":
		return "startedAt is required"
	case fe.StructField() == "FinishedAt":
		return "finishedAt is required"
	}
	return "invalid value"
}
