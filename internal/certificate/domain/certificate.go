// Package domain defines small-scale technology certificate (STC) valuation
// inputs and results.
package domain

import (
	"time"

	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"github.com/shopspring/decimal"
)

const (
	MinDeemingYears = 1
	MaxDeemingYears = 15

	DefaultSchemeEndYear = 2031
)

type Settings struct {
	SchemeEndYear int
}

func DefaultSettings() Settings {
	return Settings{SchemeEndYear: DefaultSchemeEndYear}
}

type Input struct {
	SystemSizeKw     float64         `json:"system_size_kw"`
	InstallationDate time.Time       `json:"installation_date"`
	ZoneRating       float64         `json:"zone_rating"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}

type Valuation struct {
	SystemSizeKw  float64         `json:"system_size_kw"`
	ZoneRating    float64         `json:"zone_rating"`
	DeemingPeriod int             `json:"deeming_period"`
	Count         int64           `json:"count"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Value         decimal.Decimal `json:"value"`
}

type Requirement string

const (
	RequirementHardwareValidated           Requirement = "hardware_validated"
	RequirementComplianceCertificateIssued Requirement = "compliance_certificate_issued"
	RequirementCustomerDeclarationSigned   Requirement = "customer_declaration_signed"
	RequirementPhotographicEvidence        Requirement = "photographic_evidence"
)

// Requirements lists every checklist item in evaluation order.
var Requirements = []Requirement{
	RequirementHardwareValidated,
	RequirementComplianceCertificateIssued,
	RequirementCustomerDeclarationSigned,
	RequirementPhotographicEvidence,
}

type Checklist struct {
	HardwareValidated           bool `json:"hardware_validated"`
	ComplianceCertificateIssued bool `json:"compliance_certificate_issued"`
	CustomerDeclarationSigned   bool `json:"customer_declaration_signed"`
	PhotographicEvidence        bool `json:"photographic_evidence"`
}

// Satisfied reports whether a single requirement is met.
func (c Checklist) Satisfied(r Requirement) bool {
	switch r {
	case RequirementHardwareValidated:
		return c.HardwareValidated
	case RequirementComplianceCertificateIssued:
		return c.ComplianceCertificateIssued
	case RequirementCustomerDeclarationSigned:
		return c.CustomerDeclarationSigned
	case RequirementPhotographicEvidence:
		return c.PhotographicEvidence
	}
	return false
}

type Eligibility struct {
	Eligible bool          `json:"eligible"`
	Missing  []Requirement `json:"missing"`
}

var (
	ErrInvalidSystemSize = apperr.Validation("system_size_kw", "must be greater than zero")
	ErrInvalidZoneRating = apperr.Validation("zone_rating", "must be greater than zero")
	ErrInvalidUnitPrice  = apperr.Validation("unit_price", "must not be negative")
	ErrMissingDate       = apperr.Validation("installation_date", "is required")
)
