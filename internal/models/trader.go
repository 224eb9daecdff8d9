package models

import "time"

// RiskTolerance is a trader's self-declared appetite for risk.
type RiskTolerance string

const (
	RiskHigh   RiskTolerance = "HIGH"
	RiskMedium RiskTolerance = "MEDIUM"
	RiskLow    RiskTolerance = "LOW"
)

// ValidRiskTolerance reports whether v is a known tolerance level.
func ValidRiskTolerance(v RiskTolerance) bool {
	switch v {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}

// Trader is the profile attached to an account. AutoTransferToBank routes
// sell proceeds straight to a linked bank account; AllowReset gates the
// destructive reset operation.
type Trader struct {
	Email              string `badgerhold:"key"`
	FullName           string
	DateOfBirth        time.Time
	HideDateOfBirth    bool
	RiskTolerance      RiskTolerance
	AutoTransferToBank bool
	AllowReset         bool
	UpdatedAt          time.Time
}
