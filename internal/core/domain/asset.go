package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationMethod selects how a fixed asset's periodic depreciation is
// computed.
type DepreciationMethod string

const (
	StraightLine      DepreciationMethod = "STRAIGHT_LINE"
	DecliningBalance  DepreciationMethod = "DECLINING_BALANCE"
	UnitsOfProduction DepreciationMethod = "UNITS_OF_PRODUCTION"
)

// FixedAsset is a depreciable asset tracked by the suite's asset module.
// UnitsConsumed is maintained upstream for units-of-production assets and
// reflects the units recorded for the period being processed.
type FixedAsset struct {
	AssetID                 string             `json:"assetID"`
	Name                    string             `json:"name"`
	Cost                    decimal.Decimal    `json:"cost"`
	SalvageValue            decimal.Decimal    `json:"salvageValue"`
	UsefulLifePeriods       int                `json:"usefulLifePeriods"`
	Method                  DepreciationMethod `json:"method"`
	Rate                    decimal.Decimal    `json:"rate"` // declining-balance rate, or rate per unit
	UnitsConsumed           decimal.Decimal    `json:"unitsConsumed"`
	AccumulatedDepreciation decimal.Decimal    `json:"accumulatedDepreciation"`
	AcquiredAt              time.Time          `json:"acquiredAt"`
	IsActive                bool               `json:"isActive"`
	// Optional per-asset posting accounts; config defaults apply when empty.
	ExpenseAccountCode     string `json:"expenseAccountCode"`
	AccumulatedAccountCode string `json:"accumulatedAccountCode"`
	AuditFields
}

// NetBookValue is cost minus accumulated depreciation.
func (a FixedAsset) NetBookValue() decimal.Decimal {
	return a.Cost.Sub(a.AccumulatedDepreciation)
}

// IsFullyDepreciated reports whether the net book value has reached the
// salvage floor.
func (a FixedAsset) IsFullyDepreciated() bool {
	return a.NetBookValue().LessThanOrEqual(a.SalvageValue)
}
