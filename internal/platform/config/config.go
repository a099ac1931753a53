package config

import (
	"fmt"
	"log"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// CashAccountPrefix is the chart-of-accounts subtree that holds cash
	// and bank accounts ("1-1" in the default chart).
	CashAccountPrefix string

	// BalanceEpsilon bounds acceptable rounding drift when checking the
	// balance-sheet equation. Posted entries themselves balance exactly.
	BalanceEpsilon decimal.Decimal

	// Posting accounts for the batch processors.
	DepreciationExpenseAccount     string
	AccumulatedDepreciationAccount string
	ECLExpenseAccount              string
	ECLAllowanceAccount            string

	// ECLRates maps each aging bucket to its expected-credit-loss rate.
	ECLRates map[domain.AgingBucket]decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("CASH_ACCOUNT_PREFIX", "1-1")
	viper.SetDefault("BALANCE_EPSILON", "0.01")
	viper.SetDefault("DEPRECIATION_EXPENSE_ACCOUNT", "6-210")
	viper.SetDefault("ACCUMULATED_DEPRECIATION_ACCOUNT", "1-390")
	viper.SetDefault("ECL_EXPENSE_ACCOUNT", "6-310")
	viper.SetDefault("ECL_ALLOWANCE_ACCOUNT", "1-290")
	viper.SetDefault("ECL_RATE_CURRENT", "0.01")
	viper.SetDefault("ECL_RATE_1_30", "0.03")
	viper.SetDefault("ECL_RATE_31_60", "0.05")
	viper.SetDefault("ECL_RATE_61_90", "0.10")
	viper.SetDefault("ECL_RATE_OVER_90", "0.20")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Falling back to the in-memory store.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.CashAccountPrefix = viper.GetString("CASH_ACCOUNT_PREFIX")

	epsilon, err := decimal.NewFromString(viper.GetString("BALANCE_EPSILON"))
	if err != nil {
		return nil, fmt.Errorf("invalid BALANCE_EPSILON: %w", err)
	}
	cfg.BalanceEpsilon = epsilon

	cfg.DepreciationExpenseAccount = viper.GetString("DEPRECIATION_EXPENSE_ACCOUNT")
	cfg.AccumulatedDepreciationAccount = viper.GetString("ACCUMULATED_DEPRECIATION_ACCOUNT")
	cfg.ECLExpenseAccount = viper.GetString("ECL_EXPENSE_ACCOUNT")
	cfg.ECLAllowanceAccount = viper.GetString("ECL_ALLOWANCE_ACCOUNT")

	rateKeys := map[domain.AgingBucket]string{
		domain.BucketCurrent: "ECL_RATE_CURRENT",
		domain.Bucket1To30:   "ECL_RATE_1_30",
		domain.Bucket31To60:  "ECL_RATE_31_60",
		domain.Bucket61To90:  "ECL_RATE_61_90",
		domain.BucketOver90:  "ECL_RATE_OVER_90",
	}
	cfg.ECLRates = make(map[domain.AgingBucket]decimal.Decimal, len(rateKeys))
	for bucket, key := range rateKeys {
		rate, err := decimal.NewFromString(viper.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		cfg.ECLRates[bucket] = rate
	}

	return cfg, nil
}

// DefaultTestConfig returns a config with library defaults, for tests and
// embedded use without environment setup.
func DefaultTestConfig() *Config {
	return &Config{
		CashAccountPrefix:              "1-1",
		BalanceEpsilon:                 decimal.RequireFromString("0.01"),
		DepreciationExpenseAccount:     "6-210",
		AccumulatedDepreciationAccount: "1-390",
		ECLExpenseAccount:              "6-310",
		ECLAllowanceAccount:            "1-290",
		ECLRates: map[domain.AgingBucket]decimal.Decimal{
			domain.BucketCurrent: decimal.RequireFromString("0.01"),
			domain.Bucket1To30:   decimal.RequireFromString("0.03"),
			domain.Bucket31To60:  decimal.RequireFromString("0.05"),
			domain.Bucket61To90:  decimal.RequireFromString("0.10"),
			domain.BucketOver90:  decimal.RequireFromString("0.20"),
		},
	}
}
