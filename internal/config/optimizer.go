package config

import (
	"errors"

	"github.com/shopspring/decimal"
)

type OptimizerConfig struct {
	// RunLimit is the step budget of the first search round.
	// Default: 32768
	RunLimit int

	// MaxRunLimit caps the step budget a single request may ask for.
	// Default: 262144
	MaxRunLimit int

	// MaxFallbackSlippage is the largest rate shortfall, as a fraction, a
	// DEX-only fallback may have against a path using native orders.
	// Default: 0.05
	MaxFallbackSlippage decimal.Decimal

	// AllowFallback enables fallback paths behind native orders.
	// Default: true
	AllowFallback bool

	// BatchConcurrency bounds the optimisations a batch request runs at once.
	// Default: 4
	BatchConcurrency int

	// RfqGas is the flat settlement gas charged when deriving comparison prices.
	// Default: 100000
	RfqGas uint64

	// DirectSettlementGas is charged against the direct path when it is
	// compared with two-hop routes.
	// Default: 0
	DirectSettlementGas uint64
}

func (c *OptimizerConfig) Key() string {
	return OPTIMIZER_CONFIG_KEY
}

func (c *OptimizerConfig) Load() error {
	c.RunLimit = getEnvOrDefaultInt("OPTIMIZER_RUN_LIMIT", 1<<15)
	c.MaxRunLimit = getEnvOrDefaultInt("OPTIMIZER_MAX_RUN_LIMIT", 1<<18)
	slippage, err := decimal.NewFromString(getEnvOrDefault("OPTIMIZER_MAX_FALLBACK_SLIPPAGE", "0.05"))
	if err != nil {
		return errors.New("invalid OPTIMIZER_MAX_FALLBACK_SLIPPAGE")
	}
	c.MaxFallbackSlippage = slippage
	c.AllowFallback = getEnvOrDefaultBool("OPTIMIZER_ALLOW_FALLBACK", true)
	c.BatchConcurrency = getEnvOrDefaultInt("OPTIMIZER_BATCH_CONCURRENCY", 4)
	c.RfqGas = uint64(getEnvOrDefaultInt("OPTIMIZER_RFQ_GAS", 100000))
	c.DirectSettlementGas = uint64(getEnvOrDefaultInt("OPTIMIZER_DIRECT_SETTLEMENT_GAS", 0))
	return c.Validate()
}

func (c *OptimizerConfig) Validate() error {
	if c.RunLimit <= 0 {
		return errors.New("run limit must be positive")
	}
	if c.MaxRunLimit < c.RunLimit {
		return errors.New("max run limit must not be below run limit")
	}
	if c.MaxFallbackSlippage.IsNegative() {
		return errors.New("max fallback slippage must not be negative")
	}
	if c.BatchConcurrency <= 0 {
		return errors.New("batch concurrency must be positive")
	}
	return nil
}
