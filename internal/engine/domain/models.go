// Package domain contains the commission engine's computed outputs.
// Everything here is derived, immutable data; nothing is persisted.
package domain

import (
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
)

// RateResolution is the effective rate picked for one (rule, transaction)
// pair, with a description of why that rate applied.
type RateResolution struct {
	RateType ruledomain.RateType
	Rate     float64
	Details  string

	// Tiered carries the breakdown when the rule resolved through a tiered
	// config; the commission is then the tiered total, not rate*amount.
	Tiered *TieredCalculationResult
}

// TierBreakdown records one tier's contribution to a tiered calculation.
type TierBreakdown struct {
	TierID       string              `json:"tier_id"`
	MinAmount    float64             `json:"min_amount"`
	MaxAmount    *float64            `json:"max_amount,omitempty"`
	Rate         float64             `json:"rate"`
	RateType     ruledomain.RateType `json:"rate_type"`
	AmountInTier float64             `json:"amount_in_tier"`
	Commission   float64             `json:"commission"`
}

// TieredCalculationResult is the outcome of running a tiered config over an
// amount. EffectiveRate is a derived summary percentage of the original
// amount, zero when the amount is zero.
type TieredCalculationResult struct {
	TotalCommission float64         `json:"total_commission"`
	TaxableAmount   float64         `json:"taxable_amount"`
	EffectiveRate   float64         `json:"effective_rate"`
	TierBreakdown   []TierBreakdown `json:"tier_breakdown"`
}

// CommissionCalculation is one (transaction, matching rule) record.
type CommissionCalculation struct {
	TransactionID string              `json:"transaction_id"`
	RuleID        string              `json:"rule_id"`
	RuleName      string              `json:"rule_name"`
	Amount        float64             `json:"amount"`
	Rate          float64             `json:"rate"`
	RateType      ruledomain.RateType `json:"rate_type"`
	Commission    float64             `json:"commission"`
	Details       string              `json:"details"`
}

// CommissionResult is the engine's output for a single transaction. A
// transaction no rule applies to yields an empty, zero-total result.
type CommissionResult struct {
	Transaction     transactiondomain.Transaction `json:"transaction"`
	Calculations    []CommissionCalculation       `json:"calculations"`
	TotalCommission float64                       `json:"total_commission"`
	ApplicableRules int                           `json:"applicable_rules"`
}

// BatchSummary is the pure reduction over a batch of results.
type BatchSummary struct {
	TotalCommission   float64            `json:"total_commission"`
	TotalTransactions int                `json:"total_transactions"`
	AverageCommission float64            `json:"average_commission"`
	ByRule            map[string]float64 `json:"by_rule"`
}

// Service is the pure calculation engine. All methods are safe for
// concurrent use: they read immutable inputs and share no state.
type Service interface {
	Calculate(tx transactiondomain.Transaction, rules []ruledomain.CommissionRule) CommissionResult
	CalculateBatch(txs []transactiondomain.Transaction, rules []ruledomain.CommissionRule) []CommissionResult
	Aggregate(results []CommissionResult) BatchSummary
}
