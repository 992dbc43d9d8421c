package service

import (
	enginedomain "github.com/medirahq/commission/internal/engine/domain"
)

// Aggregate reduces per-transaction results into batch totals for reporting.
func (e *Engine) Aggregate(results []enginedomain.CommissionResult) enginedomain.BatchSummary {
	summary := enginedomain.BatchSummary{
		TotalTransactions: len(results),
		ByRule:            map[string]float64{},
	}

	for i := range results {
		summary.TotalCommission = roundMoney(summary.TotalCommission + results[i].TotalCommission)
		for _, calc := range results[i].Calculations {
			summary.ByRule[calc.RuleID] = roundMoney(summary.ByRule[calc.RuleID] + calc.Commission)
		}
	}

	if summary.TotalTransactions > 0 {
		summary.AverageCommission = roundMoney(summary.TotalCommission / float64(summary.TotalTransactions))
	}
	return summary
}
