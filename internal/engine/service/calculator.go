package service

import (
	enginedomain "github.com/medirahq/commission/internal/engine/domain"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
)

// Calculate applies every rule that passes gating to a transaction and
// records one calculation per applicable rule. A transaction no rule applies
// to yields an empty result, not an error.
func (e *Engine) Calculate(tx transactiondomain.Transaction, rules []ruledomain.CommissionRule) enginedomain.CommissionResult {
	result := enginedomain.CommissionResult{
		Transaction:  tx,
		Calculations: []enginedomain.CommissionCalculation{},
	}

	for i := range rules {
		rule := rules[i]
		if !rule.IsActive {
			continue
		}
		if !e.Applies(rule, tx) {
			continue
		}

		resolution := e.ResolveRate(rule, tx)
		commission := e.commissionAmount(resolution, tx)

		result.Calculations = append(result.Calculations, enginedomain.CommissionCalculation{
			TransactionID: tx.ID.String(),
			RuleID:        rule.ID.String(),
			RuleName:      rule.Name,
			Amount:        tx.Amount,
			Rate:          resolution.Rate,
			RateType:      resolution.RateType,
			Commission:    commission,
			Details:       resolution.Details,
		})
		result.TotalCommission = roundMoney(result.TotalCommission + commission)
	}

	result.ApplicableRules = len(result.Calculations)
	return result
}

// CalculateBatch maps Calculate over the transactions; each transaction's
// result is independent of every other's.
func (e *Engine) CalculateBatch(txs []transactiondomain.Transaction, rules []ruledomain.CommissionRule) []enginedomain.CommissionResult {
	results := make([]enginedomain.CommissionResult, 0, len(txs))
	for i := range txs {
		results = append(results, e.Calculate(txs[i], rules))
	}
	return results
}

func (e *Engine) commissionAmount(resolution enginedomain.RateResolution, tx transactiondomain.Transaction) float64 {
	switch resolution.RateType {
	case ruledomain.RatePercentage:
		return roundMoney(tx.Amount * resolution.Rate / 100)
	case ruledomain.RateFixed:
		// Fixed commission is per unit, scaled by transaction quantity.
		return roundMoney(resolution.Rate * float64(tx.Quantity))
	case ruledomain.RateTiered:
		if resolution.Tiered == nil {
			return 0
		}
		// Already amount-scaled; quantity is not reapplied.
		return resolution.Tiered.TotalCommission
	default:
		return 0
	}
}
