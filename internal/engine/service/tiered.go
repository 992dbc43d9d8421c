package service

import (
	"sort"

	enginedomain "github.com/medirahq/commission/internal/engine/domain"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
)

// CalculateTiered runs a tiered config over an amount.
//
// Bracket mode picks the single tier whose [min, max) range contains the
// taxable amount and applies its rate to the whole amount. Cumulative mode
// walks the tiers in order and applies each tier's rate to only the slice of
// the amount falling inside that tier.
func (e *Engine) CalculateTiered(cfg ruledomain.TieredCommissionConfig, amount float64) enginedomain.TieredCalculationResult {
	taxable := amount - cfg.BaseAmount
	if taxable < 0 {
		taxable = 0
	}

	result := enginedomain.TieredCalculationResult{TaxableAmount: taxable}
	if taxable == 0 || len(cfg.Tiers) == 0 {
		return result
	}

	tiers := make([]ruledomain.TieredRate, len(cfg.Tiers))
	copy(tiers, cfg.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinAmount < tiers[j].MinAmount })

	if cfg.CumulativeCalculation {
		cumulative(&result, tiers, taxable)
	} else {
		bracket(&result, tiers, taxable)
	}

	if amount > 0 {
		result.EffectiveRate = result.TotalCommission / amount * 100
	}
	return result
}

func bracket(result *enginedomain.TieredCalculationResult, tiers []ruledomain.TieredRate, taxable float64) {
	for _, tier := range tiers {
		if taxable < tier.MinAmount {
			continue
		}
		if tier.MaxAmount != nil && taxable >= *tier.MaxAmount {
			continue
		}

		commission := tierCommission(tier, taxable)
		result.TotalCommission = commission
		result.TierBreakdown = append(result.TierBreakdown, enginedomain.TierBreakdown{
			TierID:       tier.ID,
			MinAmount:    tier.MinAmount,
			MaxAmount:    tier.MaxAmount,
			Rate:         tier.Rate,
			RateType:     tier.RateType,
			AmountInTier: taxable,
			Commission:   commission,
		})
		return
	}
}

func cumulative(result *enginedomain.TieredCalculationResult, tiers []ruledomain.TieredRate, taxable float64) {
	var total float64
	for _, tier := range tiers {
		if taxable <= tier.MinAmount {
			break
		}

		upper := taxable
		if tier.MaxAmount != nil && *tier.MaxAmount < upper {
			upper = *tier.MaxAmount
		}
		slice := upper - tier.MinAmount
		if slice <= 0 {
			continue
		}

		commission := tierCommission(tier, slice)
		total = roundMoney(total + commission)
		result.TierBreakdown = append(result.TierBreakdown, enginedomain.TierBreakdown{
			TierID:       tier.ID,
			MinAmount:    tier.MinAmount,
			MaxAmount:    tier.MaxAmount,
			Rate:         tier.Rate,
			RateType:     tier.RateType,
			AmountInTier: slice,
			Commission:   commission,
		})

		if tier.MaxAmount == nil || *tier.MaxAmount >= taxable {
			break
		}
	}
	result.TotalCommission = total
}

// tierCommission prices one tier: percentage rates scale with the amount in
// the tier, fixed rates are a flat fee for entering the tier.
func tierCommission(tier ruledomain.TieredRate, amount float64) float64 {
	if tier.RateType == ruledomain.RateFixed {
		return roundMoney(tier.Rate)
	}
	return roundMoney(amount * tier.Rate / 100)
}
