package service

import (
	"fmt"
	"time"

	enginedomain "github.com/medirahq/commission/internal/engine/domain"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
)

// Applies is the gating filter: a rule that fails it produces no calculation
// at all for the transaction, not a zero-rate one.
func (e *Engine) Applies(rule ruledomain.CommissionRule, tx transactiondomain.Transaction) bool {
	if rule.Type != tx.Type {
		return false
	}
	if rule.Category != ruledomain.CategoryAll && rule.Category != tx.Category {
		return false
	}
	if rule.MinAmount != nil && tx.Amount < *rule.MinAmount {
		return false
	}
	if rule.MaxAmount != nil && tx.Amount > *rule.MaxAmount {
		return false
	}
	return true
}

// ResolveRate picks the effective rate for a rule that passed gating.
// Precedence: tiered config, then advanced-condition overrides, then
// time-based rates, then the rule's base rate.
func (e *Engine) ResolveRate(rule ruledomain.CommissionRule, tx transactiondomain.Transaction) enginedomain.RateResolution {
	if rule.TieredConfig != nil && rule.RateType == ruledomain.RateTiered {
		tiered := e.CalculateTiered(*rule.TieredConfig, tx.Amount)
		mode := "bracket"
		if rule.TieredConfig.CumulativeCalculation {
			mode = "cumulative"
		}
		return enginedomain.RateResolution{
			RateType: ruledomain.RateTiered,
			Rate:     tiered.EffectiveRate,
			Details: fmt.Sprintf("tiered %s: %d tier(s) applied to %.2f",
				mode, len(tiered.TierBreakdown), tiered.TaxableAmount),
			Tiered: &tiered,
		}
	}

	if rule.AdvancedConditions != nil && len(rule.AdvancedConditions.Conditions) > 0 {
		// The group logic is group-wide, so the whole group decides whether
		// overrides are considered; the first individually matching
		// condition carrying an override then wins.
		if e.EvaluateGroup(*rule.AdvancedConditions, tx) {
			for _, cond := range rule.AdvancedConditions.Conditions {
				if cond.RateOverride == nil {
					continue
				}
				if !e.Evaluate(cond, tx) {
					continue
				}
				return enginedomain.RateResolution{
					RateType: cond.RateOverride.RateType,
					Rate:     cond.RateOverride.Rate,
					Details: fmt.Sprintf("condition %s %s matched, override rate %s",
						cond.Field, cond.Operator, formatRate(cond.RateOverride.RateType, cond.RateOverride.Rate)),
				}
			}
		}
	}

	for _, timeRate := range rule.TimeBasedRates {
		if !windowContains(timeRate, tx.Date) {
			continue
		}
		return enginedomain.RateResolution{
			RateType: timeRate.RateType,
			Rate:     timeRate.Rate,
			Details: fmt.Sprintf("time-based rate %q active, %s",
				timeRate.Name, formatRate(timeRate.RateType, timeRate.Rate)),
		}
	}

	return enginedomain.RateResolution{
		RateType: rule.RateType,
		Rate:     rule.Rate,
		Details:  fmt.Sprintf("base rate %s", formatRate(rule.RateType, rule.Rate)),
	}
}

// windowContains checks every bound a time-based rate declares; unset bounds
// leave that side of the window open.
func windowContains(rate ruledomain.TimeBasedRate, at time.Time) bool {
	if at.IsZero() {
		return false
	}
	if rate.StartDate != nil && at.Before(*rate.StartDate) {
		return false
	}
	if rate.EndDate != nil && at.After(*rate.EndDate) {
		return false
	}

	if len(rate.DaysOfWeek) > 0 {
		match := false
		for _, day := range rate.DaysOfWeek {
			if at.Weekday() == day {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	hour := at.Hour()
	if rate.StartHour != nil && hour < *rate.StartHour {
		return false
	}
	if rate.EndHour != nil && hour >= *rate.EndHour {
		return false
	}
	return true
}

func formatRate(rateType ruledomain.RateType, rate float64) string {
	if rateType == ruledomain.RatePercentage {
		return fmt.Sprintf("%.4g%%", rate)
	}
	return fmt.Sprintf("%.2f per unit", rate)
}
