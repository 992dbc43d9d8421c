package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Validate runs the full cross-field rule validation. A nil return means the
// rule is acceptable; otherwise the rule is rejected as a whole.
func Validate(rule *CommissionRule) *ValidationErrors {
	v := &validator{}

	if strings.TrimSpace(rule.Name) == "" {
		v.add("name", "required", "name is required")
	}
	if !rule.Type.Valid() {
		v.add("type", "invalid_type", "type must be doctor, agent or department")
	}
	if strings.TrimSpace(rule.Category) == "" {
		v.add("category", "required", "category is required")
	}

	v.checkRate("rate", rule.RateType, rule.Rate)

	if rule.MinAmount != nil && *rule.MinAmount < 0 {
		v.add("min_amount", "out_of_range", "min_amount must be >= 0")
	}
	if rule.MinAmount != nil && rule.MaxAmount != nil && *rule.MinAmount >= *rule.MaxAmount {
		v.add("min_amount", "invalid_bounds", "min_amount must be less than max_amount")
	}

	// A rule declares exactly one resolution mode: base rate, advanced
	// conditions, or tiered config. Declaring both advanced and tiered is a
	// configuration error rather than an implicit precedence pick.
	if rule.AdvancedConditions != nil && len(rule.AdvancedConditions.Conditions) > 0 && rule.TieredConfig != nil {
		v.add("rate_type", "invalid_resolution_mode", "rule cannot declare both advanced conditions and a tiered config")
	}

	if rule.RateType == RateTiered && rule.TieredConfig == nil {
		v.add("tiered_config", "required", "tiered rate type requires a tiered config")
	}
	if rule.RateType != RateTiered && rule.TieredConfig != nil {
		v.add("rate_type", "invalid_resolution_mode", "tiered config requires the tiered rate type")
	}

	if rule.AdvancedConditions != nil {
		v.checkAdvancedConditions(rule.AdvancedConditions)
	}
	if rule.TieredConfig != nil {
		v.checkTieredConfig(rule.TieredConfig)
	}
	for i := range rule.TimeBasedRates {
		v.checkTimeBasedRate(fmt.Sprintf("time_based_rates[%d]", i), &rule.TimeBasedRates[i])
	}

	return v.result()
}

// ValidateImportData checks the import envelope shape: version present, rules
// is a sequence, and each rule carries id, name, type, rate type and a
// numeric rate. Semantic rule validation happens separately on import.
func ValidateImportData(payload ExportPayload) *ValidationErrors {
	v := &validator{}

	if strings.TrimSpace(payload.Version) == "" {
		v.add("version", "required", "version is required")
	}
	if payload.Rules == nil {
		v.add("rules", "required", "rules must be a sequence")
	}

	for i := range payload.Rules {
		rule := &payload.Rules[i]
		prefix := fmt.Sprintf("rules[%d]", i)
		if rule.ID == 0 {
			v.add(prefix+".id", "required", "rule id is required")
		}
		if strings.TrimSpace(rule.Name) == "" {
			v.add(prefix+".name", "required", "rule name is required")
		}
		if !rule.Type.Valid() {
			v.add(prefix+".type", "invalid_type", "rule type is invalid")
		}
		if !rule.RateType.Valid() {
			v.add(prefix+".rate_type", "invalid_rate_type", "rule rate type is invalid")
		}
		if rule.Rate < 0 {
			v.add(prefix+".rate", "out_of_range", "rule rate must be numeric and >= 0")
		}
	}

	return v.result()
}

type validator struct {
	errs []FieldError
}

func (v *validator) add(field, code, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Code: code, Message: message})
}

func (v *validator) result() *ValidationErrors {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: v.errs}
}

func (v *validator) checkRate(field string, rateType RateType, rate float64) {
	switch rateType {
	case RatePercentage:
		if rate < 0 || rate > 100 {
			v.add(field, "out_of_range", "percentage rate must be between 0 and 100")
		}
	case RateFixed, RateTiered:
		if rate < 0 {
			v.add(field, "out_of_range", "rate must be >= 0")
		}
	default:
		v.add("rate_type", "invalid_rate_type", "rate type must be percentage, fixed or tiered")
	}
}

func (v *validator) checkAdvancedConditions(group *AdvancedConditions) {
	if group.Logic != LogicAnd && group.Logic != LogicOr {
		v.add("advanced_conditions.logic", "invalid_logic", "logic must be AND or OR")
	}

	for i := range group.Conditions {
		v.checkCondition(fmt.Sprintf("advanced_conditions.conditions[%d]", i), &group.Conditions[i])
	}
}

func (v *validator) checkCondition(prefix string, cond *ConditionRule) {
	switch cond.Field {
	case FieldAmount, FieldQuantity, FieldCategory, FieldType, FieldDate:
	default:
		v.add(prefix+".field", "invalid_field", "unknown condition field")
		return
	}

	switch cond.Operator {
	case OpGt, OpGte, OpLt, OpLte, OpBetween:
		if !cond.Field.Numeric() {
			v.add(prefix+".operator", "invalid_operator", "ordering operators require a numeric or date field")
		}
	case OpEq, OpNeq, OpIn:
	default:
		v.add(prefix+".operator", "invalid_operator", "unknown operator")
		return
	}

	if cond.Operator == OpBetween {
		if cond.SecondValue == nil {
			v.add(prefix+".second_value", "required", "between requires a second value")
		} else if cond.Field == FieldDate {
			if cond.Value.Date == nil || cond.SecondValue.Date == nil {
				v.add(prefix+".second_value", "type_mismatch", "between on a date field requires date bounds")
			} else if !cond.SecondValue.Date.After(*cond.Value.Date) {
				v.add(prefix+".second_value", "invalid_bounds", "second value must be greater than value")
			}
		} else {
			if cond.Value.Number == nil || cond.SecondValue.Number == nil {
				v.add(prefix+".second_value", "type_mismatch", "between requires numeric bounds")
			} else if *cond.SecondValue.Number <= *cond.Value.Number {
				v.add(prefix+".second_value", "invalid_bounds", "second value must be greater than value")
			}
		}
	}

	if cond.Operator == OpIn && len(cond.Value.Strings) == 0 && len(cond.Value.Numbers) == 0 {
		v.add(prefix+".value", "required", "in requires a list of values")
	}

	if cond.RateOverride != nil {
		if cond.RateOverride.RateType == RateTiered {
			v.add(prefix+".rate_override.rate_type", "invalid_rate_type", "overrides cannot be tiered")
		} else {
			v.checkRate(prefix+".rate_override.rate", cond.RateOverride.RateType, cond.RateOverride.Rate)
		}
	}
}

func (v *validator) checkTieredConfig(cfg *TieredCommissionConfig) {
	if len(cfg.Tiers) == 0 {
		v.add("tiered_config.tiers", "required", "at least one tier is required")
		return
	}
	if cfg.BaseAmount < 0 {
		v.add("tiered_config.base_amount", "out_of_range", "base_amount must be >= 0")
	}

	tiers := make([]TieredRate, len(cfg.Tiers))
	copy(tiers, cfg.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinAmount < tiers[j].MinAmount })

	for i := range tiers {
		prefix := fmt.Sprintf("tiered_config.tiers[%d]", i)
		tier := &tiers[i]

		if tier.MinAmount < 0 {
			v.add(prefix+".min_amount", "out_of_range", "min_amount must be >= 0")
		}
		if tier.MaxAmount != nil && *tier.MaxAmount <= tier.MinAmount {
			v.add(prefix+".max_amount", "invalid_bounds", "max_amount must be greater than min_amount")
		}
		if tier.RateType != RatePercentage && tier.RateType != RateFixed {
			v.add(prefix+".rate_type", "invalid_rate_type", "tier rate type must be percentage or fixed")
		} else {
			v.checkRate(prefix+".rate", tier.RateType, tier.Rate)
		}

		// Bracket mode picks a single tier per amount, so ranges must not
		// overlap. Cumulative mode slices the amount and tolerates touching
		// or overlapping ranges by construction.
		if !cfg.CumulativeCalculation && i > 0 {
			prev := &tiers[i-1]
			if prev.MaxAmount == nil {
				v.add(prefix+".min_amount", "overlap", "only the last tier may be open-ended in bracket mode")
			} else if tier.MinAmount < *prev.MaxAmount {
				v.add(prefix+".min_amount", "overlap", "tiers must not overlap in bracket mode")
			}
		}
	}
}

func (v *validator) checkTimeBasedRate(prefix string, rate *TimeBasedRate) {
	if rate.RateType != RatePercentage && rate.RateType != RateFixed {
		v.add(prefix+".rate_type", "invalid_rate_type", "time-based rate type must be percentage or fixed")
	} else {
		v.checkRate(prefix+".rate", rate.RateType, rate.Rate)
	}

	if rate.StartDate != nil && rate.EndDate != nil && !rate.EndDate.After(*rate.StartDate) {
		v.add(prefix+".end_date", "invalid_bounds", "end_date must be after start_date")
	}
	if rate.StartHour != nil && (*rate.StartHour < 0 || *rate.StartHour > 23) {
		v.add(prefix+".start_hour", "out_of_range", "start_hour must be between 0 and 23")
	}
	if rate.EndHour != nil && (*rate.EndHour < 1 || *rate.EndHour > 24) {
		v.add(prefix+".end_hour", "out_of_range", "end_hour must be between 1 and 24")
	}
	if rate.StartHour != nil && rate.EndHour != nil && *rate.EndHour <= *rate.StartHour {
		v.add(prefix+".end_hour", "invalid_bounds", "end_hour must be after start_hour")
	}
	for i, day := range rate.DaysOfWeek {
		if day < 0 || day > 6 {
			v.add(fmt.Sprintf("%s.days_of_week[%d]", prefix, i), "out_of_range", "day of week must be 0 (Sunday) through 6 (Saturday)")
		}
	}
}
