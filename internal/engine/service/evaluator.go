package service

import (
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
)

// Evaluate checks a single condition against a transaction. Malformed or
// type-mismatched conditions evaluate to false rather than failing: a bad
// rule degrades to "does not match" instead of aborting a batch.
func (e *Engine) Evaluate(cond ruledomain.ConditionRule, tx transactiondomain.Transaction) bool {
	switch cond.Field {
	case ruledomain.FieldAmount:
		return evaluateNumeric(cond, tx.Amount)
	case ruledomain.FieldQuantity:
		return evaluateNumeric(cond, float64(tx.Quantity))
	case ruledomain.FieldDate:
		return evaluateDate(cond, tx)
	case ruledomain.FieldCategory:
		return evaluateString(cond, tx.Category)
	case ruledomain.FieldType:
		return evaluateString(cond, string(tx.Type))
	default:
		return false
	}
}

// EvaluateGroup combines the group's conditions with its AND/OR logic. An
// empty condition list is vacuously satisfied and the rule's base rate
// applies.
func (e *Engine) EvaluateGroup(group ruledomain.AdvancedConditions, tx transactiondomain.Transaction) bool {
	if len(group.Conditions) == 0 {
		return true
	}

	if group.Logic == ruledomain.LogicOr {
		for _, cond := range group.Conditions {
			if e.Evaluate(cond, tx) {
				return true
			}
		}
		return false
	}

	for _, cond := range group.Conditions {
		if !e.Evaluate(cond, tx) {
			return false
		}
	}
	return true
}

func evaluateNumeric(cond ruledomain.ConditionRule, field float64) bool {
	if cond.Operator == ruledomain.OpIn {
		for _, candidate := range cond.Value.Numbers {
			if field == candidate {
				return true
			}
		}
		return false
	}

	value := cond.Value.Number
	if value == nil {
		return false
	}

	switch cond.Operator {
	case ruledomain.OpGt:
		return field > *value
	case ruledomain.OpGte:
		return field >= *value
	case ruledomain.OpLt:
		return field < *value
	case ruledomain.OpLte:
		return field <= *value
	case ruledomain.OpEq:
		return field == *value
	case ruledomain.OpNeq:
		return field != *value
	case ruledomain.OpBetween:
		if cond.SecondValue == nil || cond.SecondValue.Number == nil {
			return false
		}
		return field >= *value && field <= *cond.SecondValue.Number
	default:
		return false
	}
}

func evaluateDate(cond ruledomain.ConditionRule, tx transactiondomain.Transaction) bool {
	value := cond.Value.Date
	if value == nil {
		return false
	}
	field := tx.Date

	switch cond.Operator {
	case ruledomain.OpGt:
		return field.After(*value)
	case ruledomain.OpGte:
		return !field.Before(*value)
	case ruledomain.OpLt:
		return field.Before(*value)
	case ruledomain.OpLte:
		return !field.After(*value)
	case ruledomain.OpEq:
		return field.Equal(*value)
	case ruledomain.OpNeq:
		return !field.Equal(*value)
	case ruledomain.OpBetween:
		if cond.SecondValue == nil || cond.SecondValue.Date == nil {
			return false
		}
		return !field.Before(*value) && !field.After(*cond.SecondValue.Date)
	default:
		return false
	}
}

func evaluateString(cond ruledomain.ConditionRule, field string) bool {
	switch cond.Operator {
	case ruledomain.OpEq:
		return cond.Value.String != nil && field == *cond.Value.String
	case ruledomain.OpNeq:
		return cond.Value.String != nil && field != *cond.Value.String
	case ruledomain.OpIn:
		for _, candidate := range cond.Value.Strings {
			if field == candidate {
				return true
			}
		}
		return false
	default:
		// Ordering operators have no meaning for category/type fields.
		return false
	}
}
