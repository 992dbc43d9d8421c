package service

import (
	"testing"
	"time"

	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func sampleTx(amount float64) transactiondomain.Transaction {
	return transactiondomain.Transaction{
		Amount:   amount,
		Quantity: 1,
		Category: "consultation",
		Type:     transactiondomain.TypeDoctor,
		Date:     time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC), // Monday
	}
}

func TestEvaluate_NumericOperators(t *testing.T) {
	e := &Engine{}
	tx := sampleTx(15000)

	cases := []struct {
		name string
		cond ruledomain.ConditionRule
		want bool
	}{
		{"gt match", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpGt, Value: ruledomain.ConditionValue{Number: f64(10000)}}, true},
		{"gt equal is false", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpGt, Value: ruledomain.ConditionValue{Number: f64(15000)}}, false},
		{"gte equal", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpGte, Value: ruledomain.ConditionValue{Number: f64(15000)}}, true},
		{"lt", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpLt, Value: ruledomain.ConditionValue{Number: f64(20000)}}, true},
		{"lte", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpLte, Value: ruledomain.ConditionValue{Number: f64(15000)}}, true},
		{"eq", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpEq, Value: ruledomain.ConditionValue{Number: f64(15000)}}, true},
		{"neq", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpNeq, Value: ruledomain.ConditionValue{Number: f64(15000)}}, false},
		{"in list", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpIn, Value: ruledomain.ConditionValue{Numbers: []float64{10000, 15000}}}, true},
		{"in miss", ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpIn, Value: ruledomain.ConditionValue{Numbers: []float64{1, 2}}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.Evaluate(tc.cond, tx))
		})
	}
}

func TestEvaluate_BetweenIsInclusive(t *testing.T) {
	e := &Engine{}
	cond := ruledomain.ConditionRule{
		Field:       ruledomain.FieldAmount,
		Operator:    ruledomain.OpBetween,
		Value:       ruledomain.ConditionValue{Number: f64(10000)},
		SecondValue: &ruledomain.ConditionValue{Number: f64(50000)},
	}

	assert.True(t, e.Evaluate(cond, sampleTx(10000)))
	assert.True(t, e.Evaluate(cond, sampleTx(50000)))
	assert.True(t, e.Evaluate(cond, sampleTx(30000)))
	assert.False(t, e.Evaluate(cond, sampleTx(9999.99)))
	assert.False(t, e.Evaluate(cond, sampleTx(50000.01)))
}

func TestEvaluate_MalformedConditionIsFalse(t *testing.T) {
	e := &Engine{}
	tx := sampleTx(15000)

	// Numeric field with no number arm set.
	assert.False(t, e.Evaluate(ruledomain.ConditionRule{
		Field:    ruledomain.FieldAmount,
		Operator: ruledomain.OpGt,
		Value:    ruledomain.ConditionValue{String: str("10000")},
	}, tx))

	// between missing the second bound.
	assert.False(t, e.Evaluate(ruledomain.ConditionRule{
		Field:    ruledomain.FieldAmount,
		Operator: ruledomain.OpBetween,
		Value:    ruledomain.ConditionValue{Number: f64(10000)},
	}, tx))

	// Ordering operator over a string field.
	assert.False(t, e.Evaluate(ruledomain.ConditionRule{
		Field:    ruledomain.FieldCategory,
		Operator: ruledomain.OpGt,
		Value:    ruledomain.ConditionValue{String: str("consultation")},
	}, tx))

	// Unknown field.
	assert.False(t, e.Evaluate(ruledomain.ConditionRule{
		Field:    ruledomain.ConditionField("department"),
		Operator: ruledomain.OpEq,
		Value:    ruledomain.ConditionValue{String: str("x")},
	}, tx))
}

func TestEvaluate_StringAndDateFields(t *testing.T) {
	e := &Engine{}
	tx := sampleTx(15000)

	assert.True(t, e.Evaluate(ruledomain.ConditionRule{
		Field:    ruledomain.FieldCategory,
		Operator: ruledomain.OpEq,
		Value:    ruledomain.ConditionValue{String: str("consultation")},
	}, tx))
	assert.True(t, e.Evaluate(ruledomain.ConditionRule{
		Field:    ruledomain.FieldType,
		Operator: ruledomain.OpIn,
		Value:    ruledomain.ConditionValue{Strings: []string{"doctor", "agent"}},
	}, tx))
	assert.False(t, e.Evaluate(ruledomain.ConditionRule{
		Field:    ruledomain.FieldCategory,
		Operator: ruledomain.OpNeq,
		Value:    ruledomain.ConditionValue{String: str("consultation")},
	}, tx))

	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, e.Evaluate(ruledomain.ConditionRule{
		Field:    ruledomain.FieldDate,
		Operator: ruledomain.OpGte,
		Value:    ruledomain.ConditionValue{Date: &cutoff},
	}, tx))

	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	assert.True(t, e.Evaluate(ruledomain.ConditionRule{
		Field:       ruledomain.FieldDate,
		Operator:    ruledomain.OpBetween,
		Value:       ruledomain.ConditionValue{Date: &cutoff},
		SecondValue: &ruledomain.ConditionValue{Date: &end},
	}, tx))
}

func TestEvaluateGroup_Logic(t *testing.T) {
	e := &Engine{}
	tx := sampleTx(15000)

	matches := ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpGt, Value: ruledomain.ConditionValue{Number: f64(10000)}}
	misses := ruledomain.ConditionRule{Field: ruledomain.FieldAmount, Operator: ruledomain.OpGt, Value: ruledomain.ConditionValue{Number: f64(20000)}}

	assert.True(t, e.EvaluateGroup(ruledomain.AdvancedConditions{Logic: ruledomain.LogicAnd, Conditions: []ruledomain.ConditionRule{matches, matches}}, tx))
	assert.False(t, e.EvaluateGroup(ruledomain.AdvancedConditions{Logic: ruledomain.LogicAnd, Conditions: []ruledomain.ConditionRule{matches, misses}}, tx))
	assert.True(t, e.EvaluateGroup(ruledomain.AdvancedConditions{Logic: ruledomain.LogicOr, Conditions: []ruledomain.ConditionRule{misses, matches}}, tx))
	assert.False(t, e.EvaluateGroup(ruledomain.AdvancedConditions{Logic: ruledomain.LogicOr, Conditions: []ruledomain.ConditionRule{misses, misses}}, tx))

	// An empty group is vacuously satisfied.
	assert.True(t, e.EvaluateGroup(ruledomain.AdvancedConditions{Logic: ruledomain.LogicAnd}, tx))
}
