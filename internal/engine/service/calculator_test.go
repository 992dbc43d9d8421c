package service

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	enginedomain "github.com/medirahq/commission/internal/engine/domain"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculate_PercentageAndFixed(t *testing.T) {
	e := &Engine{}
	node, _ := snowflake.NewNode(1)

	tx := sampleTx(15000)
	tx.ID = node.Generate()
	tx.Quantity = 3

	percentage := baseRule()
	percentage.ID = node.Generate()

	fixed := baseRule()
	fixed.ID = node.Generate()
	fixed.Name = "per-procedure fee"
	fixed.RateType = ruledomain.RateFixed
	fixed.Rate = 250

	result := e.Calculate(tx, []ruledomain.CommissionRule{percentage, fixed})
	assert.Equal(t, 2, result.ApplicableRules)
	assert.Len(t, result.Calculations, 2)

	// 15000 * 10% and 250 * 3 units.
	assert.Equal(t, 1500.0, result.Calculations[0].Commission)
	assert.Equal(t, 750.0, result.Calculations[1].Commission)
	assert.Equal(t, 2250.0, result.TotalCommission)
}

func TestCalculate_SkipsInactiveAndNonApplicable(t *testing.T) {
	e := &Engine{}
	tx := sampleTx(15000)

	inactive := baseRule()
	inactive.IsActive = false

	wrongType := baseRule()
	wrongType.Type = transactiondomain.TypeAgent

	result := e.Calculate(tx, []ruledomain.CommissionRule{inactive, wrongType})
	assert.Equal(t, 0, result.ApplicableRules)
	assert.Empty(t, result.Calculations)
	assert.Equal(t, 0.0, result.TotalCommission)
}

func TestCalculate_HighValueOverride(t *testing.T) {
	e := &Engine{}
	tx := sampleTx(75000)

	rule := baseRule()
	rule.AdvancedConditions = &ruledomain.AdvancedConditions{
		Logic: ruledomain.LogicAnd,
		Conditions: []ruledomain.ConditionRule{
			{
				ID:           "c1",
				Field:        ruledomain.FieldAmount,
				Operator:     ruledomain.OpGt,
				Value:        ruledomain.ConditionValue{Number: f64(50000)},
				RateOverride: &ruledomain.RateOverride{RateType: ruledomain.RatePercentage, Rate: 25},
			},
		},
	}

	result := e.Calculate(tx, []ruledomain.CommissionRule{rule})
	assert.Equal(t, 18750.0, result.TotalCommission)
}

func TestCalculateBatch_PreservesOrder(t *testing.T) {
	e := &Engine{}

	txs := []transactiondomain.Transaction{sampleTx(10000), sampleTx(20000), sampleTx(30000)}
	results := e.CalculateBatch(txs, []ruledomain.CommissionRule{baseRule()})

	assert.Len(t, results, 3)
	assert.Equal(t, 1000.0, results[0].TotalCommission)
	assert.Equal(t, 2000.0, results[1].TotalCommission)
	assert.Equal(t, 3000.0, results[2].TotalCommission)
}

func TestAggregate(t *testing.T) {
	e := &Engine{}

	results := []enginedomain.CommissionResult{
		{
			TotalCommission: 1000,
			Calculations: []enginedomain.CommissionCalculation{
				{RuleID: "1", Commission: 1000},
			},
		},
		{
			TotalCommission: 500,
			Calculations: []enginedomain.CommissionCalculation{
				{RuleID: "1", Commission: 300},
				{RuleID: "2", Commission: 200},
			},
		},
		{TotalCommission: 0},
	}

	summary := e.Aggregate(results)
	assert.Equal(t, 1500.0, summary.TotalCommission)
	assert.Equal(t, 3, summary.TotalTransactions)
	assert.Equal(t, 500.0, summary.AverageCommission)
	assert.Equal(t, 1300.0, summary.ByRule["1"])
	assert.Equal(t, 200.0, summary.ByRule["2"])
}

func TestAggregate_Empty(t *testing.T) {
	e := &Engine{}
	summary := e.Aggregate(nil)

	assert.Equal(t, 0.0, summary.TotalCommission)
	assert.Equal(t, 0, summary.TotalTransactions)
	assert.Equal(t, 0.0, summary.AverageCommission)
	assert.Empty(t, summary.ByRule)
}
