package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	commissiondomain "github.com/medirahq/commission/internal/commission/domain"
	engineservice "github.com/medirahq/commission/internal/engine/service"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	rulerepository "github.com/medirahq/commission/internal/rule/repository"
	ruleservice "github.com/medirahq/commission/internal/rule/service"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	transactionrepository "github.com/medirahq/commission/internal/transaction/repository"
	transactionservice "github.com/medirahq/commission/internal/transaction/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbSeq int

type fixture struct {
	commission commissiondomain.Service
	rules      ruledomain.Service
	txs        transactiondomain.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:commission_svc_%d?mode=memory&cache=shared", dbSeq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&ruledomain.CommissionRule{},
		&transactiondomain.Transaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	txRepo := transactionrepository.New()

	ruleSvc := ruleservice.New(ruleservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  rulerepository.New(),
	})
	txSvc := transactionservice.New(transactionservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  txRepo,
	})

	commissionSvc := New(Params{
		DB:              conn,
		Log:             log,
		GenID:           node,
		Engine:          engineservice.New(),
		RuleSvc:         ruleSvc,
		TransactionRepo: txRepo,
	})

	return fixture{commission: commissionSvc, rules: ruleSvc, txs: txSvc}
}

func (f fixture) seedRule(t *testing.T, req ruledomain.SaveRequest) *ruledomain.CommissionRule {
	t.Helper()
	rule, err := f.rules.Create(context.Background(), req)
	require.NoError(t, err)
	return rule
}

func (f fixture) seedTx(t *testing.T, amount float64, txType transactiondomain.TransactionType, category string) *transactiondomain.Transaction {
	t.Helper()
	tx, err := f.txs.Create(context.Background(), transactiondomain.CreateRequest{
		Amount:   amount,
		Quantity: 1,
		Category: category,
		Type:     txType,
		Date:     time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return tx
}

func TestRun_FilterSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedRule(t, ruledomain.SaveRequest{
		Name:     "doctor base",
		Type:     transactiondomain.TypeDoctor,
		RateType: ruledomain.RatePercentage,
		Rate:     10,
		Category: ruledomain.CategoryAll,
	})

	f.seedTx(t, 10000, transactiondomain.TypeDoctor, "consultation")
	f.seedTx(t, 20000, transactiondomain.TypeDoctor, "surgery")
	f.seedTx(t, 50000, transactiondomain.TypeAgent, "referral")

	resp, err := f.commission.Run(ctx, commissiondomain.RunRequest{Type: transactiondomain.TypeDoctor})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.TotalTransactions)
	assert.Equal(t, 3000.0, resp.Summary.TotalCommission)
	assert.Equal(t, 1500.0, resp.Summary.AverageCommission)
}

func TestRun_ExplicitIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rule := f.seedRule(t, ruledomain.SaveRequest{
		Name:     "doctor base",
		Type:     transactiondomain.TypeDoctor,
		RateType: ruledomain.RatePercentage,
		Rate:     10,
		Category: ruledomain.CategoryAll,
	})

	first := f.seedTx(t, 10000, transactiondomain.TypeDoctor, "consultation")
	f.seedTx(t, 20000, transactiondomain.TypeDoctor, "consultation")

	resp, err := f.commission.Run(ctx, commissiondomain.RunRequest{
		TransactionIDs: []string{first.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.TotalTransactions)
	assert.Equal(t, 1000.0, resp.Summary.TotalCommission)
	assert.Equal(t, 1000.0, resp.Summary.ByRule[rule.ID.String()])
}

func TestRun_InvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.commission.Run(ctx, commissiondomain.RunRequest{Type: "nurse"})
	assert.ErrorIs(t, err, commissiondomain.ErrInvalidType)

	_, err = f.commission.Run(ctx, commissiondomain.RunRequest{TransactionIDs: []string{"bogus"}})
	assert.ErrorIs(t, err, commissiondomain.ErrInvalidTransactionID)
}

func TestRun_EmptySelection(t *testing.T) {
	f := newFixture(t)

	resp, err := f.commission.Run(context.Background(), commissiondomain.RunRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Summary.TotalTransactions)
	assert.Equal(t, 0.0, resp.Summary.TotalCommission)
	assert.Empty(t, resp.Results)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.commission.Preview(ctx, commissiondomain.PreviewRequest{
		Rules: []ruledomain.SaveRequest{
			{
				Name:     "draft rule",
				Type:     transactiondomain.TypeDoctor,
				RateType: ruledomain.RatePercentage,
				Rate:     20,
				Category: ruledomain.CategoryAll,
			},
		},
		Transactions: []transactiondomain.CreateRequest{
			{
				Amount:   15000,
				Quantity: 1,
				Category: "consultation",
				Type:     transactiondomain.TypeDoctor,
				Date:     time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC),
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, resp.Summary.TotalCommission)

	// Nothing was stored.
	rules, err := f.rules.List(ctx, ruledomain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, rules)

	txs, err := f.txs.List(ctx, transactiondomain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestPreview_RejectsInvalidRule(t *testing.T) {
	f := newFixture(t)

	_, err := f.commission.Preview(context.Background(), commissiondomain.PreviewRequest{
		Rules: []ruledomain.SaveRequest{
			{
				Name:     "bad rate",
				Type:     transactiondomain.TypeDoctor,
				RateType: ruledomain.RatePercentage,
				Rate:     150,
				Category: ruledomain.CategoryAll,
			},
		},
	})
	require.Error(t, err)

	var vErr *ruledomain.ValidationErrors
	assert.ErrorAs(t, err, &vErr)
}
