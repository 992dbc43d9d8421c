package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	"github.com/medirahq/commission/internal/rule/repository"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbSeq int

func newTestService(t *testing.T) ruledomain.Service {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:rule_svc_%d?mode=memory&cache=shared", dbSeq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(&ruledomain.CommissionRule{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.New(),
	})
}

func saveRequest() ruledomain.SaveRequest {
	return ruledomain.SaveRequest{
		Name:     "doctor consultation",
		Type:     transactiondomain.TypeDoctor,
		RateType: ruledomain.RatePercentage,
		Rate:     10,
		Category: "consultation",
	}
}

func TestService_CreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, saveRequest())
	require.NoError(t, err)
	assert.True(t, rule.IsActive)
	assert.NotZero(t, rule.ID)

	got, err := svc.Get(ctx, rule.ID.String())
	require.NoError(t, err)
	assert.Equal(t, rule.Name, got.Name)
	assert.Equal(t, rule.Rate, got.Rate)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	svc := newTestService(t)

	req := saveRequest()
	req.Rate = 150

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	var vErr *ruledomain.ValidationErrors
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Errors)
}

func TestService_GetErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-snowflake")
	assert.ErrorIs(t, err, ruledomain.ErrInvalidID)

	_, err = svc.Get(ctx, "123456789")
	assert.ErrorIs(t, err, ruledomain.ErrNotFound)
}

func TestService_UpdateAndSetActive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, saveRequest())
	require.NoError(t, err)

	req := saveRequest()
	req.Rate = 12
	updated, err := svc.Update(ctx, rule.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.Rate)

	deactivated, err := svc.SetActive(ctx, rule.ID.String(), false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	// Deactivated rules do not reach the calculation snapshot.
	active, err := svc.ActiveRules(ctx, transactiondomain.TypeDoctor, "consultation")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestService_ActiveRulesCategoryAll(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	specific := saveRequest()
	_, err := svc.Create(ctx, specific)
	require.NoError(t, err)

	catchAll := saveRequest()
	catchAll.Name = "any category"
	catchAll.Category = ruledomain.CategoryAll
	_, err = svc.Create(ctx, catchAll)
	require.NoError(t, err)

	other := saveRequest()
	other.Name = "surgery only"
	other.Category = "surgery"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	active, err := svc.ActiveRules(ctx, transactiondomain.TypeDoctor, "consultation")
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestService_ExportImportRoundTrip(t *testing.T) {
	src := newTestService(t)
	dst := newTestService(t)
	ctx := context.Background()

	_, err := src.Create(ctx, saveRequest())
	require.NoError(t, err)

	tiered := saveRequest()
	tiered.Name = "tiered surgery"
	tiered.Category = "surgery"
	tiered.RateType = ruledomain.RateTiered
	tiered.TieredConfig = &ruledomain.TieredCommissionConfig{
		Tiers: []ruledomain.TieredRate{
			{ID: "t1", MinAmount: 0, MaxAmount: ptr(10000.0), Rate: 5, RateType: ruledomain.RatePercentage},
			{ID: "t2", MinAmount: 10000, Rate: 8, RateType: ruledomain.RatePercentage},
		},
		CumulativeCalculation: true,
	}
	_, err = src.Create(ctx, tiered)
	require.NoError(t, err)

	inactive := saveRequest()
	inactive.Name = "retired rule"
	inactive.IsActive = ptr(false)
	_, err = src.Create(ctx, inactive)
	require.NoError(t, err)

	payload, err := src.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, ruledomain.ExportVersion, payload.Version)
	assert.Equal(t, 3, payload.Metadata.TotalRules)
	assert.Equal(t, 2, payload.Metadata.ActiveRules)
	assert.Equal(t, 1, payload.Metadata.InactiveRules)

	count, err := dst.Import(ctx, *payload)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	imported, err := dst.List(ctx, ruledomain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, imported, 3)

	// Re-import upserts instead of duplicating.
	count, err = dst.Import(ctx, *payload)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	imported, err = dst.List(ctx, ruledomain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, imported, 3)
}

func TestService_ImportRejectsBadPayload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, ruledomain.ExportPayload{})
	require.Error(t, err)

	var vErr *ruledomain.ValidationErrors
	assert.ErrorAs(t, err, &vErr)

	// One invalid rule rejects the whole import.
	payload := ruledomain.ExportPayload{
		Version: ruledomain.ExportVersion,
		Rules: []ruledomain.CommissionRule{
			{
				ID:       1,
				Name:     "bad rate",
				Type:     transactiondomain.TypeDoctor,
				RateType: ruledomain.RatePercentage,
				Rate:     150,
				Category: "consultation",
			},
		},
	}
	_, err = svc.Import(ctx, payload)
	require.Error(t, err)

	rules, err := svc.List(ctx, ruledomain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func ptr[T any](v T) *T { return &v }
