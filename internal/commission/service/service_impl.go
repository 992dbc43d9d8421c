package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	commissiondomain "github.com/medirahq/commission/internal/commission/domain"
	enginedomain "github.com/medirahq/commission/internal/engine/domain"
	obsmetrics "github.com/medirahq/commission/internal/observability/metrics"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Engine          enginedomain.Service
	RuleSvc         ruledomain.Service
	TransactionRepo transactiondomain.Repository
	Metrics         *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	engine  enginedomain.Service
	ruleSvc ruledomain.Service
	txRepo  transactiondomain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) commissiondomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("commission.service"),
		genID:   p.GenID,
		engine:  p.Engine,
		ruleSvc: p.RuleSvc,
		txRepo:  p.TransactionRepo,
		metrics: p.Metrics,
	}
}

func (s *Service) Run(ctx context.Context, req commissiondomain.RunRequest) (*commissiondomain.RunResponse, error) {
	if req.Type != "" && !req.Type.Valid() {
		return nil, commissiondomain.ErrInvalidType
	}

	txs, err := s.selectTransactions(ctx, req)
	if err != nil {
		return nil, err
	}

	// Snapshot the active rules once for the whole batch; per-transaction
	// gating narrows further inside the engine.
	rules, err := s.ruleSvc.ActiveRules(ctx, req.Type, req.Category)
	if err != nil {
		return nil, err
	}

	resp := s.compute(ctx, txs, rules)
	s.log.Info("commission run completed",
		zap.Int("transactions", len(txs)),
		zap.Int("rules", len(rules)),
		zap.Float64("total_commission", resp.Summary.TotalCommission),
	)
	return resp, nil
}

func (s *Service) Preview(ctx context.Context, req commissiondomain.PreviewRequest) (*commissiondomain.RunResponse, error) {
	rules := make([]ruledomain.CommissionRule, 0, len(req.Rules))
	now := time.Now().UTC()
	for i := range req.Rules {
		rule := buildRule(s.genID.Generate(), req.Rules[i], now)
		if vErr := ruledomain.Validate(&rule); vErr != nil {
			return nil, vErr
		}
		rules = append(rules, rule)
	}

	txs := make([]transactiondomain.Transaction, 0, len(req.Transactions))
	for i := range req.Transactions {
		tx, err := buildTransaction(s.genID.Generate(), req.Transactions[i])
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return s.compute(ctx, txs, rules), nil
}

func (s *Service) selectTransactions(ctx context.Context, req commissiondomain.RunRequest) ([]transactiondomain.Transaction, error) {
	if len(req.TransactionIDs) > 0 {
		ids := make([]snowflake.ID, 0, len(req.TransactionIDs))
		for _, raw := range req.TransactionIDs {
			id, err := snowflake.ParseString(strings.TrimSpace(raw))
			if err != nil {
				return nil, commissiondomain.ErrInvalidTransactionID
			}
			ids = append(ids, id)
		}
		return s.txRepo.FindByIDs(ctx, s.db, ids)
	}

	return s.txRepo.List(ctx, s.db, transactiondomain.ListFilter{
		Type:     req.Type,
		Category: req.Category,
		From:     req.From,
		To:       req.To,
	})
}

func (s *Service) compute(ctx context.Context, txs []transactiondomain.Transaction, rules []ruledomain.CommissionRule) *commissiondomain.RunResponse {
	results := s.engine.CalculateBatch(txs, rules)
	summary := s.engine.Aggregate(results)

	s.metrics.RecordRun(ctx, len(txs))
	for i := range results {
		txType := string(results[i].Transaction.Type)
		s.metrics.RecordMatches(ctx, txType, results[i].ApplicableRules)
		s.metrics.RecordCommission(ctx, txType, results[i].TotalCommission)
	}

	return &commissiondomain.RunResponse{Results: results, Summary: summary}
}

func buildRule(id snowflake.ID, req ruledomain.SaveRequest, now time.Time) ruledomain.CommissionRule {
	rule := ruledomain.CommissionRule{
		ID:                 id,
		Name:               strings.TrimSpace(req.Name),
		Type:               req.Type,
		RateType:           req.RateType,
		Rate:               req.Rate,
		MinAmount:          req.MinAmount,
		MaxAmount:          req.MaxAmount,
		Conditions:         strings.TrimSpace(req.Conditions),
		IsActive:           true,
		Category:           strings.TrimSpace(req.Category),
		AdvancedConditions: req.AdvancedConditions,
		TieredConfig:       req.TieredConfig,
		TimeBasedRates:     req.TimeBasedRates,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	return rule
}

func buildTransaction(id snowflake.ID, req transactiondomain.CreateRequest) (transactiondomain.Transaction, error) {
	if req.Amount < 0 {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidAmount
	}
	if req.Quantity < 1 {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidQuantity
	}
	if !req.Type.Valid() {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidType
	}

	return transactiondomain.Transaction{
		ID:          id,
		Amount:      req.Amount,
		Quantity:    req.Quantity,
		Category:    strings.TrimSpace(req.Category),
		Type:        req.Type,
		Date:        req.Date.UTC(),
		Description: strings.TrimSpace(req.Description),
		PatientID:   req.PatientID,
		ServiceID:   req.ServiceID,
	}, nil
}
