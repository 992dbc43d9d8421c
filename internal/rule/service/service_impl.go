package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/medirahq/commission/internal/observability/metrics"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    ruledomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    ruledomain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) ruledomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("rule.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req ruledomain.SaveRequest) (*ruledomain.CommissionRule, error) {
	now := time.Now().UTC()
	rule := &ruledomain.CommissionRule{
		ID:        s.genID.Generate(),
		IsActive:  true,
		CreatedAt: now,
	}
	applyRequest(rule, req, now)

	if vErr := ruledomain.Validate(rule); vErr != nil {
		return nil, vErr
	}

	if err := s.repo.Insert(ctx, s.db, rule); err != nil {
		return nil, err
	}

	s.log.Info("rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("type", string(rule.Type)),
		zap.String("rate_type", string(rule.RateType)),
	)
	return rule, nil
}

func (s *Service) Update(ctx context.Context, id string, req ruledomain.SaveRequest) (*ruledomain.CommissionRule, error) {
	rule, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	applyRequest(rule, req, time.Now().UTC())

	if vErr := ruledomain.Validate(rule); vErr != nil {
		return nil, vErr
	}

	if err := s.repo.Save(ctx, s.db, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ruledomain.CommissionRule, error) {
	return s.find(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ruledomain.ListFilter) ([]ruledomain.CommissionRule, error) {
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rule, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, rule.ID)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (*ruledomain.CommissionRule, error) {
	rule, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if rule.IsActive == active {
		return rule, nil
	}

	rule.IsActive = active
	rule.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) ActiveRules(ctx context.Context, txType transactiondomain.TransactionType, category string) ([]ruledomain.CommissionRule, error) {
	return s.repo.ListActive(ctx, s.db, txType, strings.TrimSpace(category))
}

func (s *Service) Export(ctx context.Context) (*ruledomain.ExportPayload, error) {
	rules, err := s.repo.List(ctx, s.db, ruledomain.ListFilter{})
	if err != nil {
		return nil, err
	}

	active := 0
	for i := range rules {
		if rules[i].IsActive {
			active++
		}
	}

	payload := &ruledomain.ExportPayload{
		Version:    ruledomain.ExportVersion,
		ExportDate: time.Now().UTC(),
		Rules:      rules,
		Metadata: ruledomain.ExportMetadata{
			TotalRules:    len(rules),
			ActiveRules:   active,
			InactiveRules: len(rules) - active,
		},
	}
	if payload.Rules == nil {
		payload.Rules = []ruledomain.CommissionRule{}
	}

	s.metrics.RecordRuleExport(ctx, len(rules))
	return payload, nil
}

// Import replaces or inserts every rule in the payload inside one
// transaction; a single invalid rule rejects the whole import.
func (s *Service) Import(ctx context.Context, payload ruledomain.ExportPayload) (int, error) {
	if vErr := ruledomain.ValidateImportData(payload); vErr != nil {
		return 0, vErr
	}

	for i := range payload.Rules {
		if vErr := ruledomain.Validate(&payload.Rules[i]); vErr != nil {
			return 0, vErr
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Upsert(ctx, tx, payload.Rules)
	})
	if err != nil {
		return 0, err
	}

	s.metrics.RecordRuleImport(ctx, len(payload.Rules))
	s.log.Info("rules imported", zap.Int("count", len(payload.Rules)))
	return len(payload.Rules), nil
}

func (s *Service) find(ctx context.Context, id string) (*ruledomain.CommissionRule, error) {
	ruleID, err := parseID(id)
	if err != nil {
		return nil, ruledomain.ErrInvalidID
	}

	rule, err := s.repo.FindByID(ctx, s.db, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruledomain.ErrNotFound
	}
	return rule, nil
}

func applyRequest(rule *ruledomain.CommissionRule, req ruledomain.SaveRequest, now time.Time) {
	rule.Name = strings.TrimSpace(req.Name)
	rule.Type = req.Type
	rule.RateType = req.RateType
	rule.Rate = req.Rate
	rule.MinAmount = req.MinAmount
	rule.MaxAmount = req.MaxAmount
	rule.Conditions = strings.TrimSpace(req.Conditions)
	rule.Category = strings.TrimSpace(req.Category)
	rule.AdvancedConditions = req.AdvancedConditions
	rule.TieredConfig = req.TieredConfig
	rule.TimeBasedRates = req.TimeBasedRates
	rule.UpdatedAt = now

	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Metadata != nil {
		rule.Metadata = datatypes.JSONMap(req.Metadata)
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
