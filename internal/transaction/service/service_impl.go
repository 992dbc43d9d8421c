package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  transactiondomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  transactiondomain.Repository
}

func New(p Params) transactiondomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("transaction.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req transactiondomain.CreateRequest) (*transactiondomain.Transaction, error) {
	if req.Amount < 0 {
		return nil, transactiondomain.ErrInvalidAmount
	}
	if req.Quantity < 1 {
		return nil, transactiondomain.ErrInvalidQuantity
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, transactiondomain.ErrInvalidCategory
	}
	if !req.Type.Valid() {
		return nil, transactiondomain.ErrInvalidType
	}
	if req.Date.IsZero() {
		return nil, transactiondomain.ErrInvalidDate
	}

	record := &transactiondomain.Transaction{
		ID:          s.genID.Generate(),
		Amount:      req.Amount,
		Quantity:    req.Quantity,
		Category:    category,
		Type:        req.Type,
		Date:        req.Date.UTC(),
		Description: strings.TrimSpace(req.Description),
		PatientID:   req.PatientID,
		ServiceID:   req.ServiceID,
		CreatedAt:   time.Now().UTC(),
	}
	if req.Metadata != nil {
		record.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) List(ctx context.Context, filter transactiondomain.ListFilter) ([]transactiondomain.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, transactiondomain.ErrInvalidType
	}
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*transactiondomain.Transaction, error) {
	recordID, err := parseID(id)
	if err != nil {
		return nil, transactiondomain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, transactiondomain.ErrNotFound
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	recordID, err := parseID(id)
	if err != nil {
		return transactiondomain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, recordID)
	if err != nil {
		return err
	}
	if record == nil {
		return transactiondomain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, recordID)
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
