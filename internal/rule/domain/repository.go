package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, rule *CommissionRule) error
	Save(ctx context.Context, tx *gorm.DB, rule *CommissionRule) error
	FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*CommissionRule, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]CommissionRule, error)
	ListActive(ctx context.Context, tx *gorm.DB, txType transactiondomain.TransactionType, category string) ([]CommissionRule, error)
	Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error
	Upsert(ctx context.Context, tx *gorm.DB, rules []CommissionRule) error
}
