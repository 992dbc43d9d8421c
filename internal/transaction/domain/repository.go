package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, record *Transaction) error
	FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Transaction, error)
	FindByIDs(ctx context.Context, tx *gorm.DB, ids []snowflake.ID) ([]Transaction, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]Transaction, error)
	Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error
}
