package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"gorm.io/gorm"
)

type repository struct{}

func New() transactiondomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, tx *gorm.DB, record *transactiondomain.Transaction) error {
	return tx.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*transactiondomain.Transaction, error) {
	var record transactiondomain.Transaction
	err := tx.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByIDs(ctx context.Context, tx *gorm.DB, ids []snowflake.ID) ([]transactiondomain.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []transactiondomain.Transaction
	err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error
	return records, err
}

func (r *repository) List(ctx context.Context, tx *gorm.DB, filter transactiondomain.ListFilter) ([]transactiondomain.Transaction, error) {
	stmt := tx.WithContext(ctx).Model(&transactiondomain.Transaction{})

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		stmt = stmt.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("date < ?", *filter.To)
	}

	var records []transactiondomain.Transaction
	err := stmt.Order("date ASC, id ASC").Find(&records).Error
	return records, err
}

func (r *repository) Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error {
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&transactiondomain.Transaction{}).Error
}
