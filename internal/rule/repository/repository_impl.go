package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

func New() ruledomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, tx *gorm.DB, rule *ruledomain.CommissionRule) error {
	return tx.WithContext(ctx).Create(rule).Error
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, rule *ruledomain.CommissionRule) error {
	return tx.WithContext(ctx).Save(rule).Error
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*ruledomain.CommissionRule, error) {
	var rule ruledomain.CommissionRule
	err := tx.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) List(ctx context.Context, tx *gorm.DB, filter ruledomain.ListFilter) ([]ruledomain.CommissionRule, error) {
	stmt := tx.WithContext(ctx).Model(&ruledomain.CommissionRule{})

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.Active != nil {
		stmt = stmt.Where("is_active = ?", *filter.Active)
	}

	var rules []ruledomain.CommissionRule
	err := stmt.Order("id ASC").Find(&rules).Error
	return rules, err
}

func (r *repository) ListActive(ctx context.Context, tx *gorm.DB, txType transactiondomain.TransactionType, category string) ([]ruledomain.CommissionRule, error) {
	stmt := tx.WithContext(ctx).
		Model(&ruledomain.CommissionRule{}).
		Where("is_active = ?", true)

	if txType != "" {
		stmt = stmt.Where("type = ?", txType)
	}
	if category != "" {
		stmt = stmt.Where("category = ? OR category = ?", category, ruledomain.CategoryAll)
	}

	var rules []ruledomain.CommissionRule
	err := stmt.Order("id ASC").Find(&rules).Error
	return rules, err
}

func (r *repository) Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error {
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&ruledomain.CommissionRule{}).Error
}

func (r *repository) Upsert(ctx context.Context, tx *gorm.DB, rules []ruledomain.CommissionRule) error {
	if len(rules) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rules).Error
}
