package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, error)
	Get(ctx context.Context, id string) (*Transaction, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Amount      float64         `json:"amount"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	PatientID   *string         `json:"patient_id"`
	ServiceID   *string         `json:"service_id"`
	Metadata    map[string]any  `json:"metadata"`
}

type ListFilter struct {
	Type     TransactionType `form:"type"`
	Category string          `form:"category"`
	From     *time.Time      `form:"from" time_format:"2006-01-02"`
	To       *time.Time      `form:"to" time_format:"2006-01-02"`
}

var (
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidType     = errors.New("invalid_type")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
