package domain

import (
	"context"
	"errors"
	"time"

	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
)

type Service interface {
	Create(ctx context.Context, req SaveRequest) (*CommissionRule, error)
	Update(ctx context.Context, id string, req SaveRequest) (*CommissionRule, error)
	Get(ctx context.Context, id string) (*CommissionRule, error)
	List(ctx context.Context, filter ListFilter) ([]CommissionRule, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) (*CommissionRule, error)

	// ActiveRules returns the snapshot the calculator runs against.
	// Inactive rules never reach the engine.
	ActiveRules(ctx context.Context, txType transactiondomain.TransactionType, category string) ([]CommissionRule, error)

	Export(ctx context.Context) (*ExportPayload, error)
	Import(ctx context.Context, payload ExportPayload) (int, error)
}

// SaveRequest is the validated form payload for creating or updating a rule.
type SaveRequest struct {
	Name               string                            `json:"name"`
	Type               transactiondomain.TransactionType `json:"type"`
	RateType           RateType                          `json:"rate_type"`
	Rate               float64                           `json:"rate"`
	MinAmount          *float64                          `json:"min_amount"`
	MaxAmount          *float64                          `json:"max_amount"`
	Conditions         string                            `json:"conditions"`
	IsActive           *bool                             `json:"is_active"`
	Category           string                            `json:"category"`
	AdvancedConditions *AdvancedConditions               `json:"advanced_conditions"`
	TieredConfig       *TieredCommissionConfig           `json:"tiered_config"`
	TimeBasedRates     []TimeBasedRate                   `json:"time_based_rates"`
	Metadata           map[string]any                    `json:"metadata"`
}

type ListFilter struct {
	Type     transactiondomain.TransactionType `form:"type"`
	Category string                            `form:"category"`
	Active   *bool                             `form:"active"`
}

// ExportPayload is the rule import/export JSON envelope.
type ExportPayload struct {
	Version    string           `json:"version"`
	ExportDate time.Time        `json:"export_date"`
	Rules      []CommissionRule `json:"rules"`
	Metadata   ExportMetadata   `json:"metadata"`
}

type ExportMetadata struct {
	TotalRules    int `json:"total_rules"`
	ActiveRules   int `json:"active_rules"`
	InactiveRules int `json:"inactive_rules"`
}

// ExportVersion is written into every export envelope.
const ExportVersion = "1.0"

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors rejects a rule as a whole; nothing is partially stored.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (v *ValidationErrors) Error() string { return "validation error" }

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
	ErrInvalidImport = errors.New("invalid_import_payload")
)
