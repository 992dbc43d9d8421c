package domain

import (
	"context"
	"errors"
	"time"

	enginedomain "github.com/medirahq/commission/internal/engine/domain"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
)

type Service interface {
	// Run calculates commissions for stored transactions against the
	// active-rule snapshot.
	Run(ctx context.Context, req RunRequest) (*RunResponse, error)

	// Preview calculates over caller-supplied transactions and rules
	// without persisting anything, so a rule can be dry-run before saving.
	Preview(ctx context.Context, req PreviewRequest) (*RunResponse, error)
}

// RunRequest selects the transactions to calculate: explicit IDs, or a
// filter over the stored records. An empty selection is a valid empty run.
type RunRequest struct {
	TransactionIDs []string                          `json:"transaction_ids"`
	Type           transactiondomain.TransactionType `json:"type"`
	Category       string                            `json:"category"`
	From           *time.Time                        `json:"from"`
	To             *time.Time                        `json:"to"`
}

type PreviewRequest struct {
	Transactions []transactiondomain.CreateRequest `json:"transactions"`
	Rules        []ruledomain.SaveRequest          `json:"rules"`
}

type RunResponse struct {
	Results []enginedomain.CommissionResult `json:"results"`
	Summary enginedomain.BatchSummary       `json:"summary"`
}

var (
	ErrInvalidTransactionID = errors.New("invalid_transaction_id")
	ErrInvalidType          = errors.New("invalid_type")
)
