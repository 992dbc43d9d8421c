// Package domain contains the transaction records the commission engine consumes.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// TransactionType identifies who earns commission on a transaction.
type TransactionType string

const (
	TypeDoctor     TransactionType = "doctor"
	TypeAgent      TransactionType = "agent"
	TypeDepartment TransactionType = "department"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDoctor, TypeAgent, TypeDepartment:
		return true
	default:
		return false
	}
}

// Transaction is an immutable revenue record produced by data entry.
// Calculation never mutates it.
type Transaction struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	Amount      float64           `json:"amount" gorm:"type:numeric;not null"`
	Quantity    int               `json:"quantity" gorm:"not null;default:1"`
	Category    string            `json:"category" gorm:"type:text;not null;index"`
	Type        TransactionType   `json:"type" gorm:"type:text;not null;index"`
	Date        time.Time         `json:"date" gorm:"not null;index"`
	Description string            `json:"description,omitempty" gorm:"type:text"`
	PatientID   *string           `json:"patient_id,omitempty" gorm:"type:text"`
	ServiceID   *string           `json:"service_id,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
