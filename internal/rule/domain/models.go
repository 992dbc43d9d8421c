// Package domain contains the configurable commission rule model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"gorm.io/datatypes"
)

// RateType identifies how a rate turns into a commission amount.
type RateType string

const (
	RatePercentage RateType = "percentage"
	RateFixed      RateType = "fixed"
	RateTiered     RateType = "tiered"
)

// Valid reports whether the rate type is known.
func (r RateType) Valid() bool {
	switch r {
	case RatePercentage, RateFixed, RateTiered:
		return true
	default:
		return false
	}
}

// ConditionLogic combines condition results within a group.
type ConditionLogic string

const (
	LogicAnd ConditionLogic = "AND"
	LogicOr  ConditionLogic = "OR"
)

// ConditionField names the transaction attribute a condition inspects.
type ConditionField string

const (
	FieldAmount   ConditionField = "amount"
	FieldQuantity ConditionField = "quantity"
	FieldCategory ConditionField = "category"
	FieldType     ConditionField = "type"
	FieldDate     ConditionField = "date"
)

// Numeric reports whether the field compares as a number.
// Dates compare as timestamps and count as numeric.
func (f ConditionField) Numeric() bool {
	switch f {
	case FieldAmount, FieldQuantity, FieldDate:
		return true
	default:
		return false
	}
}

// Operator is the comparison applied between a field and a condition value.
type Operator string

const (
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpBetween Operator = "between"
	OpIn      Operator = "in"
)

// ConditionValue is a tagged union keyed by the condition's field type.
// Exactly one arm is expected to be set; evaluation treats a missing or
// mismatched arm as a non-match.
type ConditionValue struct {
	Number  *float64   `json:"number,omitempty"`
	String  *string    `json:"string,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
	Strings []string   `json:"strings,omitempty"`
	Numbers []float64  `json:"numbers,omitempty"`
}

// RateOverride replaces the rule's base rate when its condition matches.
type RateOverride struct {
	RateType RateType `json:"rate_type"`
	Rate     float64  `json:"rate"`
}

// ConditionRule is a single predicate over one transaction field.
type ConditionRule struct {
	ID           string          `json:"id"`
	Field        ConditionField  `json:"field"`
	Operator     Operator        `json:"operator"`
	Value        ConditionValue  `json:"value"`
	SecondValue  *ConditionValue `json:"second_value,omitempty"`
	RateOverride *RateOverride   `json:"rate_override,omitempty"`
}

// AdvancedConditions is a group of conditions combined with AND/OR logic.
type AdvancedConditions struct {
	Logic      ConditionLogic  `json:"logic"`
	Conditions []ConditionRule `json:"conditions"`
}

// TieredRate is one amount-range-bound segment of a tiered configuration.
// A nil MaxAmount marks an open-ended final tier.
type TieredRate struct {
	ID          string   `json:"id"`
	MinAmount   float64  `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	Rate        float64  `json:"rate"`
	RateType    RateType `json:"rate_type"`
	Description string   `json:"description,omitempty"`
}

// TieredCommissionConfig configures bracket or cumulative tiered calculation.
type TieredCommissionConfig struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Tiers                 []TieredRate `json:"tiers"`
	CumulativeCalculation bool         `json:"cumulative_calculation"`
	BaseAmount            float64      `json:"base_amount,omitempty"`
}

// TimeBasedRate applies only while the transaction date falls inside its
// window. Nil bounds leave that side of the window open.
type TimeBasedRate struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	StartDate  *time.Time     `json:"start_date,omitempty"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`
	StartHour  *int           `json:"start_hour,omitempty"`
	EndHour    *int           `json:"end_hour,omitempty"`
	RateType   RateType       `json:"rate_type"`
	Rate       float64        `json:"rate"`
}

// CategoryAll makes a rule match transactions of any category.
const CategoryAll = "all"

// CommissionRule maps transaction attributes to a commission rate.
// Calculation reads a snapshot; rows are never mutated mid-run.
type CommissionRule struct {
	ID                 snowflake.ID                    `json:"id" gorm:"primaryKey"`
	Name               string                          `json:"name" gorm:"type:text;not null"`
	Type               transactiondomain.TransactionType `json:"type" gorm:"type:text;not null;index"`
	RateType           RateType                        `json:"rate_type" gorm:"type:text;not null"`
	Rate               float64                         `json:"rate" gorm:"type:numeric;not null"`
	MinAmount          *float64                        `json:"min_amount,omitempty" gorm:"type:numeric"`
	MaxAmount          *float64                        `json:"max_amount,omitempty" gorm:"type:numeric"`
	Conditions         string                          `json:"conditions,omitempty" gorm:"type:text"`
	IsActive           bool                            `json:"is_active" gorm:"not null;default:true;index"`
	Category           string                          `json:"category" gorm:"type:text;not null;index"`
	AdvancedConditions *AdvancedConditions             `json:"advanced_conditions,omitempty" gorm:"type:jsonb;serializer:json"`
	TieredConfig       *TieredCommissionConfig         `json:"tiered_config,omitempty" gorm:"type:jsonb;serializer:json"`
	TimeBasedRates     []TimeBasedRate                 `json:"time_based_rates,omitempty" gorm:"type:jsonb;serializer:json"`
	Metadata           datatypes.JSONMap               `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt          time.Time                       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time                       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CommissionRule) TableName() string { return "commission_rules" }
