package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
	Savings TransactionType = "savings"
)

const (
	Numerical  KeyResultType = "numerical"
	Currency   KeyResultType = "currency"
	Percentage KeyResultType = "percentage"
	Boolean    KeyResultType = "boolean"
)

const (
	OnTrack   ObjectiveStatus = "ON_TRACK"
	AtRisk    ObjectiveStatus = "AT_RISK"
	Behind    ObjectiveStatus = "BEHIND"
	Completed ObjectiveStatus = "COMPLETED"
)

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

type (
	TransactionType string
	KeyResultType   string
	ObjectiveStatus string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Description string          `json:"description,omitempty"`
	}

	KeyResult struct {
		ID           string        `json:"id"`
		Title        string        `json:"title"`
		StartValue   *float64      `json:"startValue,omitempty"`
		CurrentValue float64       `json:"currentValue"`
		TargetValue  float64       `json:"targetValue"`
		Unit         string        `json:"unit"`
		Type         KeyResultType `json:"type"`
		Completed    bool          `json:"completed"`
		// Revenue marks a key result as money the objective generates.
		// Nil means "unknown": callers fall back to title keywords.
		Revenue     *bool    `json:"isRevenue,omitempty"`
		TemplateID  string   `json:"templateId,omitempty"`
		Description string   `json:"description,omitempty"`
		Icon        string   `json:"icon,omitempty"`
		Frequency   []string `json:"frequency,omitempty"`
	}

	Objective struct {
		ID         string          `json:"id"`
		Title      string          `json:"title"`
		Category   string          `json:"category"`
		Icon       string          `json:"icon"`
		Status     ObjectiveStatus `json:"status"`
		Progress   int             `json:"progress"`
		KeyResults []KeyResult     `json:"keyResults"`
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyTitle         = errors.New("empty title")
	ErrInvalidStatus      = errors.New("invalid objective status")
	ErrInvalidKeyResult   = errors.New("invalid key result type")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

var validationErrors = []error{
	ErrInvalidDate, ErrInvalidAmount, ErrInvalidType, ErrEmptyCategory,
	ErrEmptyTitle, ErrInvalidStatus, ErrInvalidKeyResult, ErrDescriptionTooLong,
}

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts both plain dates and RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = NewDate(t.Year(), int(t.Month()), t.Day())
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Savings:
		return true
	default:
		return false
	}
}

func (t KeyResultType) IsValid() bool {
	switch t {
	case Numerical, Currency, Percentage, Boolean:
		return true
	default:
		return false
	}
}

func (s ObjectiveStatus) IsValid() bool {
	switch s {
	case OnTrack, AtRisk, Behind, Completed:
		return true
	default:
		return false
	}
}

// Validate is used by write paths only. Aggregation never validates.
func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

// Start returns the start value, defaulting to zero.
func (kr KeyResult) Start() float64 {
	if kr.StartValue == nil {
		return 0
	}
	return *kr.StartValue
}

func (kr KeyResult) Validate() error {
	if strings.TrimSpace(kr.Title) == "" {
		return ErrEmptyTitle
	}
	if !kr.Type.IsValid() {
		return ErrInvalidKeyResult
	}
	return nil
}

func (o Objective) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return ErrEmptyTitle
	}
	if !o.Status.IsValid() {
		return ErrInvalidStatus
	}
	for _, kr := range o.KeyResults {
		if err := kr.Validate(); err != nil {
			return fmt.Errorf("key result %s: %w", kr.ID, err)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can edit without touching shared snapshots.
func (o Objective) Clone() Objective {
	out := o
	if o.KeyResults != nil {
		out.KeyResults = make([]KeyResult, len(o.KeyResults))
		for i, kr := range o.KeyResults {
			out.KeyResults[i] = kr.clone()
		}
	}
	return out
}

func (kr KeyResult) clone() KeyResult {
	out := kr
	if kr.StartValue != nil {
		v := *kr.StartValue
		out.StartValue = &v
	}
	if kr.Revenue != nil {
		v := *kr.Revenue
		out.Revenue = &v
	}
	if kr.Frequency != nil {
		out.Frequency = append([]string(nil), kr.Frequency...)
	}
	return out
}
