package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

type (
	EntryType string

	// Entry is a single dated income or expense transaction.
	// Date is a calendar date in ISO YYYY-MM-DD form, user-assigned, and may
	// differ from CreatedAt which only orders entries within a day.
	Entry struct {
		ID        string          `json:"id"`
		Type      EntryType       `json:"type"`
		Date      string          `json:"date"`
		Category  string          `json:"category"`
		Amount    decimal.Decimal `json:"amount"`
		Note      string          `json:"note,omitempty"`
		CreatedAt time.Time       `json:"createdAt"`
	}

	// EntryPatch carries the mutable fields for an entry update.
	EntryPatch struct {
		Type     EntryType       `json:"type"`
		Date     string          `json:"date"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Note     string          `json:"note,omitempty"`
	}
)

const dateLayout = "2006-01-02"

func (t EntryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return Invalid("type", "must be income or expense")
}

// ValidateDate checks an ISO YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return Invalid("date", "required")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Invalid("date", "must be a YYYY-MM-DD calendar date")
	}
	return nil
}

// Validate checks the mutable fields of an entry. The first unmet constraint
// wins; nothing is reported beyond it.
func (p EntryPatch) Validate() error {
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if err := ValidateDate(p.Date); err != nil {
		return err
	}
	if strings.TrimSpace(p.Category) == "" {
		return Invalid("category", "required")
	}
	if !ValidCategory(p.Type, p.Category) {
		return Invalid("category", "not a valid "+string(p.Type)+" category")
	}
	if !p.Amount.IsPositive() {
		return Invalid("amount", "must be a positive number")
	}
	return nil
}

func (e Entry) Validate() error {
	return EntryPatch{
		Type:     e.Type,
		Date:     e.Date,
		Category: e.Category,
		Amount:   e.Amount,
		Note:     e.Note,
	}.Validate()
}
