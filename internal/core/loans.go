package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Loan-given statuses.
	LoanPending       LoanStatus = "pending"
	LoanPartiallyPaid LoanStatus = "partially_paid"
	LoanPaidOff       LoanStatus = "paid_off"

	// Loan-to-pay statuses. paid_off is shared and terminal in both ledgers.
	LoanActive LoanStatus = "active"
)

// How far ahead of the due date the default reminder lands.
const reminderLead = 7 * 24 * time.Hour

type (
	LoanStatus string

	// Payment is one repayment received on a loan given out. Payments have no
	// identity of their own; they live and die with their loan.
	Payment struct {
		Month       string          `json:"month"`
		AmountPaid  decimal.Decimal `json:"amountPaid"`
		PaymentDate string          `json:"paymentDate"`
		Notes       string          `json:"notes,omitempty"`
	}

	// LoanGiven is money lent out, tracked until the borrower repays it.
	LoanGiven struct {
		ID           string          `json:"id"`
		BorrowerName string          `json:"borrowerName"`
		Amount       decimal.Decimal `json:"amount"`
		DueDate      string          `json:"dueDate"`
		ReminderDate string          `json:"reminderDate,omitempty"`
		Status       LoanStatus      `json:"status"`
		Notes        string          `json:"notes,omitempty"`
		CreatedAt    time.Time       `json:"createdAt"`
		Payments     []Payment       `json:"payments"`
	}

	// LoanGivenPatch carries the mutable fields for a loan-given update.
	LoanGivenPatch struct {
		BorrowerName string          `json:"borrowerName"`
		Amount       decimal.Decimal `json:"amount"`
		DueDate      string          `json:"dueDate"`
		ReminderDate string          `json:"reminderDate,omitempty"`
		Notes        string          `json:"notes,omitempty"`
	}

	// PrincipalPayment is one principal reduction on a loan to pay. The
	// before/after balances and the rate are snapshotted at payment time so
	// the history stays meaningful if the loan is later edited.
	PrincipalPayment struct {
		PrincipalBefore decimal.Decimal `json:"principalBefore"`
		PrincipalPaid   decimal.Decimal `json:"principalPaid"`
		PrincipalAfter  decimal.Decimal `json:"principalAfter"`
		InterestRate    decimal.Decimal `json:"interestRate"`
		PaymentDate     string          `json:"paymentDate"`
		Notes           string          `json:"notes,omitempty"`
	}

	// LoanToPay is money owed to a lender. Interest is flat; this ledger only
	// tracks the principal down to zero.
	LoanToPay struct {
		ID                string             `json:"id"`
		LenderName        string             `json:"lenderName"`
		OriginalPrincipal decimal.Decimal    `json:"originalPrincipal"`
		CurrentPrincipal  decimal.Decimal    `json:"currentPrincipal"`
		InterestRate      decimal.Decimal    `json:"interestRate"`
		DueDate           string             `json:"dueDate,omitempty"`
		Status            LoanStatus         `json:"status"`
		Notes             string             `json:"notes,omitempty"`
		CreatedAt         time.Time          `json:"createdAt"`
		Payments          []PrincipalPayment `json:"payments"`
	}
)

// TotalPaid sums all payments received on the loan.
func (l LoanGiven) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Payments {
		total = total.Add(p.AmountPaid)
	}
	return total
}

// Remaining is the unpaid balance, amount minus total paid. Never negative:
// the ledger rejects payments that would push total paid past the amount.
func (l LoanGiven) Remaining() decimal.Decimal {
	return l.Amount.Sub(l.TotalPaid())
}

// StatusFor derives the loan-given status from a total-paid figure.
func (l LoanGiven) StatusFor(totalPaid decimal.Decimal) LoanStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(l.Amount):
		return LoanPaidOff
	case totalPaid.IsPositive():
		return LoanPartiallyPaid
	}
	return LoanPending
}

func (p LoanGivenPatch) Validate() error {
	if strings.TrimSpace(p.BorrowerName) == "" {
		return Invalid("borrowerName", "required")
	}
	if !p.Amount.IsPositive() {
		return Invalid("amount", "must be a positive number")
	}
	if err := ValidateDate(p.DueDate); err != nil {
		return Invalid("dueDate", "must be a YYYY-MM-DD calendar date")
	}
	if p.ReminderDate != "" {
		if err := ValidateDate(p.ReminderDate); err != nil {
			return Invalid("reminderDate", "must be a YYYY-MM-DD calendar date")
		}
	}
	return nil
}

// ValidateMonth checks the YYYY-MM month a payment is recorded against. The
// month is what the payment history sorts on, so every payment carries one.
func ValidateMonth(month string) error {
	if strings.TrimSpace(month) == "" {
		return Invalid("month", "required")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return Invalid("month", "must be a YYYY-MM month")
	}
	return nil
}

// DefaultReminderDate returns the reminder for a due date when the user did
// not pick one: a week before falling due.
func DefaultReminderDate(dueDate string) string {
	due, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return ""
	}
	return due.Add(-reminderLead).Format(dateLayout)
}

func (l LoanToPay) Validate() error {
	if strings.TrimSpace(l.LenderName) == "" {
		return Invalid("lenderName", "required")
	}
	if !l.OriginalPrincipal.IsPositive() {
		return Invalid("originalPrincipal", "must be a positive number")
	}
	if l.InterestRate.IsNegative() {
		return Invalid("interestRate", "must not be negative")
	}
	if l.DueDate != "" {
		if err := ValidateDate(l.DueDate); err != nil {
			return Invalid("dueDate", "must be a YYYY-MM-DD calendar date")
		}
	}
	return nil
}
