package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoanGivenDerived(t *testing.T) {
	loan := LoanGiven{
		Amount: decimal.NewFromInt(1000),
		Payments: []Payment{
			{Month: "2024-01", AmountPaid: decimal.NewFromInt(400)},
			{Month: "2024-02", AmountPaid: decimal.NewFromInt(250)},
		},
	}
	if got := loan.TotalPaid(); !got.Equal(decimal.NewFromInt(650)) {
		t.Fatalf("TotalPaid = %s, want 650", got)
	}
	if got := loan.Remaining(); !got.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("Remaining = %s, want 350", got)
	}
	// totalPaid + remaining always reconciles to the original amount
	if got := loan.TotalPaid().Add(loan.Remaining()); !got.Equal(loan.Amount) {
		t.Fatalf("totalPaid + remaining = %s, want %s", got, loan.Amount)
	}
}

func TestLoanGivenStatusFor(t *testing.T) {
	loan := LoanGiven{Amount: decimal.NewFromInt(1000)}
	cases := []struct {
		paid int64
		want LoanStatus
	}{
		{0, LoanPending},
		{1, LoanPartiallyPaid},
		{999, LoanPartiallyPaid},
		{1000, LoanPaidOff},
	}
	for _, tc := range cases {
		if got := loan.StatusFor(decimal.NewFromInt(tc.paid)); got != tc.want {
			t.Fatalf("StatusFor(%d) = %s, want %s", tc.paid, got, tc.want)
		}
	}
}

func TestDefaultReminderDate(t *testing.T) {
	if got := DefaultReminderDate("2024-03-15"); got != "2024-03-08" {
		t.Fatalf("DefaultReminderDate = %q, want 2024-03-08", got)
	}
	if got := DefaultReminderDate("garbage"); got != "" {
		t.Fatalf("DefaultReminderDate on bad input = %q, want empty", got)
	}
}

func TestLoanGivenPatchValidate(t *testing.T) {
	good := LoanGivenPatch{BorrowerName: "Ramesh", Amount: decimal.NewFromInt(1000), DueDate: "2024-06-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []LoanGivenPatch{
		{BorrowerName: " ", Amount: decimal.NewFromInt(1), DueDate: "2024-06-01"},
		{BorrowerName: "x", Amount: decimal.Zero, DueDate: "2024-06-01"},
		{BorrowerName: "x", Amount: decimal.NewFromInt(1), DueDate: "soon"},
		{BorrowerName: "x", Amount: decimal.NewFromInt(1), DueDate: "2024-06-01", ReminderDate: "soon"},
	}
	for i, p := range bads {
		if err := p.Validate(); !IsValidation(err) {
			t.Fatalf("case %d expected ValidationError, got %v", i, err)
		}
	}
}

func TestLoanToPayValidate(t *testing.T) {
	good := LoanToPay{
		LenderName:        "City Bank",
		OriginalPrincipal: decimal.NewFromInt(2000),
		InterestRate:      decimal.NewFromInt(5),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []LoanToPay{
		{LenderName: "", OriginalPrincipal: decimal.NewFromInt(1)},
		{LenderName: "x", OriginalPrincipal: decimal.Zero},
		{LenderName: "x", OriginalPrincipal: decimal.NewFromInt(1), InterestRate: decimal.NewFromInt(-1)},
		{LenderName: "x", OriginalPrincipal: decimal.NewFromInt(1), DueDate: "later"},
	}
	for i, l := range bads {
		if err := l.Validate(); !IsValidation(err) {
			t.Fatalf("case %d expected ValidationError, got %v", i, err)
		}
	}
}
