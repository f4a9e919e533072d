package services

import (
	"context"
	"log/slog"
	"time"

	"cashbook/internal/amqp"
	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

// ReminderDue reports whether a loan given out should be flagged on the given
// day: a reminder date is set, the day has been reached, and money is still
// outstanding.
func ReminderDue(loan core.LoanGiven, today string) bool {
	if loan.Status == core.LoanPaidOff {
		return false
	}
	if loan.ReminderDate == "" {
		return false
	}
	return today >= loan.ReminderDate
}

// ReminderChecker periodically scans loans given out and emits a reminder for
// each one whose reminder date has arrived. Each loan is reminded at most
// once per day.
type ReminderChecker struct {
	loans     *ledger.LoansGiven
	publisher Publisher
	now       func() time.Time

	lastSent map[string]string // loan id -> date last reminded
}

func NewReminderChecker(loans *ledger.LoansGiven, publisher Publisher) *ReminderChecker {
	return &ReminderChecker{
		loans:     loans,
		publisher: publisher,
		now:       time.Now,
		lastSent:  make(map[string]string),
	}
}

// CheckOnce scans all loans and emits due reminders. Returns the loans that
// were flagged this pass.
func (r *ReminderChecker) CheckOnce(ctx context.Context) []core.LoanGiven {
	today := r.now().Format("2006-01-02")

	// Only today's entries matter for dedup. Dropping the rest keeps the map
	// from accumulating ids for past days and for loans since removed.
	for id, day := range r.lastSent {
		if day != today {
			delete(r.lastSent, id)
		}
	}

	var due []core.LoanGiven
	for _, loan := range r.loans.List() {
		if !ReminderDue(loan, today) {
			continue
		}
		if r.lastSent[loan.ID] == today {
			continue
		}
		due = append(due, loan)
		r.lastSent[loan.ID] = today

		slog.InfoContext(ctx, "Loan reminder due",
			"loan_id", loan.ID,
			"borrower", loan.BorrowerName,
			"due_date", loan.DueDate,
			"remaining", loan.Remaining().String())

		if r.publisher == nil {
			continue
		}
		msg := &amqp.ReminderMessage{
			LoanID:       loan.ID,
			BorrowerName: loan.BorrowerName,
			DueDate:      loan.DueDate,
			Remaining:    loan.Remaining().String(),
			Timestamp:    r.now(),
		}
		if err := r.publisher.PublishReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"loan_id", loan.ID, "error", err)
		}
	}
	return due
}

// Run scans on the given interval until the context ends.
func (r *ReminderChecker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.CheckOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.loans.Reload(ctx); err != nil {
				slog.ErrorContext(ctx, "Failed to reload loans, using last known state", "error", err)
			}
			r.CheckOnce(ctx)
		}
	}
}
