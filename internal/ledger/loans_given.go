package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cashbook/internal/core"
	"cashbook/internal/storage"
)

// LoansGiven is the ledger of money lent out. Payments accumulate against
// the loan amount; the status follows total paid: pending at zero, partially
// paid in between, paid off at the full amount. Overpayment is rejected so
// the remaining balance can never go negative.
type LoansGiven struct {
	mu    sync.RWMutex
	store storage.Store
	items []core.LoanGiven
	now   func() time.Time
}

// LoadLoansGiven builds the loan-given ledger from its persisted collection.
func LoadLoansGiven(ctx context.Context, store storage.Store) (*LoansGiven, error) {
	doc, err := store.Load(ctx, storage.KeyLoansGiven)
	if err != nil {
		return nil, &core.IOError{Op: "load loans given", Err: err}
	}
	items, err := storage.UnmarshalRecords[core.LoanGiven](doc)
	if err != nil {
		return nil, &core.IOError{Op: "decode loans given", Err: err}
	}
	return &LoansGiven{store: store, items: items, now: time.Now}, nil
}

// Reload refreshes the ledger from the store, replacing the in-memory view.
// Long-running readers use it to pick up writes made by another process.
func (l *LoansGiven) Reload(ctx context.Context) error {
	doc, err := l.store.Load(ctx, storage.KeyLoansGiven)
	if err != nil {
		return &core.IOError{Op: "load loans given", Err: err}
	}
	items, err := storage.UnmarshalRecords[core.LoanGiven](doc)
	if err != nil {
		return &core.IOError{Op: "decode loans given", Err: err}
	}
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

func (l *LoansGiven) persist(ctx context.Context) error {
	records, err := storage.MarshalRecords(l.items)
	if err != nil {
		return &core.IOError{Op: "encode loans given", Err: err}
	}
	if err := l.store.Save(ctx, storage.KeyLoansGiven, storage.NewDocument(records)); err != nil {
		return &core.IOError{Op: "save loans given", Err: err}
	}
	return nil
}

// Add creates a loan with no payments, pending status and, when the user did
// not pick one, a reminder a week before the due date.
func (l *LoansGiven) Add(ctx context.Context, patch core.LoanGivenPatch) (core.LoanGiven, error) {
	if err := patch.Validate(); err != nil {
		return core.LoanGiven{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	reminder := patch.ReminderDate
	if reminder == "" {
		reminder = core.DefaultReminderDate(patch.DueDate)
	}
	loan := core.LoanGiven{
		ID:           uuid.NewString(),
		BorrowerName: patch.BorrowerName,
		Amount:       patch.Amount,
		DueDate:      patch.DueDate,
		ReminderDate: reminder,
		Status:       core.LoanPending,
		Notes:        patch.Notes,
		CreatedAt:    l.now(),
		Payments:     []core.Payment{},
	}
	l.items = append(l.items, loan)
	return loan, l.persist(ctx)
}

// Update replaces the mutable loan fields, preserving id, creation time and
// the payment history. The status is rederived in case the amount changed.
func (l *LoansGiven) Update(ctx context.Context, id string, patch core.LoanGivenPatch) (core.LoanGiven, error) {
	if err := patch.Validate(); err != nil {
		return core.LoanGiven{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.LoanGiven{}, core.NotFound("loan", id)
	}
	loan := l.items[idx]
	if patch.Amount.LessThan(loan.TotalPaid()) {
		return core.LoanGiven{}, core.Invalid("amount", "must not be less than the total already paid")
	}
	loan.BorrowerName = patch.BorrowerName
	loan.Amount = patch.Amount
	loan.DueDate = patch.DueDate
	loan.ReminderDate = patch.ReminderDate
	if loan.ReminderDate == "" {
		loan.ReminderDate = core.DefaultReminderDate(patch.DueDate)
	}
	loan.Notes = patch.Notes
	loan.Status = loan.StatusFor(loan.TotalPaid())
	l.items[idx] = loan
	return loan, l.persist(ctx)
}

// RecordPayment appends a repayment and moves the status along the
// pending -> partially_paid -> paid_off chain. A payment that would push
// total paid beyond the loan amount is rejected.
func (l *LoansGiven) RecordPayment(ctx context.Context, id string, p core.Payment) (core.LoanGiven, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.LoanGiven{}, core.NotFound("loan", id)
	}
	loan := l.items[idx]

	if !p.AmountPaid.IsPositive() {
		return core.LoanGiven{}, core.Invalid("amountPaid", "must be a positive number")
	}
	if err := core.ValidateMonth(p.Month); err != nil {
		return core.LoanGiven{}, err
	}
	newTotal := loan.TotalPaid().Add(p.AmountPaid)
	if newTotal.GreaterThan(loan.Amount) {
		return core.LoanGiven{}, core.Invalid("amountPaid", "payment exceeds remaining balance")
	}
	if p.PaymentDate == "" {
		p.PaymentDate = l.now().Format("2006-01-02")
	} else if err := core.ValidateDate(p.PaymentDate); err != nil {
		return core.LoanGiven{}, core.Invalid("paymentDate", "must be a YYYY-MM-DD calendar date")
	}

	loan.Payments = append(loan.Payments, p)
	loan.Status = loan.StatusFor(newTotal)
	l.items[idx] = loan
	return loan, l.persist(ctx)
}

// Remove deletes the loan together with its payment history.
func (l *LoansGiven) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.NotFound("loan", id)
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return l.persist(ctx)
}

// Get returns the loan with the given id.
func (l *LoansGiven) Get(id string) (core.LoanGiven, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.LoanGiven{}, core.NotFound("loan", id)
	}
	return l.items[idx], nil
}

// List returns all loans ordered by due date.
func (l *LoansGiven) List() []core.LoanGiven {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := append([]core.LoanGiven(nil), l.items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate < out[j].DueDate
	})
	return out
}

// Payments returns the payment history for a loan ordered by month.
func (l *LoansGiven) Payments(id string) ([]core.Payment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return nil, core.NotFound("loan", id)
	}
	out := append([]core.Payment(nil), l.items[idx].Payments...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out, nil
}

func (l *LoansGiven) indexOf(id string) int {
	for i, loan := range l.items {
		if loan.ID == id {
			return i
		}
	}
	return -1
}
