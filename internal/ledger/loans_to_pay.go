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

// LoansToPay is the ledger of money owed to lenders. Principal only moves
// down; paid_off is terminal and further payments are refused.
type LoansToPay struct {
	mu    sync.RWMutex
	store storage.Store
	items []core.LoanToPay
	now   func() time.Time
}

// LoadLoansToPay builds the loan-to-pay ledger from its persisted collection.
func LoadLoansToPay(ctx context.Context, store storage.Store) (*LoansToPay, error) {
	doc, err := store.Load(ctx, storage.KeyLoansToPay)
	if err != nil {
		return nil, &core.IOError{Op: "load loans to pay", Err: err}
	}
	items, err := storage.UnmarshalRecords[core.LoanToPay](doc)
	if err != nil {
		return nil, &core.IOError{Op: "decode loans to pay", Err: err}
	}
	return &LoansToPay{store: store, items: items, now: time.Now}, nil
}

func (l *LoansToPay) persist(ctx context.Context) error {
	records, err := storage.MarshalRecords(l.items)
	if err != nil {
		return &core.IOError{Op: "encode loans to pay", Err: err}
	}
	if err := l.store.Save(ctx, storage.KeyLoansToPay, storage.NewDocument(records)); err != nil {
		return &core.IOError{Op: "save loans to pay", Err: err}
	}
	return nil
}

// Add creates a loan with the current principal equal to the original and
// active status.
func (l *LoansToPay) Add(ctx context.Context, loan core.LoanToPay) (core.LoanToPay, error) {
	if err := loan.Validate(); err != nil {
		return core.LoanToPay{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	loan.ID = uuid.NewString()
	loan.CurrentPrincipal = loan.OriginalPrincipal
	loan.Status = core.LoanActive
	loan.CreatedAt = l.now()
	loan.Payments = []core.PrincipalPayment{}
	l.items = append(l.items, loan)
	return loan, l.persist(ctx)
}

// RecordPrincipalPayment reduces the principal and records a snapshot of the
// balance before and after plus the rate at payment time. The principal can
// reach zero but never cross it; at zero the loan is paid off for good.
func (l *LoansToPay) RecordPrincipalPayment(ctx context.Context, id string, p core.PrincipalPayment) (core.LoanToPay, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.LoanToPay{}, core.NotFound("loan", id)
	}
	loan := l.items[idx]

	if loan.Status == core.LoanPaidOff {
		return core.LoanToPay{}, &core.InvalidStateError{Op: "record payment", State: string(core.LoanPaidOff)}
	}
	if !p.PrincipalPaid.IsPositive() {
		return core.LoanToPay{}, core.Invalid("principalPaid", "must be a positive number")
	}
	if p.PrincipalPaid.GreaterThan(loan.CurrentPrincipal) {
		return core.LoanToPay{}, core.Invalid("principalPaid", "payment exceeds current principal")
	}
	if p.PaymentDate == "" {
		p.PaymentDate = l.now().Format("2006-01-02")
	} else if err := core.ValidateDate(p.PaymentDate); err != nil {
		return core.LoanToPay{}, core.Invalid("paymentDate", "must be a YYYY-MM-DD calendar date")
	}

	p.PrincipalBefore = loan.CurrentPrincipal
	p.PrincipalAfter = loan.CurrentPrincipal.Sub(p.PrincipalPaid)
	p.InterestRate = loan.InterestRate

	loan.CurrentPrincipal = p.PrincipalAfter
	if loan.CurrentPrincipal.IsZero() {
		loan.Status = core.LoanPaidOff
	}
	loan.Payments = append(loan.Payments, p)
	l.items[idx] = loan
	return loan, l.persist(ctx)
}

// Remove deletes the loan together with its payment history.
func (l *LoansToPay) Remove(ctx context.Context, id string) error {
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
func (l *LoansToPay) Get(id string) (core.LoanToPay, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.LoanToPay{}, core.NotFound("loan", id)
	}
	return l.items[idx], nil
}

// List returns all loans, active before paid off, each group by due date.
func (l *LoansToPay) List() []core.LoanToPay {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := append([]core.LoanToPay(nil), l.items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status == core.LoanActive
		}
		return out[i].DueDate < out[j].DueDate
	})
	return out
}

// Payments returns the payment history for a loan, most recent first.
func (l *LoansToPay) Payments(id string) ([]core.PrincipalPayment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return nil, core.NotFound("loan", id)
	}
	out := append([]core.PrincipalPayment(nil), l.items[idx].Payments...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PaymentDate > out[j].PaymentDate
	})
	return out, nil
}

func (l *LoansToPay) indexOf(id string) int {
	for i, loan := range l.items {
		if loan.ID == id {
			return i
		}
	}
	return -1
}
