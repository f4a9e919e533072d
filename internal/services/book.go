// Package services orchestrates the ledgers: every successful mutation is
// followed by a change event publish, and the reminder checker decides when
// loan reminders fall due.
package services

import (
	"context"
	"log/slog"

	"cashbook/internal/amqp"
	"cashbook/internal/core"
	"cashbook/internal/ledger"
	"cashbook/internal/storage"
)

// Publisher is the outbound event port. A nil publisher disables events.
type Publisher interface {
	PublishChange(ctx context.Context, collection, op, id string) error
	PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error
}

// Book bundles the three ledgers behind one service. Mutations hit the owning
// ledger first (memory, then persist), then publish a change event; a publish
// failure is logged and never fails the request.
type Book struct {
	Entries    *ledger.Entries
	LoansGiven *ledger.LoansGiven
	LoansToPay *ledger.LoansToPay

	publisher Publisher
}

// Open loads all three ledgers from the store.
func Open(ctx context.Context, store storage.Store, publisher Publisher) (*Book, error) {
	entries, err := ledger.LoadEntries(ctx, store)
	if err != nil {
		return nil, err
	}
	given, err := ledger.LoadLoansGiven(ctx, store)
	if err != nil {
		return nil, err
	}
	toPay, err := ledger.LoadLoansToPay(ctx, store)
	if err != nil {
		return nil, err
	}
	return &Book{
		Entries:    entries,
		LoansGiven: given,
		LoansToPay: toPay,
		publisher:  publisher,
	}, nil
}

func (b *Book) publish(ctx context.Context, collection, op, id string) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.PublishChange(ctx, collection, op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"collection", collection, "op", op, "id", id, "error", err)
	}
}

// CreateEntry adds an income/expense entry and announces it.
func (b *Book) CreateEntry(ctx context.Context, patch core.EntryPatch) (core.Entry, error) {
	e, err := b.Entries.Add(ctx, patch)
	if err != nil {
		return core.Entry{}, err
	}
	b.publish(ctx, storage.KeyEntries, amqp.OpCreated, e.ID)
	return e, nil
}

func (b *Book) UpdateEntry(ctx context.Context, id string, patch core.EntryPatch) (core.Entry, error) {
	e, err := b.Entries.Update(ctx, id, patch)
	if err != nil {
		return core.Entry{}, err
	}
	b.publish(ctx, storage.KeyEntries, amqp.OpUpdated, e.ID)
	return e, nil
}

func (b *Book) DeleteEntry(ctx context.Context, id string) error {
	if err := b.Entries.Remove(ctx, id); err != nil {
		return err
	}
	b.publish(ctx, storage.KeyEntries, amqp.OpDeleted, id)
	return nil
}

func (b *Book) AddLoanGiven(ctx context.Context, patch core.LoanGivenPatch) (core.LoanGiven, error) {
	loan, err := b.LoansGiven.Add(ctx, patch)
	if err != nil {
		return core.LoanGiven{}, err
	}
	b.publish(ctx, storage.KeyLoansGiven, amqp.OpCreated, loan.ID)
	return loan, nil
}

func (b *Book) UpdateLoanGiven(ctx context.Context, id string, patch core.LoanGivenPatch) (core.LoanGiven, error) {
	loan, err := b.LoansGiven.Update(ctx, id, patch)
	if err != nil {
		return core.LoanGiven{}, err
	}
	b.publish(ctx, storage.KeyLoansGiven, amqp.OpUpdated, loan.ID)
	return loan, nil
}

func (b *Book) RecordLoanPayment(ctx context.Context, id string, p core.Payment) (core.LoanGiven, error) {
	loan, err := b.LoansGiven.RecordPayment(ctx, id, p)
	if err != nil {
		return core.LoanGiven{}, err
	}
	b.publish(ctx, storage.KeyLoansGiven, amqp.OpPayment, loan.ID)
	return loan, nil
}

func (b *Book) DeleteLoanGiven(ctx context.Context, id string) error {
	if err := b.LoansGiven.Remove(ctx, id); err != nil {
		return err
	}
	b.publish(ctx, storage.KeyLoansGiven, amqp.OpDeleted, id)
	return nil
}

func (b *Book) AddLoanToPay(ctx context.Context, loan core.LoanToPay) (core.LoanToPay, error) {
	added, err := b.LoansToPay.Add(ctx, loan)
	if err != nil {
		return core.LoanToPay{}, err
	}
	b.publish(ctx, storage.KeyLoansToPay, amqp.OpCreated, added.ID)
	return added, nil
}

func (b *Book) RecordPrincipalPayment(ctx context.Context, id string, p core.PrincipalPayment) (core.LoanToPay, error) {
	loan, err := b.LoansToPay.RecordPrincipalPayment(ctx, id, p)
	if err != nil {
		return core.LoanToPay{}, err
	}
	b.publish(ctx, storage.KeyLoansToPay, amqp.OpPayment, loan.ID)
	return loan, nil
}

func (b *Book) DeleteLoanToPay(ctx context.Context, id string) error {
	if err := b.LoansToPay.Remove(ctx, id); err != nil {
		return err
	}
	b.publish(ctx, storage.KeyLoansToPay, amqp.OpDeleted, id)
	return nil
}
