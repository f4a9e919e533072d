// Package ledger implements the three sub-ledgers of the cash book: dated
// income/expense entries, loans given out, and loans to be repaid. Each
// ledger owns its collection, mutates it in memory first, and then persists
// the whole collection through the storage port. A persist failure is
// surfaced as a core.IOError without rolling back the in-memory change.
// A per-ledger lock serializes operations, so the HTTP server can call in
// from concurrent request goroutines.
package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cashbook/internal/core"
	"cashbook/internal/storage"
)

// Sentinel bounds for an open-ended date range. ISO dates compare
// lexicographically, so these sort before and after every real date.
const (
	minDateBound = ""
	maxDateBound = "9999-12-31"
)

// Entries is the income/expense entry ledger.
type Entries struct {
	mu    sync.RWMutex
	store storage.Store
	items []core.Entry
	now   func() time.Time
}

// LoadEntries builds the entry ledger from its persisted collection.
func LoadEntries(ctx context.Context, store storage.Store) (*Entries, error) {
	doc, err := store.Load(ctx, storage.KeyEntries)
	if err != nil {
		return nil, &core.IOError{Op: "load entries", Err: err}
	}
	items, err := storage.UnmarshalRecords[core.Entry](doc)
	if err != nil {
		return nil, &core.IOError{Op: "decode entries", Err: err}
	}
	return &Entries{store: store, items: items, now: time.Now}, nil
}

func (l *Entries) persist(ctx context.Context) error {
	records, err := storage.MarshalRecords(l.items)
	if err != nil {
		return &core.IOError{Op: "encode entries", Err: err}
	}
	if err := l.store.Save(ctx, storage.KeyEntries, storage.NewDocument(records)); err != nil {
		return &core.IOError{Op: "save entries", Err: err}
	}
	return nil
}

// Add validates the new entry, assigns its id and creation time, appends it
// and persists. Validation happens fully before any state change.
func (l *Entries) Add(ctx context.Context, patch core.EntryPatch) (core.Entry, error) {
	if err := patch.Validate(); err != nil {
		return core.Entry{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e := core.Entry{
		ID:        uuid.NewString(),
		Type:      patch.Type,
		Date:      patch.Date,
		Category:  patch.Category,
		Amount:    patch.Amount,
		Note:      patch.Note,
		CreatedAt: l.now(),
	}
	l.items = append(l.items, e)
	return e, l.persist(ctx)
}

// Update replaces the mutable fields of the entry with the given id,
// preserving id and creation time.
func (l *Entries) Update(ctx context.Context, id string, patch core.EntryPatch) (core.Entry, error) {
	if err := patch.Validate(); err != nil {
		return core.Entry{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.Entry{}, core.NotFound("entry", id)
	}
	e := l.items[idx]
	e.Type = patch.Type
	e.Date = patch.Date
	e.Category = patch.Category
	e.Amount = patch.Amount
	e.Note = patch.Note
	l.items[idx] = e
	return e, l.persist(ctx)
}

// Remove deletes the entry with the given id.
func (l *Entries) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.NotFound("entry", id)
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return l.persist(ctx)
}

// Get returns the entry with the given id.
func (l *Entries) Get(id string) (core.Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.Entry{}, core.NotFound("entry", id)
	}
	return l.items[idx], nil
}

func (l *Entries) indexOf(id string) int {
	for i, e := range l.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// DailyView returns the entries for one date ordered by creation time, with
// income/expense totals and their net. The sort is stable, so entries created
// in the same instant keep insertion order.
func (l *Entries) DailyView(date string) core.DailyView {
	l.mu.RLock()
	defer l.mu.RUnlock()
	view := core.DailyView{
		Date:         date,
		Entries:      []core.Entry{},
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
		Net:          decimal.Zero,
	}
	for _, e := range l.items {
		if e.Date != date {
			continue
		}
		view.Entries = append(view.Entries, e)
		switch e.Type {
		case core.Income:
			view.IncomeTotal = view.IncomeTotal.Add(e.Amount)
		case core.Expense:
			view.ExpenseTotal = view.ExpenseTotal.Add(e.Amount)
		}
	}
	sort.SliceStable(view.Entries, func(i, j int) bool {
		return view.Entries[i].CreatedAt.Before(view.Entries[j].CreatedAt)
	})
	view.Net = view.IncomeTotal.Sub(view.ExpenseTotal)
	return view
}

// RangeSummary aggregates the inclusive date range [from, to], grouped by
// category in lexicographic order. An empty from or to leaves that side of
// the range open.
func (l *Entries) RangeSummary(from, to string) core.RangeSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if from == "" {
		from = minDateBound
	}
	if to == "" {
		to = maxDateBound
	}

	summary := core.RangeSummary{
		From:         from,
		To:           to,
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
		Net:          decimal.Zero,
		ByCategory:   []core.CategorySummary{},
	}

	byCategory := make(map[string]*core.CategorySummary)
	for _, e := range l.items {
		if e.Date < from || e.Date > to {
			continue
		}
		cs, ok := byCategory[e.Category]
		if !ok {
			cs = &core.CategorySummary{
				Category:     e.Category,
				IncomeTotal:  decimal.Zero,
				ExpenseTotal: decimal.Zero,
			}
			byCategory[e.Category] = cs
		}
		switch e.Type {
		case core.Income:
			cs.IncomeTotal = cs.IncomeTotal.Add(e.Amount)
			summary.IncomeTotal = summary.IncomeTotal.Add(e.Amount)
		case core.Expense:
			cs.ExpenseTotal = cs.ExpenseTotal.Add(e.Amount)
			summary.ExpenseTotal = summary.ExpenseTotal.Add(e.Amount)
		}
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cs := byCategory[name]
		cs.Net = cs.IncomeTotal.Sub(cs.ExpenseTotal)
		summary.ByCategory = append(summary.ByCategory, *cs)
	}

	summary.Net = summary.IncomeTotal.Sub(summary.ExpenseTotal)
	return summary
}
