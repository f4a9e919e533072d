package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cashbook/internal/core"
	"cashbook/internal/storage"
	"cashbook/internal/storage/memory"
)

// failStore wraps a working store and fails every Save.
type failStore struct {
	storage.Store
}

func (f failStore) Save(context.Context, string, storage.Document) error {
	return errors.New("disk full")
}

func newEntries(t *testing.T) (*Entries, storage.Store) {
	t.Helper()
	store := memory.New()
	l, err := LoadEntries(context.Background(), store)
	if err != nil {
		t.Fatalf("load entries: %v", err)
	}
	return l, store
}

func mustAdd(t *testing.T, l *Entries, typ core.EntryType, date, category, amount string) core.Entry {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("bad amount %q: %v", amount, err)
	}
	e, err := l.Add(context.Background(), core.EntryPatch{
		Type: typ, Date: date, Category: category, Amount: amt,
	})
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	return e
}

func TestDailyViewTotalsAndOrdering(t *testing.T) {
	l, _ := newEntries(t)

	// fixed clock so creation order is under test control
	base := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	tick := 0
	l.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first := mustAdd(t, l, core.Expense, "2024-01-05", "Shop expenses", "150.00")
	second := mustAdd(t, l, core.Income, "2024-01-05", "Shop sales", "500.00")
	mustAdd(t, l, core.Income, "2024-01-06", "Shop sales", "999")

	view := l.DailyView("2024-01-05")
	if len(view.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(view.Entries))
	}
	if view.Entries[0].ID != first.ID || view.Entries[1].ID != second.ID {
		t.Fatal("entries must be ordered by creation time")
	}
	if !view.IncomeTotal.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("incomeTotal = %s, want 500.00", view.IncomeTotal)
	}
	if !view.ExpenseTotal.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expenseTotal = %s, want 150.00", view.ExpenseTotal)
	}
	if !view.Net.Equal(decimal.RequireFromString("350.00")) {
		t.Fatalf("net = %s, want 350.00", view.Net)
	}
	if !view.Net.Equal(view.IncomeTotal.Sub(view.ExpenseTotal)) {
		t.Fatal("net must equal incomeTotal - expenseTotal")
	}
}

func TestDailyViewStableForEqualTimestamps(t *testing.T) {
	l, _ := newEntries(t)
	fixed := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	a := mustAdd(t, l, core.Income, "2024-01-05", "Shop sales", "1")
	b := mustAdd(t, l, core.Income, "2024-01-05", "Other income", "2")
	c := mustAdd(t, l, core.Expense, "2024-01-05", "Shop expenses", "3")

	view := l.DailyView("2024-01-05")
	got := []string{view.Entries[0].ID, view.Entries[1].ID, view.Entries[2].ID}
	want := []string{a.ID, b.ID, c.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s (insertion order must win ties)", i, got[i], want[i])
		}
	}
}

func TestRangeSummaryGroupsAndReconciles(t *testing.T) {
	l, _ := newEntries(t)

	mustAdd(t, l, core.Income, "2024-01-01", "Shop sales", "100")
	mustAdd(t, l, core.Income, "2024-01-02", "Shop sales", "50.50")
	mustAdd(t, l, core.Expense, "2024-01-02", "Shop expenses", "30")
	mustAdd(t, l, core.Expense, "2024-01-03", "Anjali", "20")
	mustAdd(t, l, core.Income, "2024-02-10", "Other income", "77") // outside range

	s := l.RangeSummary("2024-01-01", "2024-01-31")
	if !s.IncomeTotal.Equal(decimal.RequireFromString("150.50")) {
		t.Fatalf("incomeTotal = %s, want 150.50", s.IncomeTotal)
	}
	if !s.ExpenseTotal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expenseTotal = %s, want 50", s.ExpenseTotal)
	}
	if !s.Net.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("net = %s, want 100.50", s.Net)
	}

	// categories sorted lexicographically
	want := []string{"Anjali", "Shop expenses", "Shop sales"}
	if len(s.ByCategory) != len(want) {
		t.Fatalf("categories = %d, want %d", len(s.ByCategory), len(want))
	}
	for i, cs := range s.ByCategory {
		if cs.Category != want[i] {
			t.Fatalf("category[%d] = %s, want %s", i, cs.Category, want[i])
		}
	}

	// grand totals equal the sum of per-category subtotals
	income, expense := decimal.Zero, decimal.Zero
	for _, cs := range s.ByCategory {
		income = income.Add(cs.IncomeTotal)
		expense = expense.Add(cs.ExpenseTotal)
	}
	if !income.Equal(s.IncomeTotal) || !expense.Equal(s.ExpenseTotal) {
		t.Fatal("grand totals must reconcile with category subtotals")
	}
}

func TestRangeSummaryOpenEndedBounds(t *testing.T) {
	l, _ := newEntries(t)
	mustAdd(t, l, core.Income, "2020-06-01", "Shop sales", "1")
	mustAdd(t, l, core.Income, "2024-06-01", "Shop sales", "2")

	all := l.RangeSummary("", "")
	if !all.IncomeTotal.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("open range incomeTotal = %s, want 3", all.IncomeTotal)
	}
	upper := l.RangeSummary("2022-01-01", "")
	if !upper.IncomeTotal.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("half-open incomeTotal = %s, want 2", upper.IncomeTotal)
	}
}

func TestAddThenRemoveRestoresAggregates(t *testing.T) {
	l, _ := newEntries(t)
	mustAdd(t, l, core.Income, "2024-01-05", "Shop sales", "500")
	before := l.DailyView("2024-01-05")

	e := mustAdd(t, l, core.Expense, "2024-01-05", "Shop expenses", "123.45")
	if err := l.Remove(context.Background(), e.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	after := l.DailyView("2024-01-05")
	if !after.IncomeTotal.Equal(before.IncomeTotal) ||
		!after.ExpenseTotal.Equal(before.ExpenseTotal) ||
		!after.Net.Equal(before.Net) ||
		len(after.Entries) != len(before.Entries) {
		t.Fatal("add then remove must restore the prior aggregate state")
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	l, _ := newEntries(t)
	e := mustAdd(t, l, core.Income, "2024-01-05", "Shop sales", "500")

	updated, err := l.Update(context.Background(), e.ID, core.EntryPatch{
		Type:     core.Expense,
		Date:     "2024-01-06",
		Category: "Shop expenses",
		Amount:   decimal.NewFromInt(42),
		Note:     "reclassified",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != e.ID {
		t.Fatal("update must preserve id")
	}
	if !updated.CreatedAt.Equal(e.CreatedAt) {
		t.Fatal("update must preserve createdAt")
	}
	if updated.Type != core.Expense || updated.Date != "2024-01-06" || updated.Note != "reclassified" {
		t.Fatalf("mutable fields not replaced: %+v", updated)
	}
}

func TestUpdateAndRemoveMissingEntry(t *testing.T) {
	l, _ := newEntries(t)
	_, err := l.Update(context.Background(), "nope", core.EntryPatch{
		Type: core.Income, Date: "2024-01-05", Category: "Shop sales", Amount: decimal.NewFromInt(1),
	})
	if !core.IsNotFound(err) {
		t.Fatalf("update: expected NotFoundError, got %v", err)
	}
	if err := l.Remove(context.Background(), "nope"); !core.IsNotFound(err) {
		t.Fatalf("remove: expected NotFoundError, got %v", err)
	}
}

func TestAddValidatesBeforeMutation(t *testing.T) {
	l, _ := newEntries(t)
	_, err := l.Add(context.Background(), core.EntryPatch{
		Type: core.Income, Date: "2024-01-05", Category: "Shop sales", Amount: decimal.Zero,
	})
	if !core.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(l.DailyView("2024-01-05").Entries) != 0 {
		t.Fatal("failed validation must not mutate the ledger")
	}
}

func TestConcurrentAddAndDailyView(t *testing.T) {
	l, _ := newEntries(t)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := l.Add(context.Background(), core.EntryPatch{
				Type: core.Income, Date: "2024-01-05", Category: "Shop sales", Amount: decimal.NewFromInt(10),
			})
			if err != nil {
				t.Errorf("add entry: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			view := l.DailyView("2024-01-05")
			if !view.Net.Equal(view.IncomeTotal.Sub(view.ExpenseTotal)) {
				t.Error("net must equal incomeTotal - expenseTotal")
			}
		}()
	}
	wg.Wait()

	view := l.DailyView("2024-01-05")
	if len(view.Entries) != writers {
		t.Fatalf("entries = %d, want %d", len(view.Entries), writers)
	}
	if !view.IncomeTotal.Equal(decimal.NewFromInt(10 * writers)) {
		t.Fatalf("incomeTotal = %s, want %d", view.IncomeTotal, 10*writers)
	}
}

func TestEntriesSurviveReload(t *testing.T) {
	l, store := newEntries(t)
	mustAdd(t, l, core.Income, "2024-01-05", "Shop sales", "500")
	mustAdd(t, l, core.Expense, "2024-01-05", "Shop expenses", "150")

	reloaded, err := LoadEntries(context.Background(), store)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	view := reloaded.DailyView("2024-01-05")
	if len(view.Entries) != 2 {
		t.Fatalf("reloaded entries = %d, want 2", len(view.Entries))
	}
	if !view.Net.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("reloaded net = %s, want 350", view.Net)
	}
}

func TestPersistFailureSurfacesButKeepsMemory(t *testing.T) {
	l, _ := newEntries(t)
	l.store = failStore{l.store}

	_, err := l.Add(context.Background(), core.EntryPatch{
		Type: core.Income, Date: "2024-01-05", Category: "Shop sales", Amount: decimal.NewFromInt(10),
	})
	if !core.IsIO(err) {
		t.Fatalf("expected IOError, got %v", err)
	}
	// the in-memory state is already updated; the caller decides what to do
	if len(l.DailyView("2024-01-05").Entries) != 1 {
		t.Fatal("in-memory state must reflect the change despite persist failure")
	}
}
