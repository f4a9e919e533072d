package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		date string
		ok   bool
	}{
		{"2024-01-05", true},
		{"2024-12-31", true},
		{"", false},
		{"not-a-date", false},
		{"2024-13-01", false},
		{"05-01-2024", false},
	}
	for i, tc := range cases {
		err := ValidateDate(tc.date)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestEntryPatchValidate(t *testing.T) {
	good := EntryPatch{
		Type:     Expense,
		Date:     "2024-01-05",
		Category: "Shop expenses",
		Amount:   decimal.NewFromInt(150),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name  string
		patch EntryPatch
		field string
	}{
		{"bad type", EntryPatch{Type: "transfer", Date: "2024-01-05", Category: "Shop sales", Amount: decimal.NewFromInt(1)}, "type"},
		{"bad date", EntryPatch{Type: Income, Date: "yesterday", Category: "Shop sales", Amount: decimal.NewFromInt(1)}, "date"},
		{"empty category", EntryPatch{Type: Income, Date: "2024-01-05", Category: "", Amount: decimal.NewFromInt(1)}, "category"},
		{"category from wrong type", EntryPatch{Type: Income, Date: "2024-01-05", Category: "Shop expenses", Amount: decimal.NewFromInt(1)}, "category"},
		{"unknown category", EntryPatch{Type: Expense, Date: "2024-01-05", Category: "Groceries", Amount: decimal.NewFromInt(1)}, "category"},
		{"zero amount", EntryPatch{Type: Expense, Date: "2024-01-05", Category: "Shop expenses", Amount: decimal.Zero}, "amount"},
		{"negative amount", EntryPatch{Type: Expense, Date: "2024-01-05", Category: "Shop expenses", Amount: decimal.NewFromInt(-5)}, "amount"},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.patch.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			ve := err.(*ValidationError)
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory(Income, "Shop sales") {
		t.Fatal("Shop sales should be a valid income category")
	}
	if ValidCategory(Income, "Shop expenses") {
		t.Fatal("Shop expenses is expense-scoped, not income")
	}
	if ValidCategory(Expense, "nope") {
		t.Fatal("unknown category accepted")
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories(Income)
	if len(cats) == 0 {
		t.Fatal("expected income categories")
	}
	cats[0] = "mutated"
	if Categories(Income)[0] == "mutated" {
		t.Fatal("Categories must return a copy")
	}
}
