package core

import "github.com/shopspring/decimal"

// DailyView is a single day's entries with running totals, ordered by
// creation time.
type DailyView struct {
	Date         string          `json:"date"`
	Entries      []Entry         `json:"entries"`
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	Net          decimal.Decimal `json:"net"`
}

// CategorySummary is the income/expense subtotal for one category inside a
// date range.
type CategorySummary struct {
	Category     string          `json:"category"`
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	Net          decimal.Decimal `json:"net"`
}

// RangeSummary aggregates an inclusive date range, grouped by category in
// lexicographic order for deterministic output.
type RangeSummary struct {
	From         string            `json:"from"`
	To           string            `json:"to"`
	IncomeTotal  decimal.Decimal   `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal   `json:"expenseTotal"`
	Net          decimal.Decimal   `json:"net"`
	ByCategory   []CategorySummary `json:"byCategory"`
}
