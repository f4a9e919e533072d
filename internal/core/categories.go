package core

// Category vocabulary is fixed and scoped by entry type. The UI renders these
// as buttons and the ledger rejects anything outside the list for the type.
var categoryConfig = map[EntryType][]string{
	Income: {
		"Shop sales",
		"Other income",
		"Loan repayment received",
		"Bank deposit (money in)",
	},
	Expense: {
		"Shop expenses",
		"House (Mom)",
		"Home (Aunty)",
		"Anjali",
		"Hrishant",
		"Abhinav",
		"Sani",
		"Store expenses",
		"Bank withdrawal (money out)",
		"Interest paid",
		"Loan paid",
		"Other expense",
	},
}

// Categories returns the vocabulary for an entry type. The returned slice is a
// copy; callers may reorder it freely.
func Categories(t EntryType) []string {
	return append([]string(nil), categoryConfig[t]...)
}

// ValidCategory reports whether category belongs to the vocabulary for t.
func ValidCategory(t EntryType, category string) bool {
	for _, c := range categoryConfig[t] {
		if c == category {
			return true
		}
	}
	return false
}
