package models

// ExpenseCategory labels personal and group expenses.
// Default categories have no owner and are visible to everyone.
type ExpenseCategory struct {
	ID          string
	UserID      string // empty for default categories
	Name        string
	Emoji       string
	IsDefault   bool
	OrderNumber int
	CreatedAt   int64
}

// GroupExpense is an amount advanced by one member on behalf of the group.
//
// The payer advanced the full Amount; Splits describe who consumes which portion.
// An expense without splits only increases the payer's paid total.
type GroupExpense struct {
	ID          string
	GroupID     string
	PayerID     string
	Title       string
	Amount      float64
	CategoryID  string
	ExpenseDate string // YYYY-MM-DD
	CreatedAt   int64
	UpdatedAt   int64

	Splits []GroupExpenseSplit
}

// SplitTotal returns the sum of all share amounts.
func (e *GroupExpense) SplitTotal() float64 {
	var total float64
	for _, s := range e.Splits {
		total += s.ShareAmount
	}
	return total
}

// GroupExpenseSplit is the portion of one expense owed by one member.
type GroupExpenseSplit struct {
	ID          string
	ExpenseID   string
	UserID      string
	ShareAmount float64
}

// PersonalExpense is an entry of a user's private journal.
type PersonalExpense struct {
	ID          string
	UserID      string
	Title       string
	Amount      float64
	CategoryID  string
	ExpenseDate string // YYYY-MM-DD
	CreatedAt   int64
	UpdatedAt   int64

	// Category is populated when the expense is loaded with its category.
	Category *ExpenseCategory
}

// PersonalExpenseFilter restricts a journal listing to an inclusive date range.
// Empty bounds are open.
type PersonalExpenseFilter struct {
	StartDate string
	EndDate   string
}
