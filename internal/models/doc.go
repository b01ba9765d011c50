// Package models defines the core domain models for budgetly.
//
// # Models
//
//   - User / Profile: a registered identity and its public projection
//   - Group, GroupMember: a shared budget and its roster
//   - GroupExpense, GroupExpenseSplit: an expense advanced by one member and
//     the per-member shares it creates
//   - PersonalExpense, ExpenseCategory: the personal expense journal
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships use ID strings to avoid circular references
// 2. **Amounts are float64**: string coercion happens at the API boundary (see pkg/api)
// 3. **Dates are ISO strings**: expense dates are calendar days ("2006-01-02"), timestamps are Unix seconds
package models
