package calculator

import (
	"cmp"
	"math"
	"slices"

	"github.com/mmynk/budgetly/internal/models"
)

const (
	// MinTransferAmount is the smallest transfer worth emitting as a debt.
	// Anything at or below it is dust and is dropped.
	MinTransferAmount = 0.01

	// SettledEpsilon is the remaining balance under which a debtor or creditor
	// is considered settled during matching.
	SettledEpsilon = 0.01
)

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	UserID  string
	Profile models.Profile
	Paid    float64 // Total amount advanced across all expenses
	Owed    float64 // Total of this member's shares
	Balance float64 // Paid - Owed. Positive = is owed money, negative = owes money
}

// Debt is a settlement transfer: From owes To the given Amount.
type Debt struct {
	From   models.Profile
	To     models.Profile
	Amount float64
}

// ReferenceKind tells which side of an expense pointed outside the roster.
type ReferenceKind string

const (
	ReferencePayer ReferenceKind = "payer"
	ReferenceSplit ReferenceKind = "split"
)

// SkippedReference records an amount dropped because its user is not in the roster.
type SkippedReference struct {
	ExpenseID string
	UserID    string
	Kind      ReferenceKind
	Amount    float64
}

// BalanceReport is the result of CalculateMemberBalancesReport.
type BalanceReport struct {
	Balances []MemberBalance
	Skipped  []SkippedReference
}

// CalculateMemberBalances aggregates what every roster member paid and owes.
//
// Algorithm:
//   - one zeroed entry per member, in roster order
//   - each expense adds its amount to the payer's Paid
//   - each split adds its share to that member's Owed
//   - Balance = Paid - Owed
//
// Payers and splits referencing users outside the roster are ignored.
func CalculateMemberBalances(expenses []models.GroupExpense, members []models.GroupMember) []MemberBalance {
	return CalculateMemberBalancesReport(expenses, members).Balances
}

// CalculateMemberBalancesReport is CalculateMemberBalances that also reports
// every payer or split reference it had to drop.
func CalculateMemberBalancesReport(expenses []models.GroupExpense, members []models.GroupMember) BalanceReport {
	balances := make([]MemberBalance, 0, len(members))
	index := make(map[string]int, len(members))

	for _, m := range members {
		if i, exists := index[m.UserID]; exists {
			// Duplicate roster entry: keep the first position.
			balances[i].Profile = m.Profile
			continue
		}
		index[m.UserID] = len(balances)
		balances = append(balances, MemberBalance{
			UserID:  m.UserID,
			Profile: m.Profile,
		})
	}

	var skipped []SkippedReference
	for _, expense := range expenses {
		if i, ok := index[expense.PayerID]; ok {
			balances[i].Paid += expense.Amount
		} else {
			skipped = append(skipped, SkippedReference{
				ExpenseID: expense.ID,
				UserID:    expense.PayerID,
				Kind:      ReferencePayer,
				Amount:    expense.Amount,
			})
		}

		for _, split := range expense.Splits {
			if i, ok := index[split.UserID]; ok {
				balances[i].Owed += split.ShareAmount
			} else {
				skipped = append(skipped, SkippedReference{
					ExpenseID: expense.ID,
					UserID:    split.UserID,
					Kind:      ReferenceSplit,
					Amount:    split.ShareAmount,
				})
			}
		}
	}

	for i := range balances {
		balances[i].Balance = balances[i].Paid - balances[i].Owed
	}

	return BalanceReport{Balances: balances, Skipped: skipped}
}

// CalculateDebts reduces balances to a list of transfers that settles everyone.
//
// Greedy matching: the largest debtor pays the largest creditor as much as
// possible, then whichever side is settled moves on. This is the usual debt
// simplification heuristic, not a minimum-transaction solver. Equal balances
// keep their input order, so the output is deterministic.
func CalculateDebts(balances []MemberBalance) []Debt {
	type position struct {
		profile   models.Profile
		remaining float64
	}

	var debtors, creditors []position
	for _, b := range balances {
		if math.IsNaN(b.Balance) || math.IsInf(b.Balance, 0) {
			continue
		}
		if b.Balance < 0 {
			debtors = append(debtors, position{profile: b.Profile, remaining: b.Balance})
		} else if b.Balance > 0 {
			creditors = append(creditors, position{profile: b.Profile, remaining: b.Balance})
		}
	}

	// Most negative first
	slices.SortStableFunc(debtors, func(a, b position) int {
		return cmp.Compare(a.remaining, b.remaining)
	})
	// Largest credit first
	slices.SortStableFunc(creditors, func(a, b position) int {
		return cmp.Compare(b.remaining, a.remaining)
	})

	debts := []Debt{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := math.Min(math.Abs(debtor.remaining), creditor.remaining)

		if amount > MinTransferAmount {
			debts = append(debts, Debt{
				From:   debtor.profile,
				To:     creditor.profile,
				Amount: RoundToCents(amount),
			})
		}

		debtor.remaining += amount
		creditor.remaining -= amount

		if math.Abs(debtor.remaining) < SettledEpsilon {
			i++
		}
		if creditor.remaining < SettledEpsilon {
			j++
		}
	}

	return debts
}

// RoundToCents rounds to 2 decimal places, halves away from zero.
func RoundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
