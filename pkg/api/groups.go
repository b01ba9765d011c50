package api

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type ListMembersRequest struct {
	GroupID string `json:"group_id"`
}

type ListMembersResponse struct {
	Members []GroupMember `json:"members"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Email   string `json:"email"`
}

type AddMemberResponse struct {
	Member GroupMember `json:"member"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type RemoveMemberResponse struct{}

// CreateGroupExpenseRequest records an expense paid by the caller.
// Splits win over BeneficiaryIDs; with only BeneficiaryIDs the amount is
// divided equally between them.
type CreateGroupExpenseRequest struct {
	GroupID        string       `json:"group_id"`
	Title          string       `json:"title"`
	Amount         Amount       `json:"amount"`
	CategoryID     string       `json:"category_id,omitempty"`
	ExpenseDate    string       `json:"expense_date,omitempty"`
	Splits         []SplitInput `json:"splits,omitempty"`
	BeneficiaryIDs []string     `json:"beneficiary_ids,omitempty"`
}

type CreateGroupExpenseResponse struct {
	Expense GroupExpense `json:"expense"`
}

// UpdateGroupExpenseRequest changes only the fields that are set.
// A non-nil Splits (even empty) replaces all splits.
type UpdateGroupExpenseRequest struct {
	ExpenseID   string       `json:"expense_id"`
	Title       *string      `json:"title,omitempty"`
	Amount      *Amount      `json:"amount,omitempty"`
	CategoryID  *string      `json:"category_id,omitempty"`
	ExpenseDate *string      `json:"expense_date,omitempty"`
	Splits      []SplitInput `json:"splits"`
}

type UpdateGroupExpenseResponse struct {
	Expense GroupExpense `json:"expense"`
}

type ListGroupExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupExpensesResponse struct {
	Expenses []GroupExpense `json:"expenses"`
}

type DeleteGroupExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteGroupExpenseResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Balances []MemberBalance    `json:"balances"`
	Debts    []Debt             `json:"debts"`
	Skipped  []SkippedReference `json:"skipped,omitempty"`
	// Settled is true when no debt remains.
	Settled bool `json:"settled"`
}

// SettleDebtRequest records that the caller paid ToUserID back.
type SettleDebtRequest struct {
	GroupID  string `json:"group_id"`
	ToUserID string `json:"to_user_id"`
	Amount   Amount `json:"amount"`
}

type SettleDebtResponse struct {
	Expense GroupExpense `json:"expense"`
}
