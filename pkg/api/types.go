package api

// Profile is the public identity of a user.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
	UpdatedAt   int64  `json:"updated_at,omitempty"`
}

type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type GroupMember struct {
	ID       string  `json:"id"`
	GroupID  string  `json:"group_id"`
	UserID   string  `json:"user_id"`
	Role     string  `json:"role"`
	JoinedAt int64   `json:"joined_at"`
	Profile  Profile `json:"profile"`
}

type GroupExpenseSplit struct {
	ID          string  `json:"id,omitempty"`
	ExpenseID   string  `json:"expense_id,omitempty"`
	UserID      string  `json:"user_id"`
	ShareAmount float64 `json:"share_amount"`
}

type GroupExpense struct {
	ID          string              `json:"id"`
	GroupID     string              `json:"group_id"`
	PayerID     string              `json:"payer_id"`
	Title       string              `json:"title"`
	Amount      float64             `json:"amount"`
	CategoryID  string              `json:"category_id,omitempty"`
	ExpenseDate string              `json:"expense_date"`
	CreatedAt   int64               `json:"created_at"`
	UpdatedAt   int64               `json:"updated_at"`
	Splits      []GroupExpenseSplit `json:"splits"`
}

// SplitInput is one requested share of a group expense.
type SplitInput struct {
	UserID      string `json:"user_id"`
	ShareAmount Amount `json:"share_amount"`
}

type MemberBalance struct {
	UserID  string  `json:"user_id"`
	Profile Profile `json:"profile"`
	Paid    float64 `json:"paid"`
	Owed    float64 `json:"owed"`
	Balance float64 `json:"balance"`
}

type Debt struct {
	From   Profile `json:"from"`
	To     Profile `json:"to"`
	Amount float64 `json:"amount"`
}

// SkippedReference is an expense amount ignored because its user left the group.
type SkippedReference struct {
	ExpenseID string  `json:"expense_id"`
	UserID    string  `json:"user_id"`
	Kind      string  `json:"kind"`
	Amount    float64 `json:"amount"`
}

type ExpenseCategory struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id,omitempty"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	IsDefault   bool   `json:"is_default"`
	OrderNumber int    `json:"order_number"`
	CreatedAt   int64  `json:"created_at"`
}

type PersonalExpense struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Title       string           `json:"title"`
	Amount      float64          `json:"amount"`
	CategoryID  string           `json:"category_id,omitempty"`
	ExpenseDate string           `json:"expense_date"`
	CreatedAt   int64            `json:"created_at"`
	UpdatedAt   int64            `json:"updated_at"`
	Category    *ExpenseCategory `json:"category,omitempty"`
}
