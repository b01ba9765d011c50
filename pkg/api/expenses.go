package api

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []ExpenseCategory `json:"categories"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type CreateCategoryResponse struct {
	Category ExpenseCategory `json:"category"`
}

type CreatePersonalExpenseRequest struct {
	Title       string `json:"title"`
	Amount      Amount `json:"amount"`
	CategoryID  string `json:"category_id,omitempty"`
	ExpenseDate string `json:"expense_date,omitempty"`
}

type CreatePersonalExpenseResponse struct {
	Expense PersonalExpense `json:"expense"`
}

type GetPersonalExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetPersonalExpenseResponse struct {
	Expense PersonalExpense `json:"expense"`
}

// UpdatePersonalExpenseRequest changes only the fields that are set.
type UpdatePersonalExpenseRequest struct {
	ExpenseID   string  `json:"expense_id"`
	Title       *string `json:"title,omitempty"`
	Amount      *Amount `json:"amount,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	ExpenseDate *string `json:"expense_date,omitempty"`
}

type UpdatePersonalExpenseResponse struct {
	Expense PersonalExpense `json:"expense"`
}

type DeletePersonalExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeletePersonalExpenseResponse struct{}

type ListPersonalExpensesRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type ListPersonalExpensesResponse struct {
	Expenses []PersonalExpense `json:"expenses"`
}

type ListPersonalExpensesByMonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type GetExpenseTotalsRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type GetExpenseTotalsResponse struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"by_category"`
}

type GetJournalRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// JournalDay is one date of the journal with its display labels.
type JournalDay struct {
	Date           string            `json:"date"`
	Label          string            `json:"label"`
	Total          float64           `json:"total"`
	FormattedTotal string            `json:"formatted_total"`
	Expenses       []PersonalExpense `json:"expenses"`
}

type GetJournalResponse struct {
	Days           []JournalDay `json:"days"`
	Total          float64      `json:"total"`
	FormattedTotal string       `json:"formatted_total"`
}

type SuggestTitlesRequest struct {
	CategoryID string `json:"category_id"`
}

type SuggestTitlesResponse struct {
	Titles []string `json:"titles"`
}
