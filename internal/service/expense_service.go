package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetly/internal/calculator"
	"github.com/mmynk/budgetly/internal/models"
	"github.com/mmynk/budgetly/internal/storage"
	"github.com/mmynk/budgetly/pkg/api"
	"github.com/mmynk/budgetly/pkg/api/apiconnect"
)

const (
	// UncategorizedLabel is the GetExpenseTotals bucket of expenses without category.
	UncategorizedLabel = "Autres"

	// SuggestTitlesLimit caps the titles returned by SuggestTitles.
	SuggestTitlesLimit = 5
)

var (
	errNotOwner       = errors.New("expense belongs to another user")
	errCategoryAccess = errors.New("category belongs to another user")
	errInvalidMonth   = errors.New("month must be between 1 and 12")
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService: the caller's private
// expense journal and its categories.
type ExpenseService struct {
	store    storage.ExpenseStore
	currency string
	logger   *slog.Logger
	now      func() time.Time
}

// NewExpenseService creates an ExpenseService formatting totals in currencyCode
// unless a request names another currency.
func NewExpenseService(store storage.ExpenseStore, currencyCode string, logger *slog.Logger) *ExpenseService {
	if currencyCode == "" {
		currencyCode = calculator.DefaultCurrency
	}
	return &ExpenseService{
		store:    store,
		currency: currencyCode,
		logger:   logger,
		now:      time.Now,
	}
}

// ListCategories returns the default categories and the caller's own.
func (s *ExpenseService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		s.logger.Error("ListCategories failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}

	out := make([]api.ExpenseCategory, len(categories))
	for i := range categories {
		out[i] = toAPICategory(&categories[i])
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

// CreateCategory adds a private category after the caller's existing ones.
func (s *ExpenseService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	existing, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	order := 0
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return nil, connect.NewError(connect.CodeAlreadyExists, storage.ErrAlreadyExists)
		}
		order = max(order, c.OrderNumber)
	}

	category := &models.ExpenseCategory{
		UserID:      userID,
		Name:        name,
		Emoji:       strings.TrimSpace(req.Msg.Emoji),
		OrderNumber: order + 1,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		s.logger.Error("CreateCategory failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Category created", "user_id", userID, "category_id", category.ID)
	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

// checkCategory verifies the caller may file expenses under categoryID.
func (s *ExpenseService) checkCategory(ctx context.Context, userID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	category, err := s.store.GetCategory(ctx, categoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return invalidArgument("unknown category %s", categoryID)
	}
	if err != nil {
		return storeError(err)
	}
	if !category.IsDefault && category.UserID != userID {
		return connect.NewError(connect.CodePermissionDenied, errCategoryAccess)
	}
	return nil
}

// ownedExpense loads a journal entry of the caller.
func (s *ExpenseService) ownedExpense(ctx context.Context, expenseID string) (*models.PersonalExpense, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if expenseID == "" {
		return nil, invalidArgument("expense_id required")
	}

	expense, err := s.store.GetPersonalExpense(ctx, expenseID)
	if err != nil {
		return nil, storeError(err)
	}
	if expense.UserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}
	return expense, nil
}

// CreatePersonalExpense adds an entry to the caller's journal.
func (s *ExpenseService) CreatePersonalExpense(ctx context.Context, req *connect.Request[api.CreatePersonalExpenseRequest]) (*connect.Response[api.CreatePersonalExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	title, err := validTitle(req.Msg.Title)
	if err != nil {
		return nil, err
	}
	amount, err := validAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	date, err := expenseDate(req.Msg.ExpenseDate, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, req.Msg.CategoryID); err != nil {
		return nil, err
	}

	expense := &models.PersonalExpense{
		UserID:      userID,
		Title:       title,
		Amount:      amount,
		CategoryID:  req.Msg.CategoryID,
		ExpenseDate: date,
	}
	if err := s.store.CreatePersonalExpense(ctx, expense); err != nil {
		s.logger.Error("CreatePersonalExpense failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}

	// Reload to return the joined category
	created, err := s.store.GetPersonalExpense(ctx, expense.ID)
	if err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("Personal expense created", "user_id", userID, "expense_id", created.ID)
	return connect.NewResponse(&api.CreatePersonalExpenseResponse{Expense: toAPIPersonalExpense(created)}), nil
}

// GetPersonalExpense returns one of the caller's entries.
func (s *ExpenseService) GetPersonalExpense(ctx context.Context, req *connect.Request[api.GetPersonalExpenseRequest]) (*connect.Response[api.GetPersonalExpenseResponse], error) {
	expense, err := s.ownedExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetPersonalExpenseResponse{Expense: toAPIPersonalExpense(expense)}), nil
}

// UpdatePersonalExpense changes the fields set in the request.
// An empty CategoryID clears the category.
func (s *ExpenseService) UpdatePersonalExpense(ctx context.Context, req *connect.Request[api.UpdatePersonalExpenseRequest]) (*connect.Response[api.UpdatePersonalExpenseResponse], error) {
	expense, err := s.ownedExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	if req.Msg.Title != nil {
		if expense.Title, err = validTitle(*req.Msg.Title); err != nil {
			return nil, err
		}
	}
	if req.Msg.Amount != nil {
		if expense.Amount, err = validAmount(*req.Msg.Amount); err != nil {
			return nil, err
		}
	}
	if req.Msg.ExpenseDate != nil {
		if expense.ExpenseDate, err = expenseDate(*req.Msg.ExpenseDate, s.now()); err != nil {
			return nil, err
		}
	}
	if req.Msg.CategoryID != nil {
		if err := s.checkCategory(ctx, expense.UserID, *req.Msg.CategoryID); err != nil {
			return nil, err
		}
		expense.CategoryID = *req.Msg.CategoryID
	}

	if err := s.store.UpdatePersonalExpense(ctx, expense); err != nil {
		s.logger.Error("UpdatePersonalExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storeError(err)
	}

	updated, err := s.store.GetPersonalExpense(ctx, expense.ID)
	if err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("Personal expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdatePersonalExpenseResponse{Expense: toAPIPersonalExpense(updated)}), nil
}

// DeletePersonalExpense removes one of the caller's entries.
func (s *ExpenseService) DeletePersonalExpense(ctx context.Context, req *connect.Request[api.DeletePersonalExpenseRequest]) (*connect.Response[api.DeletePersonalExpenseResponse], error) {
	expense, err := s.ownedExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeletePersonalExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeletePersonalExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Personal expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&api.DeletePersonalExpenseResponse{}), nil
}

// listRange loads the caller's entries between two optional dates.
func (s *ExpenseService) listRange(ctx context.Context, startDate, endDate string) ([]models.PersonalExpense, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := optionalDate(startDate); err != nil {
		return nil, err
	}
	if err := optionalDate(endDate); err != nil {
		return nil, err
	}
	if startDate != "" && endDate != "" && startDate > endDate {
		return nil, invalidArgument("start_date %s is after end_date %s", startDate, endDate)
	}

	expenses, err := s.store.ListPersonalExpenses(ctx, userID, models.PersonalExpenseFilter{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		s.logger.Error("ListPersonalExpenses failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}
	return expenses, nil
}

func toAPIPersonalExpenses(expenses []models.PersonalExpense) []api.PersonalExpense {
	out := make([]api.PersonalExpense, len(expenses))
	for i := range expenses {
		out[i] = toAPIPersonalExpense(&expenses[i])
	}
	return out
}

// ListPersonalExpenses returns the caller's entries, newest first.
func (s *ExpenseService) ListPersonalExpenses(ctx context.Context, req *connect.Request[api.ListPersonalExpensesRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error) {
	expenses, err := s.listRange(ctx, req.Msg.StartDate, req.Msg.EndDate)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListPersonalExpensesResponse{Expenses: toAPIPersonalExpenses(expenses)}), nil
}

// monthRange returns the first and last day of a calendar month.
func monthRange(year, month int) (string, string, error) {
	if month < 1 || month > 12 {
		return "", "", connect.NewError(connect.CodeInvalidArgument, errInvalidMonth)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(calculator.DateLayout), last.Format(calculator.DateLayout), nil
}

// ListPersonalExpensesByMonth returns the caller's entries of one month.
func (s *ExpenseService) ListPersonalExpensesByMonth(ctx context.Context, req *connect.Request[api.ListPersonalExpensesByMonthRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error) {
	start, end, err := monthRange(req.Msg.Year, req.Msg.Month)
	if err != nil {
		return nil, err
	}
	expenses, err := s.listRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListPersonalExpensesResponse{Expenses: toAPIPersonalExpenses(expenses)}), nil
}

// GetExpenseTotals sums the caller's entries in a date range, overall and
// per category name.
func (s *ExpenseService) GetExpenseTotals(ctx context.Context, req *connect.Request[api.GetExpenseTotalsRequest]) (*connect.Response[api.GetExpenseTotalsResponse], error) {
	expenses, err := s.listRange(ctx, req.Msg.StartDate, req.Msg.EndDate)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)

		name := UncategorizedLabel
		if e.Category != nil {
			name = e.Category.Name
		}
		byCategory[name] = byCategory[name].Add(amount)
	}

	out := make(map[string]float64, len(byCategory))
	for name, sum := range byCategory {
		out[name] = sum.Round(2).InexactFloat64()
	}

	return connect.NewResponse(&api.GetExpenseTotalsResponse{
		Total:      total.Round(2).InexactFloat64(),
		ByCategory: out,
	}), nil
}

// GetJournal returns the caller's entries grouped by day, newest day first,
// with display labels ("Aujourd'hui", "Hier", "lundi 5 janvier") and
// formatted totals.
func (s *ExpenseService) GetJournal(ctx context.Context, req *connect.Request[api.GetJournalRequest]) (*connect.Response[api.GetJournalResponse], error) {
	expenses, err := s.listRange(ctx, req.Msg.StartDate, req.Msg.EndDate)
	if err != nil {
		return nil, err
	}

	currencyCode := s.currency
	if req.Msg.Currency != "" {
		currencyCode = strings.ToUpper(req.Msg.Currency)
	}
	now := s.now()

	groups := calculator.GroupExpensesByDate(expenses, func(e models.PersonalExpense) string {
		return e.ExpenseDate
	})

	days := make([]api.JournalDay, len(groups))
	total := decimal.Zero
	for i, group := range groups {
		dayTotal := decimal.Zero
		for _, e := range group.Items {
			dayTotal = dayTotal.Add(decimal.NewFromFloat(e.Amount))
		}
		total = total.Add(dayTotal)

		amount := dayTotal.Round(2).InexactFloat64()
		days[i] = api.JournalDay{
			Date:           group.Date,
			Label:          calculator.FormatDate(group.Date, now),
			Total:          amount,
			FormattedTotal: calculator.FormatCurrency(amount, currencyCode),
			Expenses:       toAPIPersonalExpenses(group.Items),
		}
	}

	grandTotal := total.Round(2).InexactFloat64()
	return connect.NewResponse(&api.GetJournalResponse{
		Days:           days,
		Total:          grandTotal,
		FormattedTotal: calculator.FormatCurrency(grandTotal, currencyCode),
	}), nil
}

// SuggestTitles returns the titles the caller recently used in a category,
// to prefill the title of a new entry. Without a category there is nothing
// to suggest.
func (s *ExpenseService) SuggestTitles(ctx context.Context, req *connect.Request[api.SuggestTitlesRequest]) (*connect.Response[api.SuggestTitlesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	categoryID := req.Msg.CategoryID
	if categoryID == "" {
		return connect.NewResponse(&api.SuggestTitlesResponse{Titles: []string{}}), nil
	}
	if err := s.checkCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}

	titles, err := s.store.RecentTitles(ctx, userID, categoryID, SuggestTitlesLimit)
	if err != nil {
		s.logger.Error("SuggestTitles failed", "user_id", userID, "category_id", categoryID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.SuggestTitlesResponse{Titles: titles}), nil
}
