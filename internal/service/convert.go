package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetly/internal/calculator"
	"github.com/mmynk/budgetly/internal/middleware"
	"github.com/mmynk/budgetly/internal/models"
	"github.com/mmynk/budgetly/internal/storage"
	"github.com/mmynk/budgetly/pkg/api"
)

var (
	errUnauthenticated = errors.New("authentication required")
	errTitleRequired   = errors.New("title required")
	errInvalidDate     = errors.New("dates must use the YYYY-MM-DD format")
)

// callerID returns the authenticated user, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}
	return userID, nil
}

// storeError maps storage sentinels to Connect codes.
func storeError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// validAmount rejects zero, negative, non-finite and oversized amounts.
func validAmount(a api.Amount) (float64, error) {
	f := a.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, invalidArgument("%w: amount must be positive", api.ErrInvalidAmount)
	}
	if f > calculator.MaxAmount {
		return 0, invalidArgument("%w: amount must not exceed %.0f", api.ErrInvalidAmount, calculator.MaxAmount)
	}
	return f, nil
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", connect.NewError(connect.CodeInvalidArgument, errTitleRequired)
	}
	return title, nil
}

// expenseDate validates a YYYY-MM-DD date, defaulting to today.
func expenseDate(date string, now time.Time) (string, error) {
	if date == "" {
		return now.Format(calculator.DateLayout), nil
	}
	if _, err := time.Parse(calculator.DateLayout, date); err != nil {
		return "", connect.NewError(connect.CodeInvalidArgument, errInvalidDate)
	}
	return date, nil
}

// optionalDate validates a YYYY-MM-DD bound that may be empty.
func optionalDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(calculator.DateLayout, date); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, errInvalidDate)
	}
	return nil
}

func toAPIProfile(p models.Profile) api.Profile {
	return api.Profile{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toAPIGroup(g *models.Group) api.Group {
	return api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toAPIMember(m models.GroupMember) api.GroupMember {
	return api.GroupMember{
		ID:       m.ID,
		GroupID:  m.GroupID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
		Profile:  toAPIProfile(m.Profile),
	}
}

func toAPIGroupExpense(e *models.GroupExpense) api.GroupExpense {
	splits := make([]api.GroupExpenseSplit, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.GroupExpenseSplit{
			ID:          s.ID,
			ExpenseID:   s.ExpenseID,
			UserID:      s.UserID,
			ShareAmount: s.ShareAmount,
		}
	}
	return api.GroupExpense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Title:       e.Title,
		Amount:      e.Amount,
		CategoryID:  e.CategoryID,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Splits:      splits,
	}
}

func fromAPISplits(in []api.SplitInput) []models.GroupExpenseSplit {
	splits := make([]models.GroupExpenseSplit, len(in))
	for i, s := range in {
		splits[i] = models.GroupExpenseSplit{
			UserID:      s.UserID,
			ShareAmount: s.ShareAmount.Float64(),
		}
	}
	return splits
}

func toAPIBalances(balances []calculator.MemberBalance) []api.MemberBalance {
	out := make([]api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = api.MemberBalance{
			UserID:  b.UserID,
			Profile: toAPIProfile(b.Profile),
			Paid:    calculator.RoundToCents(b.Paid),
			Owed:    calculator.RoundToCents(b.Owed),
			Balance: calculator.RoundToCents(b.Balance),
		}
	}
	return out
}

func toAPIDebts(debts []calculator.Debt) []api.Debt {
	out := make([]api.Debt, len(debts))
	for i, d := range debts {
		out[i] = api.Debt{
			From:   toAPIProfile(d.From),
			To:     toAPIProfile(d.To),
			Amount: d.Amount,
		}
	}
	return out
}

func toAPISkipped(skipped []calculator.SkippedReference) []api.SkippedReference {
	if len(skipped) == 0 {
		return nil
	}
	out := make([]api.SkippedReference, len(skipped))
	for i, s := range skipped {
		out[i] = api.SkippedReference{
			ExpenseID: s.ExpenseID,
			UserID:    s.UserID,
			Kind:      string(s.Kind),
			Amount:    s.Amount,
		}
	}
	return out
}

func toAPICategory(c *models.ExpenseCategory) api.ExpenseCategory {
	return api.ExpenseCategory{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Emoji:       c.Emoji,
		IsDefault:   c.IsDefault,
		OrderNumber: c.OrderNumber,
		CreatedAt:   c.CreatedAt,
	}
}

func toAPIPersonalExpense(e *models.PersonalExpense) api.PersonalExpense {
	out := api.PersonalExpense{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Amount:      e.Amount,
		CategoryID:  e.CategoryID,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Category != nil {
		category := toAPICategory(e.Category)
		out.Category = &category
	}
	return out
}
