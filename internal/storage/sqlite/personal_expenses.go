package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/budgetly/internal/models"
	"github.com/mmynk/budgetly/internal/storage"
)

const categoryColumns = "id, user_id, name, emoji, is_default, order_number, created_at"

func scanCategory(scan func(...any) error) (models.ExpenseCategory, error) {
	var c models.ExpenseCategory
	var userID sql.NullString
	err := scan(&c.ID, &userID, &c.Name, &c.Emoji, &c.IsDefault, &c.OrderNumber, &c.CreatedAt)
	c.UserID = userID.String
	return c, err
}

// ListCategories retrieves default categories and the user's own, by order then name.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]models.ExpenseCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+` FROM expense_categories
		 WHERE is_default = 1 OR user_id = ?
		 ORDER BY is_default DESC, order_number, name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.ExpenseCategory{}
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, categoryID string) (*models.ExpenseCategory, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM expense_categories WHERE id = ?", categoryID)
	c, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// CreateCategory persists a user-owned category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.ExpenseCategory) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expense_categories ("+categoryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		category.ID, nullable(category.UserID), category.Name, category.Emoji,
		category.IsDefault, category.OrderNumber, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

// CreatePersonalExpense persists a journal entry.
func (s *SQLiteStore) CreatePersonalExpense(ctx context.Context, expense *models.PersonalExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	expense.UpdatedAt = expense.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO personal_expenses (id, user_id, title, amount, category_id, expense_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.UserID, expense.Title, expense.Amount, nullable(expense.CategoryID),
		expense.ExpenseDate, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert personal expense: %w", err)
	}

	return nil
}

const personalExpenseQuery = `
	SELECT e.id, e.user_id, e.title, e.amount, e.category_id, e.expense_date, e.created_at, e.updated_at,
	       c.id, c.user_id, c.name, c.emoji, c.is_default, c.order_number, c.created_at
	FROM personal_expenses e
	LEFT JOIN expense_categories c ON c.id = e.category_id`

func scanPersonalExpense(scan func(...any) error) (models.PersonalExpense, error) {
	var e models.PersonalExpense
	var categoryID sql.NullString
	var (
		catID, catUser, catName, catEmoji sql.NullString
		catDefault                        sql.NullBool
		catOrder, catCreated              sql.NullInt64
	)
	err := scan(
		&e.ID, &e.UserID, &e.Title, &e.Amount, &categoryID, &e.ExpenseDate, &e.CreatedAt, &e.UpdatedAt,
		&catID, &catUser, &catName, &catEmoji, &catDefault, &catOrder, &catCreated,
	)
	if err != nil {
		return e, err
	}
	e.CategoryID = categoryID.String
	if catID.Valid {
		e.Category = &models.ExpenseCategory{
			ID:          catID.String,
			UserID:      catUser.String,
			Name:        catName.String,
			Emoji:       catEmoji.String,
			IsDefault:   catDefault.Bool,
			OrderNumber: int(catOrder.Int64),
			CreatedAt:   catCreated.Int64,
		}
	}
	return e, nil
}

// GetPersonalExpense retrieves a journal entry with its category.
func (s *SQLiteStore) GetPersonalExpense(ctx context.Context, expenseID string) (*models.PersonalExpense, error) {
	row := s.db.QueryRowContext(ctx, personalExpenseQuery+" WHERE e.id = ?", expenseID)
	e, err := scanPersonalExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("personal expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personal expense: %w", err)
	}
	return &e, nil
}

// UpdatePersonalExpense overwrites a journal entry.
func (s *SQLiteStore) UpdatePersonalExpense(ctx context.Context, expense *models.PersonalExpense) error {
	expense.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE personal_expenses
		 SET title = ?, amount = ?, category_id = ?, expense_date = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Title, expense.Amount, nullable(expense.CategoryID), expense.ExpenseDate, expense.UpdatedAt,
		expense.ID,
	)
	return checkAffected("personal expense", expense.ID, res, err)
}

// DeletePersonalExpense removes a journal entry.
func (s *SQLiteStore) DeletePersonalExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM personal_expenses WHERE id = ?", expenseID)
	return checkAffected("personal expense", expenseID, res, err)
}

// ListPersonalExpenses retrieves a user's journal entries in an inclusive date range.
func (s *SQLiteStore) ListPersonalExpenses(ctx context.Context, userID string, filter models.PersonalExpenseFilter) ([]models.PersonalExpense, error) {
	where := []string{"e.user_id = ?"}
	args := []any{userID}
	if filter.StartDate != "" {
		where = append(where, "e.expense_date >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		where = append(where, "e.expense_date <= ?")
		args = append(args, filter.EndDate)
	}

	rows, err := s.db.QueryContext(ctx,
		personalExpenseQuery+" WHERE "+strings.Join(where, " AND ")+
			" ORDER BY e.expense_date DESC, e.created_at DESC, e.rowid DESC",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list personal expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.PersonalExpense{}
	for rows.Next() {
		e, err := scanPersonalExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan personal expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate personal expenses: %w", err)
	}

	return expenses, nil
}

// RecentTitles retrieves the latest distinct titles of a user's entries in a category.
// Titles differing only by ASCII case count as one; the latest spelling wins.
func (s *SQLiteStore) RecentTitles(ctx context.Context, userID, categoryID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM personal_expenses
		 WHERE rowid IN (
			SELECT MAX(rowid) FROM personal_expenses
			WHERE user_id = ? AND category_id = ?
			GROUP BY lower(trim(title))
		 )
		 ORDER BY rowid DESC
		 LIMIT ?`,
		userID, categoryID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent titles: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate titles: %w", err)
	}

	return titles, nil
}
