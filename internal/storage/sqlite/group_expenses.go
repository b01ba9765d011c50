package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/budgetly/internal/models"
	"github.com/mmynk/budgetly/internal/storage"
)

// CreateGroupExpense persists a group expense and its splits.
func (s *SQLiteStore) CreateGroupExpense(ctx context.Context, expense *models.GroupExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	expense.UpdatedAt = expense.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_expenses (id, group_id, payer_id, title, amount, category_id, expense_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.Title, expense.Amount,
		nullable(expense.CategoryID), expense.ExpenseDate, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expense *models.GroupExpense) error {
	for i := range expense.Splits {
		split := &expense.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID

		_, err := tx.ExecContext(ctx,
			"INSERT INTO group_expense_splits (id, expense_id, user_id, share_amount) VALUES (?, ?, ?, ?)",
			split.ID, split.ExpenseID, split.UserID, split.ShareAmount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// GetGroupExpense retrieves a group expense with its splits.
func (s *SQLiteStore) GetGroupExpense(ctx context.Context, expenseID string) (*models.GroupExpense, error) {
	expense := &models.GroupExpense{}
	var categoryID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, title, amount, category_id, expense_date, created_at, updated_at
		 FROM group_expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Title, &expense.Amount,
		&categoryID, &expense.ExpenseDate, &expense.CreatedAt, &expense.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group expense: %w", err)
	}
	expense.CategoryID = categoryID.String

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, expense_id, user_id, share_amount FROM group_expense_splits WHERE expense_id = ? ORDER BY rowid",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.GroupExpenseSplit
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &split.ShareAmount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return expense, nil
}

// UpdateGroupExpense updates an expense, replacing its splits when asked to.
func (s *SQLiteStore) UpdateGroupExpense(ctx context.Context, expense *models.GroupExpense, replaceSplits bool) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE group_expenses
		 SET title = ?, amount = ?, category_id = ?, expense_date = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Title, expense.Amount, nullable(expense.CategoryID), expense.ExpenseDate, expense.UpdatedAt,
		expense.ID,
	)
	if err := checkAffected("group expense", expense.ID, res, err); err != nil {
		return err
	}

	if replaceSplits {
		if _, err := tx.ExecContext(ctx, "DELETE FROM group_expense_splits WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to delete splits: %w", err)
		}
		if err := insertSplits(ctx, tx, expense); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListGroupExpenses retrieves a group's expenses with their splits,
// newest expense date first.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string) ([]models.GroupExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, title, amount, category_id, expense_date, created_at, updated_at
		 FROM group_expenses WHERE group_id = ?
		 ORDER BY expense_date DESC, created_at DESC, rowid DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.GroupExpense{}
	index := make(map[string]int)
	for rows.Next() {
		var expense models.GroupExpense
		var categoryID sql.NullString
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Title, &expense.Amount,
			&categoryID, &expense.ExpenseDate, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group expense: %w", err)
		}
		expense.CategoryID = categoryID.String
		index[expense.ID] = len(expenses)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group expenses: %w", err)
	}
	rows.Close()

	// Load all splits of the group in one query
	splitRows, err := s.db.QueryContext(ctx,
		`SELECT sp.id, sp.expense_id, sp.user_id, sp.share_amount
		 FROM group_expense_splits sp
		 JOIN group_expenses e ON e.id = sp.expense_id
		 WHERE e.group_id = ?
		 ORDER BY sp.rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var split models.GroupExpenseSplit
		if err := splitRows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &split.ShareAmount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if i, ok := index[split.ExpenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, split)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return expenses, nil
}

// DeleteGroupExpense removes an expense and its splits.
func (s *SQLiteStore) DeleteGroupExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM group_expenses WHERE id = ?", expenseID)
	return checkAffected("group expense", expenseID, res, err)
}
