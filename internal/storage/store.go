// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/budgetly/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique record is inserted twice.
	ErrAlreadyExists = errors.New("already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail matches the email case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// SearchUsers returns up to limit profiles whose email contains query.
	SearchUsers(ctx context.Context, query string, limit int) ([]models.Profile, error)
}

// GroupStore persists groups, their rosters and their expenses.
type GroupStore interface {
	// CreateGroup persists a new group and makes group.CreatedBy its admin.
	// The group.ID field will be populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	// ListGroupsForUser returns the groups userID belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error

	// ListMembers returns the roster with profiles, in join order.
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)
	GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)
	AddMember(ctx context.Context, member *models.GroupMember) error
	RemoveMember(ctx context.Context, groupID, userID string) error

	// CreateGroupExpense persists the expense and its splits atomically.
	CreateGroupExpense(ctx context.Context, expense *models.GroupExpense) error
	GetGroupExpense(ctx context.Context, expenseID string) (*models.GroupExpense, error)
	// UpdateGroupExpense updates the expense fields, and replaces its splits
	// when replaceSplits is set.
	UpdateGroupExpense(ctx context.Context, expense *models.GroupExpense, replaceSplits bool) error
	// ListGroupExpenses returns expenses with their splits, newest expense date first.
	ListGroupExpenses(ctx context.Context, groupID string) ([]models.GroupExpense, error)
	DeleteGroupExpense(ctx context.Context, expenseID string) error
}

// ExpenseStore persists the personal journal and expense categories.
type ExpenseStore interface {
	// ListCategories returns default categories plus those owned by userID.
	ListCategories(ctx context.Context, userID string) ([]models.ExpenseCategory, error)
	GetCategory(ctx context.Context, categoryID string) (*models.ExpenseCategory, error)
	CreateCategory(ctx context.Context, category *models.ExpenseCategory) error

	CreatePersonalExpense(ctx context.Context, expense *models.PersonalExpense) error
	GetPersonalExpense(ctx context.Context, expenseID string) (*models.PersonalExpense, error)
	UpdatePersonalExpense(ctx context.Context, expense *models.PersonalExpense) error
	DeletePersonalExpense(ctx context.Context, expenseID string) error
	// ListPersonalExpenses returns userID's expenses in the filter range, newest first.
	ListPersonalExpenses(ctx context.Context, userID string, filter models.PersonalExpenseFilter) ([]models.PersonalExpense, error)
	// RecentTitles returns up to limit distinct titles userID used in
	// categoryID, most recently recorded first.
	RecentTitles(ctx context.Context, userID, categoryID string, limit int) ([]string, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
