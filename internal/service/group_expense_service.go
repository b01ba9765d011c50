package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/budgetly/internal/calculator"
	"github.com/mmynk/budgetly/internal/models"
	"github.com/mmynk/budgetly/internal/storage"
	"github.com/mmynk/budgetly/pkg/api"
)

// SettlementTitle is the title of expenses recorded by SettleDebt.
const SettlementTitle = "Remboursement"

var (
	errPayerOrAdmin = errors.New("only the payer or a group admin can change this expense")
	errSelfSettle   = errors.New("cannot settle a debt with yourself")
)

// rosterIDs returns the user IDs currently in the group.
func (s *GroupService) rosterIDs(ctx context.Context, groupID string) ([]string, map[string]bool, error) {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(members))
	set := make(map[string]bool, len(members))
	for i, m := range members {
		ids[i] = m.UserID
		set[m.UserID] = true
	}
	return ids, set, nil
}

// buildSplits turns explicit shares, or beneficiaries to split equally
// between, into validated splits. With neither, the whole roster shares.
func (s *GroupService) buildSplits(ctx context.Context, groupID string, amount float64, shares []api.SplitInput, beneficiaries []string) ([]models.GroupExpenseSplit, error) {
	ids, roster, err := s.rosterIDs(ctx, groupID)
	if err != nil {
		return nil, storeError(err)
	}

	var splits []models.GroupExpenseSplit
	switch {
	case len(shares) > 0:
		splits = fromAPISplits(shares)
		if err := calculator.ValidateSplits(amount, splits); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	case len(beneficiaries) > 0:
		splits, err = calculator.SplitEqually(amount, beneficiaries)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	default:
		splits, err = calculator.SplitEqually(amount, ids)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	for _, split := range splits {
		if !roster[split.UserID] {
			return nil, invalidArgument("split user %s is not a member of this group", split.UserID)
		}
	}
	return splits, nil
}

// loadEditableExpense loads an expense the caller may change.
func (s *GroupService) loadEditableExpense(ctx context.Context, expenseID string) (*models.GroupExpense, error) {
	if expenseID == "" {
		return nil, invalidArgument("expense_id required")
	}
	expense, err := s.store.GetGroupExpense(ctx, expenseID)
	if err != nil {
		return nil, storeError(err)
	}

	member, err := s.requireMember(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if expense.PayerID != member.UserID && !member.IsAdmin() {
		return nil, connect.NewError(connect.CodePermissionDenied, errPayerOrAdmin)
	}
	return expense, nil
}

// checkCategory verifies that categoryID exists, when set.
func (s *GroupService) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return invalidArgument("unknown category %s", categoryID)
		}
		return storeError(err)
	}
	return nil
}

// CreateGroupExpense records an expense paid by the caller.
func (s *GroupService) CreateGroupExpense(ctx context.Context, req *connect.Request[api.CreateGroupExpenseRequest]) (*connect.Response[api.CreateGroupExpenseResponse], error) {
	member, err := s.requireMember(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroupExpense request received",
		"group_id", req.Msg.GroupID,
		"payer_id", member.UserID,
		"splits_count", len(req.Msg.Splits),
	)

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
	if err := s.checkCategory(ctx, req.Msg.CategoryID); err != nil {
		return nil, err
	}

	splits, err := s.buildSplits(ctx, req.Msg.GroupID, amount, req.Msg.Splits, req.Msg.BeneficiaryIDs)
	if err != nil {
		return nil, err
	}

	expense := &models.GroupExpense{
		GroupID:     req.Msg.GroupID,
		PayerID:     member.UserID,
		Title:       title,
		Amount:      amount,
		CategoryID:  req.Msg.CategoryID,
		ExpenseDate: date,
		Splits:      splits,
	}
	if err := s.store.CreateGroupExpense(ctx, expense); err != nil {
		s.logger.Error("CreateGroupExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx, req.Msg.GroupID)

	s.logger.Info("Group expense created", "group_id", expense.GroupID, "expense_id", expense.ID)
	return connect.NewResponse(&api.CreateGroupExpenseResponse{Expense: toAPIGroupExpense(expense)}), nil
}

// UpdateGroupExpense changes the fields set in the request.
// Splits kept from before must still fit in a reduced amount.
func (s *GroupService) UpdateGroupExpense(ctx context.Context, req *connect.Request[api.UpdateGroupExpenseRequest]) (*connect.Response[api.UpdateGroupExpenseResponse], error) {
	expense, err := s.loadEditableExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateGroupExpense request received", "expense_id", expense.ID, "group_id", expense.GroupID)

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
		if err := s.checkCategory(ctx, *req.Msg.CategoryID); err != nil {
			return nil, err
		}
		expense.CategoryID = *req.Msg.CategoryID
	}

	replaceSplits := req.Msg.Splits != nil
	if replaceSplits {
		expense.Splits, err = s.buildSplits(ctx, expense.GroupID, expense.Amount, req.Msg.Splits, nil)
		if err != nil {
			return nil, err
		}
	} else if err := calculator.ValidateSplits(expense.Amount, expense.Splits); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.UpdateGroupExpense(ctx, expense, replaceSplits); err != nil {
		s.logger.Error("UpdateGroupExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx, expense.GroupID)

	s.logger.Info("Group expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateGroupExpenseResponse{Expense: toAPIGroupExpense(expense)}), nil
}

// ListGroupExpenses returns the group's expenses, newest first.
func (s *GroupService) ListGroupExpenses(ctx context.Context, req *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error) {
	if _, err := s.requireMember(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListGroupExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListGroupExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	out := make([]api.GroupExpense, len(expenses))
	for i := range expenses {
		out[i] = toAPIGroupExpense(&expenses[i])
	}
	return connect.NewResponse(&api.ListGroupExpensesResponse{Expenses: out}), nil
}

// DeleteGroupExpense removes an expense and its splits.
func (s *GroupService) DeleteGroupExpense(ctx context.Context, req *connect.Request[api.DeleteGroupExpenseRequest]) (*connect.Response[api.DeleteGroupExpenseResponse], error) {
	expense, err := s.loadEditableExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroupExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeleteGroupExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx, expense.GroupID)

	s.logger.Info("Group expense deleted", "expense_id", expense.ID, "group_id", expense.GroupID)
	return connect.NewResponse(&api.DeleteGroupExpenseResponse{}), nil
}

// GetGroupBalances computes who owes what in the group and the transfers
// that settle it.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	if _, err := s.requireMember(ctx, groupID); err != nil {
		return nil, err
	}
	s.logger.Info("GetGroupBalances request received", "group_id", groupID)

	cached := &api.GetGroupBalancesResponse{}
	found, err := s.balances.Get(ctx, groupID, cached)
	if err != nil {
		s.logger.Warn("Balance cache read failed", "group_id", groupID, "error", err)
	}
	if found {
		s.logger.Debug("GetGroupBalances served from cache", "group_id", groupID)
		return connect.NewResponse(cached), nil
	}

	// Read before loading, so a concurrent mutation makes the write below a no-op
	version, err := s.balances.Version(ctx, groupID)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("Balance cache version read failed", "group_id", groupID, "error", err)
	}

	var (
		members  []models.GroupMember
		expenses []models.GroupExpense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if members, err = s.store.ListMembers(gctx, groupID); err != nil {
			return fmt.Errorf("load members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if expenses, err = s.store.ListGroupExpenses(gctx, groupID); err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	report := calculator.CalculateMemberBalancesReport(expenses, members)
	debts := calculator.CalculateDebts(report.Balances)
	if len(report.Skipped) > 0 {
		s.logger.Warn("Expenses reference users outside the roster",
			"group_id", groupID,
			"skipped_count", len(report.Skipped),
		)
	}

	resp := &api.GetGroupBalancesResponse{
		Balances: toAPIBalances(report.Balances),
		Debts:    toAPIDebts(debts),
		Skipped:  toAPISkipped(report.Skipped),
		Settled:  len(debts) == 0,
	}
	if cacheable {
		stored, err := s.balances.Set(ctx, groupID, version, resp)
		switch {
		case err != nil:
			s.logger.Warn("Balance cache write failed", "group_id", groupID, "error", err)
		case !stored:
			s.logger.Debug("Group changed while computing balances, not cached", "group_id", groupID)
		}
	}

	s.logger.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"members_count", len(report.Balances),
		"debts_count", len(debts),
	)
	return connect.NewResponse(resp), nil
}

// SettleDebt records that the caller paid ToUserID back: an expense paid by
// the caller whose only share belongs to the creditor.
func (s *GroupService) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	member, err := s.requireMember(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if req.Msg.ToUserID == "" {
		return nil, invalidArgument("to_user_id required")
	}
	if req.Msg.ToUserID == member.UserID {
		return nil, connect.NewError(connect.CodeInvalidArgument, errSelfSettle)
	}
	amount, err := validAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SettleDebt request received",
		"group_id", req.Msg.GroupID,
		"from", member.UserID,
		"to", req.Msg.ToUserID,
		"amount", amount,
	)

	if _, err := s.store.GetMember(ctx, req.Msg.GroupID, req.Msg.ToUserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, invalidArgument("user %s is not a member of this group", req.Msg.ToUserID)
		}
		return nil, storeError(err)
	}

	expense := &models.GroupExpense{
		GroupID:     req.Msg.GroupID,
		PayerID:     member.UserID,
		Title:       SettlementTitle,
		Amount:      calculator.RoundToCents(amount),
		ExpenseDate: s.now().Format(calculator.DateLayout),
		Splits: []models.GroupExpenseSplit{
			{UserID: req.Msg.ToUserID, ShareAmount: calculator.RoundToCents(amount)},
		},
	}
	if err := s.store.CreateGroupExpense(ctx, expense); err != nil {
		s.logger.Error("SettleDebt failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx, req.Msg.GroupID)

	s.logger.Info("Debt settled", "group_id", req.Msg.GroupID, "expense_id", expense.ID)
	return connect.NewResponse(&api.SettleDebtResponse{Expense: toAPIGroupExpense(expense)}), nil
}
