package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetly/internal/cache"
	"github.com/mmynk/budgetly/internal/calculator"
	"github.com/mmynk/budgetly/pkg/api"
	"github.com/mmynk/budgetly/pkg/api/apiconnect"
)

type trio struct {
	env     *testEnv
	groupID string
	awa     session
	moussa  session
	fatou   session
}

func setupTrio(t *testing.T, balances cache.BalanceCache) trio {
	t.Helper()
	env := setupTestServer(t, balances)
	tr := trio{
		env:    env,
		awa:    env.register(t, "awa@example.com", "Awa"),
		moussa: env.register(t, "moussa@example.com", "Moussa"),
		fatou:  env.register(t, "fatou@example.com", "Fatou"),
	}
	tr.groupID = groupOf(t, env, tr.awa, "moussa@example.com", "fatou@example.com")
	return tr
}

func (tr trio) balances(t *testing.T) *api.GetGroupBalancesResponse {
	t.Helper()
	resp, err := tr.env.groups.GetGroupBalances(context.Background(), as(tr.awa, &api.GetGroupBalancesRequest{GroupID: tr.groupID}))
	require.NoError(t, err)
	return resp.Msg
}

func balanceOf(t *testing.T, resp *api.GetGroupBalancesResponse, userID string) float64 {
	t.Helper()
	for _, b := range resp.Balances {
		if b.UserID == userID {
			return b.Balance
		}
	}
	t.Fatalf("no balance for %s", userID)
	return 0
}

func TestCreateGroupExpense_Splits(t *testing.T) {
	tr := setupTrio(t, nil)
	ctx := context.Background()

	t.Run("beneficiaries split equally in cents", func(t *testing.T) {
		resp, err := tr.env.groups.CreateGroupExpense(ctx, as(tr.awa, &api.CreateGroupExpenseRequest{
			GroupID:        tr.groupID,
			Title:          "Courses",
			Amount:         100,
			BeneficiaryIDs: []string{tr.awa.ID, tr.moussa.ID, tr.fatou.ID},
		}))
		require.NoError(t, err)
		e := resp.Msg.Expense
		assert.Equal(t, tr.awa.ID, e.PayerID)
		assert.Equal(t, "2024-03-15", e.ExpenseDate)
		require.Len(t, e.Splits, 3)
		assert.Equal(t, 33.34, e.Splits[0].ShareAmount)
		assert.Equal(t, 33.33, e.Splits[1].ShareAmount)
		assert.Equal(t, 33.33, e.Splits[2].ShareAmount)
	})

	t.Run("no splits means the whole roster", func(t *testing.T) {
		resp, err := tr.env.groups.CreateGroupExpense(ctx, as(tr.moussa, &api.CreateGroupExpenseRequest{
			GroupID: tr.groupID,
			Title:   "Gaz",
			Amount:  30,
		}))
		require.NoError(t, err)
		assert.Len(t, resp.Msg.Expense.Splits, 3)
	})

	t.Run("explicit splits", func(t *testing.T) {
		resp, err := tr.env.groups.CreateGroupExpense(ctx, as(tr.awa, &api.CreateGroupExpenseRequest{
			GroupID:     tr.groupID,
			Title:       "Taxi",
			Amount:      20,
			CategoryID:  "default-transport",
			ExpenseDate: "2024-03-01",
			Splits: []api.SplitInput{
				{UserID: tr.moussa.ID, ShareAmount: 15},
				{UserID: tr.fatou.ID, ShareAmount: 5},
			},
		}))
		require.NoError(t, err)
		assert.Equal(t, "default-transport", resp.Msg.Expense.CategoryID)
		assert.Equal(t, "2024-03-01", resp.Msg.Expense.ExpenseDate)
		assert.Len(t, resp.Msg.Expense.Splits, 2)
	})

	invalid := []struct {
		name string
		req  *api.CreateGroupExpenseRequest
	}{
		{name: "missing title", req: &api.CreateGroupExpenseRequest{Amount: 10}},
		{name: "zero amount", req: &api.CreateGroupExpenseRequest{Title: "x"}},
		{name: "negative amount", req: &api.CreateGroupExpenseRequest{Title: "x", Amount: -5}},
		{name: "bad date", req: &api.CreateGroupExpenseRequest{Title: "x", Amount: 10, ExpenseDate: "15/03/2024"}},
		{name: "unknown category", req: &api.CreateGroupExpenseRequest{Title: "x", Amount: 10, CategoryID: "nope"}},
		{name: "splits exceed amount", req: &api.CreateGroupExpenseRequest{
			Title: "x", Amount: 10,
			Splits: []api.SplitInput{{UserID: tr.moussa.ID, ShareAmount: 8}, {UserID: tr.fatou.ID, ShareAmount: 8}},
		}},
		{name: "split for non-member", req: &api.CreateGroupExpenseRequest{
			Title: "x", Amount: 10,
			Splits: []api.SplitInput{{UserID: "stranger", ShareAmount: 10}},
		}},
		{name: "beneficiary non-member", req: &api.CreateGroupExpenseRequest{
			Title: "x", Amount: 10, BeneficiaryIDs: []string{"stranger"},
		}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.GroupID = tr.groupID
			_, err := tr.env.groups.CreateGroupExpense(ctx, as(tr.awa, tt.req))
			requireCode(t, connect.CodeInvalidArgument, err)
		})
	}

	list, err := tr.env.groups.ListGroupExpenses(ctx, as(tr.fatou, &api.ListGroupExpensesRequest{GroupID: tr.groupID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 3)
	assert.Equal(t, "Taxi", list.Msg.Expenses[2].Title, "oldest expense date last")
}

// postJSON calls a procedure with a hand-written JSON body, as a browser
// client would, and returns the status code and response body.
func postJSON(t *testing.T, env *testEnv, s session, procedure, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, env.server.URL+procedure, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestCreateGroupExpense_StringAmount(t *testing.T) {
	tr := setupTrio(t, nil)
	procedure := apiconnect.GroupServiceCreateGroupExpenseProcedure

	withAmount := func(amount string) string {
		return `{"group_id":"` + tr.groupID + `","title":"Pain","amount":` + amount +
			`,"beneficiary_ids":["` + tr.moussa.ID + `"]}`
	}

	// "1 500,50" is not a number: the boundary rejects it instead of guessing
	code, data := postJSON(t, tr.env, tr.awa, procedure, withAmount(`"1 500,50"`))
	assert.Equal(t, http.StatusBadRequest, code, data)

	code, data = postJSON(t, tr.env, tr.awa, procedure, withAmount(`"1500,50"`))
	require.Equal(t, http.StatusOK, code, data)
	assert.Contains(t, data, `"amount":1500.5`)
}

func TestCreateGroupExpense_OutOfRangeAmounts(t *testing.T) {
	tr := setupTrio(t, nil)
	procedure := apiconnect.GroupServiceCreateGroupExpenseProcedure

	tests := []struct {
		name string
		body string
	}{
		{
			name: "overflowing share",
			body: `{"group_id":"` + tr.groupID + `","title":"Pain","amount":100,` +
				`"splits":[{"user_id":"` + tr.moussa.ID + `","share_amount":"1e400"}]}`,
		},
		{
			name: "overflowing amount",
			body: `{"group_id":"` + tr.groupID + `","title":"Pain","amount":"1e400"}`,
		},
		{
			name: "amount too large to split in cents",
			body: `{"group_id":"` + tr.groupID + `","title":"Pain","amount":"1e17",` +
				`"beneficiary_ids":["` + tr.awa.ID + `","` + tr.moussa.ID + `","` + tr.fatou.ID + `"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := postJSON(t, tr.env, tr.awa, procedure, tt.body)
			assert.Equal(t, http.StatusBadRequest, code, data)
		})
	}

	// The server is still serving and nothing was recorded
	resp := tr.balances(t)
	assert.True(t, resp.Settled)
	for _, b := range resp.Balances {
		assert.Zero(t, b.Owed)
	}

	_, err := tr.env.groups.CreateGroupExpense(context.Background(), as(tr.awa, &api.CreateGroupExpenseRequest{
		GroupID: tr.groupID, Title: "Terrain", Amount: api.Amount(calculator.MaxAmount + 1),
	}))
	requireCode(t, connect.CodeInvalidArgument, err)
}

func TestGetGroupBalances(t *testing.T) {
	tr := setupTrio(t, nil)
	ctx := context.Background()

	empty := tr.balances(t)
	require.Len(t, empty.Balances, 3)
	assert.Empty(t, empty.Debts)
	assert.True(t, empty.Settled)

	// Awa pays 90 for everyone
	_, err := tr.env.groups.CreateGroupExpense(ctx, as(tr.awa, &api.CreateGroupExpenseRequest{
		GroupID: tr.groupID, Title: "Restaurant", Amount: 90,
	}))
	require.NoError(t, err)

	resp := tr.balances(t)
	assert.False(t, resp.Settled)
	assert.Equal(t, tr.awa.ID, resp.Balances[0].UserID, "roster order")
	assert.Equal(t, 90.0, resp.Balances[0].Paid)
	assert.Equal(t, 30.0, resp.Balances[0].Owed)
	assert.Equal(t, 60.0, balanceOf(t, resp, tr.awa.ID))
	assert.Equal(t, -30.0, balanceOf(t, resp, tr.moussa.ID))
	assert.Equal(t, -30.0, balanceOf(t, resp, tr.fatou.ID))

	require.Len(t, resp.Debts, 2)
	assert.Equal(t, tr.moussa.ID, resp.Debts[0].From.ID)
	assert.Equal(t, tr.awa.ID, resp.Debts[0].To.ID)
	assert.Equal(t, 30.0, resp.Debts[0].Amount)
	assert.Equal(t, "Moussa", resp.Debts[0].From.DisplayName)
	assert.Equal(t, tr.fatou.ID, resp.Debts[1].From.ID)

	t.Run("settling a debt", func(t *testing.T) {
		settled, err := tr.env.groups.SettleDebt(ctx, as(tr.moussa, &api.SettleDebtRequest{
			GroupID: tr.groupID, ToUserID: tr.awa.ID, Amount: 30,
		}))
		require.NoError(t, err)
		assert.Equal(t, SettlementTitle, settled.Msg.Expense.Title)
		assert.Equal(t, tr.moussa.ID, settled.Msg.Expense.PayerID)
		require.Len(t, settled.Msg.Expense.Splits, 1)
		assert.Equal(t, tr.awa.ID, settled.Msg.Expense.Splits[0].UserID)

		resp := tr.balances(t)
		assert.Equal(t, 0.0, balanceOf(t, resp, tr.moussa.ID))
		assert.Equal(t, 30.0, balanceOf(t, resp, tr.awa.ID))
		require.Len(t, resp.Debts, 1)
		assert.Equal(t, tr.fatou.ID, resp.Debts[0].From.ID)
	})

	t.Run("settle errors", func(t *testing.T) {
		_, err := tr.env.groups.SettleDebt(ctx, as(tr.moussa, &api.SettleDebtRequest{
			GroupID: tr.groupID, ToUserID: tr.moussa.ID, Amount: 5,
		}))
		requireCode(t, connect.CodeInvalidArgument, err)

		_, err = tr.env.groups.SettleDebt(ctx, as(tr.moussa, &api.SettleDebtRequest{
			GroupID: tr.groupID, ToUserID: "stranger", Amount: 5,
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("removed member shows up as skipped", func(t *testing.T) {
		_, err := tr.env.groups.RemoveMember(ctx, as(tr.awa, &api.RemoveMemberRequest{GroupID: tr.groupID, UserID: tr.fatou.ID}))
		require.NoError(t, err)

		resp := tr.balances(t)
		assert.Len(t, resp.Balances, 2)
		require.Len(t, resp.Skipped, 1)
		assert.Equal(t, tr.fatou.ID, resp.Skipped[0].UserID)
		assert.Equal(t, "split", resp.Skipped[0].Kind)
		assert.Equal(t, 30.0, resp.Skipped[0].Amount)
	})
}

func TestUpdateAndDeleteGroupExpense(t *testing.T) {
	tr := setupTrio(t, nil)
	ctx := context.Background()

	created, err := tr.env.groups.CreateGroupExpense(ctx, as(tr.moussa, &api.CreateGroupExpenseRequest{
		GroupID: tr.groupID, Title: "Courses", Amount: 60,
	}))
	require.NoError(t, err)
	expenseID := created.Msg.Expense.ID

	t.Run("other members cannot edit", func(t *testing.T) {
		title := "Hack"
		_, err := tr.env.groups.UpdateGroupExpense(ctx, as(tr.fatou, &api.UpdateGroupExpenseRequest{ExpenseID: expenseID, Title: &title}))
		requireCode(t, connect.CodePermissionDenied, err)

		_, err = tr.env.groups.DeleteGroupExpense(ctx, as(tr.fatou, &api.DeleteGroupExpenseRequest{ExpenseID: expenseID}))
		requireCode(t, connect.CodePermissionDenied, err)
	})

	t.Run("amount below kept splits is rejected", func(t *testing.T) {
		amount := api.Amount(30)
		_, err := tr.env.groups.UpdateGroupExpense(ctx, as(tr.moussa, &api.UpdateGroupExpenseRequest{ExpenseID: expenseID, Amount: &amount}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("payer replaces amount and splits", func(t *testing.T) {
		amount := api.Amount(30)
		title := "Courses Auchan"
		resp, err := tr.env.groups.UpdateGroupExpense(ctx, as(tr.moussa, &api.UpdateGroupExpenseRequest{
			ExpenseID: expenseID,
			Title:     &title,
			Amount:    &amount,
			Splits:    []api.SplitInput{{UserID: tr.fatou.ID, ShareAmount: 30}},
		}))
		require.NoError(t, err)
		assert.Equal(t, "Courses Auchan", resp.Msg.Expense.Title)
		assert.Equal(t, 30.0, resp.Msg.Expense.Amount)
		require.Len(t, resp.Msg.Expense.Splits, 1)

		balances := tr.balances(t)
		assert.Equal(t, 30.0, balanceOf(t, balances, tr.moussa.ID))
		assert.Equal(t, -30.0, balanceOf(t, balances, tr.fatou.ID))
		assert.Equal(t, 0.0, balanceOf(t, balances, tr.awa.ID))
	})

	t.Run("admin may delete", func(t *testing.T) {
		_, err := tr.env.groups.DeleteGroupExpense(ctx, as(tr.awa, &api.DeleteGroupExpenseRequest{ExpenseID: expenseID}))
		require.NoError(t, err)

		_, err = tr.env.groups.DeleteGroupExpense(ctx, as(tr.awa, &api.DeleteGroupExpenseRequest{ExpenseID: expenseID}))
		requireCode(t, connect.CodeNotFound, err)

		assert.True(t, tr.balances(t).Settled)
	})
}

func TestGetGroupBalances_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	balances := cache.Connect(context.Background(), "redis://"+mr.Addr(), time.Minute, logger)

	tr := setupTrio(t, balances)
	ctx := context.Background()
	key := "budgetly:balances:" + tr.groupID

	tr.balances(t)
	assert.True(t, mr.Exists(key), "balances are cached after a read")

	_, err := tr.env.groups.CreateGroupExpense(ctx, as(tr.awa, &api.CreateGroupExpenseRequest{
		GroupID: tr.groupID, Title: "Restaurant", Amount: 90,
	}))
	require.NoError(t, err)
	assert.False(t, mr.Exists(key), "a new expense invalidates the cache")

	resp := tr.balances(t)
	assert.Equal(t, 60.0, balanceOf(t, resp, tr.awa.ID))

	// Served from cache: same answer without touching the database
	cached := tr.balances(t)
	assert.Equal(t, resp, cached)
}

// mutateBeforeSet runs mutate once, right before the first cache write,
// like a request landing while balances are being computed.
type mutateBeforeSet struct {
	cache.BalanceCache
	mutate func()
}

func (m *mutateBeforeSet) Set(ctx context.Context, groupID string, version int64, value any) (bool, error) {
	if f := m.mutate; f != nil {
		m.mutate = nil
		f()
	}
	return m.BalanceCache.Set(ctx, groupID, version, value)
}

func TestGetGroupBalances_ConcurrentMutationNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	balances := &mutateBeforeSet{
		BalanceCache: cache.Connect(context.Background(), "redis://"+mr.Addr(), time.Minute, logger),
	}

	tr := setupTrio(t, balances)
	key := "budgetly:balances:" + tr.groupID

	balances.mutate = func() {
		_, err := tr.env.groups.CreateGroupExpense(context.Background(), as(tr.awa, &api.CreateGroupExpenseRequest{
			GroupID: tr.groupID, Title: "Restaurant", Amount: 90,
		}))
		assert.NoError(t, err)
	}

	before := tr.balances(t)
	assert.True(t, before.Settled, "computed before the expense landed")
	assert.False(t, mr.Exists(key), "the outdated report is not cached")

	after := tr.balances(t)
	assert.Equal(t, 60.0, balanceOf(t, after, tr.awa.ID))
	assert.True(t, mr.Exists(key))
}
