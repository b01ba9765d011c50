package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetly/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService.
const ExpenseServiceName = "budgetly.v1.ExpenseService"

// Procedure paths of the ExpenseService.
const (
	ExpenseServiceListCategoriesProcedure              = "/" + ExpenseServiceName + "/ListCategories"
	ExpenseServiceCreateCategoryProcedure              = "/" + ExpenseServiceName + "/CreateCategory"
	ExpenseServiceCreatePersonalExpenseProcedure       = "/" + ExpenseServiceName + "/CreatePersonalExpense"
	ExpenseServiceGetPersonalExpenseProcedure          = "/" + ExpenseServiceName + "/GetPersonalExpense"
	ExpenseServiceUpdatePersonalExpenseProcedure       = "/" + ExpenseServiceName + "/UpdatePersonalExpense"
	ExpenseServiceDeletePersonalExpenseProcedure       = "/" + ExpenseServiceName + "/DeletePersonalExpense"
	ExpenseServiceListPersonalExpensesProcedure        = "/" + ExpenseServiceName + "/ListPersonalExpenses"
	ExpenseServiceListPersonalExpensesByMonthProcedure = "/" + ExpenseServiceName + "/ListPersonalExpensesByMonth"
	ExpenseServiceGetExpenseTotalsProcedure            = "/" + ExpenseServiceName + "/GetExpenseTotals"
	ExpenseServiceGetJournalProcedure                  = "/" + ExpenseServiceName + "/GetJournal"
	ExpenseServiceSuggestTitlesProcedure               = "/" + ExpenseServiceName + "/SuggestTitles"
)

// ExpenseServiceHandler is implemented by the server side of the ExpenseService.
type ExpenseServiceHandler interface {
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	CreatePersonalExpense(context.Context, *connect.Request[api.CreatePersonalExpenseRequest]) (*connect.Response[api.CreatePersonalExpenseResponse], error)
	GetPersonalExpense(context.Context, *connect.Request[api.GetPersonalExpenseRequest]) (*connect.Response[api.GetPersonalExpenseResponse], error)
	UpdatePersonalExpense(context.Context, *connect.Request[api.UpdatePersonalExpenseRequest]) (*connect.Response[api.UpdatePersonalExpenseResponse], error)
	DeletePersonalExpense(context.Context, *connect.Request[api.DeletePersonalExpenseRequest]) (*connect.Response[api.DeletePersonalExpenseResponse], error)
	ListPersonalExpenses(context.Context, *connect.Request[api.ListPersonalExpensesRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error)
	ListPersonalExpensesByMonth(context.Context, *connect.Request[api.ListPersonalExpensesByMonthRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error)
	GetExpenseTotals(context.Context, *connect.Request[api.GetExpenseTotalsRequest]) (*connect.Response[api.GetExpenseTotalsResponse], error)
	GetJournal(context.Context, *connect.Request[api.GetJournalRequest]) (*connect.Response[api.GetJournalResponse], error)
	SuggestTitles(context.Context, *connect.Request[api.SuggestTitlesRequest]) (*connect.Response[api.SuggestTitlesResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler serving every ExpenseService procedure.
// It returns the path prefix to mount the handler on.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceListCategoriesProcedure, newUnaryHandler(ExpenseServiceListCategoriesProcedure, svc.ListCategories, opts))
	mux.Handle(ExpenseServiceCreateCategoryProcedure, newUnaryHandler(ExpenseServiceCreateCategoryProcedure, svc.CreateCategory, opts))
	mux.Handle(ExpenseServiceCreatePersonalExpenseProcedure, newUnaryHandler(ExpenseServiceCreatePersonalExpenseProcedure, svc.CreatePersonalExpense, opts))
	mux.Handle(ExpenseServiceGetPersonalExpenseProcedure, newUnaryHandler(ExpenseServiceGetPersonalExpenseProcedure, svc.GetPersonalExpense, opts))
	mux.Handle(ExpenseServiceUpdatePersonalExpenseProcedure, newUnaryHandler(ExpenseServiceUpdatePersonalExpenseProcedure, svc.UpdatePersonalExpense, opts))
	mux.Handle(ExpenseServiceDeletePersonalExpenseProcedure, newUnaryHandler(ExpenseServiceDeletePersonalExpenseProcedure, svc.DeletePersonalExpense, opts))
	mux.Handle(ExpenseServiceListPersonalExpensesProcedure, newUnaryHandler(ExpenseServiceListPersonalExpensesProcedure, svc.ListPersonalExpenses, opts))
	mux.Handle(ExpenseServiceListPersonalExpensesByMonthProcedure, newUnaryHandler(ExpenseServiceListPersonalExpensesByMonthProcedure, svc.ListPersonalExpensesByMonth, opts))
	mux.Handle(ExpenseServiceGetExpenseTotalsProcedure, newUnaryHandler(ExpenseServiceGetExpenseTotalsProcedure, svc.GetExpenseTotals, opts))
	mux.Handle(ExpenseServiceGetJournalProcedure, newUnaryHandler(ExpenseServiceGetJournalProcedure, svc.GetJournal, opts))
	mux.Handle(ExpenseServiceSuggestTitlesProcedure, newUnaryHandler(ExpenseServiceSuggestTitlesProcedure, svc.SuggestTitles, opts))
	return "/" + ExpenseServiceName + "/", mux
}

// ExpenseServiceClient calls the ExpenseService.
type ExpenseServiceClient interface {
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	CreatePersonalExpense(context.Context, *connect.Request[api.CreatePersonalExpenseRequest]) (*connect.Response[api.CreatePersonalExpenseResponse], error)
	GetPersonalExpense(context.Context, *connect.Request[api.GetPersonalExpenseRequest]) (*connect.Response[api.GetPersonalExpenseResponse], error)
	UpdatePersonalExpense(context.Context, *connect.Request[api.UpdatePersonalExpenseRequest]) (*connect.Response[api.UpdatePersonalExpenseResponse], error)
	DeletePersonalExpense(context.Context, *connect.Request[api.DeletePersonalExpenseRequest]) (*connect.Response[api.DeletePersonalExpenseResponse], error)
	ListPersonalExpenses(context.Context, *connect.Request[api.ListPersonalExpensesRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error)
	ListPersonalExpensesByMonth(context.Context, *connect.Request[api.ListPersonalExpensesByMonthRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error)
	GetExpenseTotals(context.Context, *connect.Request[api.GetExpenseTotalsRequest]) (*connect.Response[api.GetExpenseTotalsResponse], error)
	GetJournal(context.Context, *connect.Request[api.GetJournalRequest]) (*connect.Response[api.GetJournalResponse], error)
	SuggestTitles(context.Context, *connect.Request[api.SuggestTitlesRequest]) (*connect.Response[api.SuggestTitlesResponse], error)
}

type expenseServiceClient struct {
	listCategories              *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
	createCategory              *connect.Client[api.CreateCategoryRequest, api.CreateCategoryResponse]
	createPersonalExpense       *connect.Client[api.CreatePersonalExpenseRequest, api.CreatePersonalExpenseResponse]
	getPersonalExpense          *connect.Client[api.GetPersonalExpenseRequest, api.GetPersonalExpenseResponse]
	updatePersonalExpense       *connect.Client[api.UpdatePersonalExpenseRequest, api.UpdatePersonalExpenseResponse]
	deletePersonalExpense       *connect.Client[api.DeletePersonalExpenseRequest, api.DeletePersonalExpenseResponse]
	listPersonalExpenses        *connect.Client[api.ListPersonalExpensesRequest, api.ListPersonalExpensesResponse]
	listPersonalExpensesByMonth *connect.Client[api.ListPersonalExpensesByMonthRequest, api.ListPersonalExpensesResponse]
	getExpenseTotals            *connect.Client[api.GetExpenseTotalsRequest, api.GetExpenseTotalsResponse]
	getJournal                  *connect.Client[api.GetJournalRequest, api.GetJournalResponse]
	suggestTitles               *connect.Client[api.SuggestTitlesRequest, api.SuggestTitlesResponse]
}

// NewExpenseServiceClient returns a client for the ExpenseService served at baseURL
// (for example http://localhost:8080).
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	return &expenseServiceClient{
		listCategories:              newClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL, ExpenseServiceListCategoriesProcedure, opts),
		createCategory:              newClient[api.CreateCategoryRequest, api.CreateCategoryResponse](httpClient, baseURL, ExpenseServiceCreateCategoryProcedure, opts),
		createPersonalExpense:       newClient[api.CreatePersonalExpenseRequest, api.CreatePersonalExpenseResponse](httpClient, baseURL, ExpenseServiceCreatePersonalExpenseProcedure, opts),
		getPersonalExpense:          newClient[api.GetPersonalExpenseRequest, api.GetPersonalExpenseResponse](httpClient, baseURL, ExpenseServiceGetPersonalExpenseProcedure, opts),
		updatePersonalExpense:       newClient[api.UpdatePersonalExpenseRequest, api.UpdatePersonalExpenseResponse](httpClient, baseURL, ExpenseServiceUpdatePersonalExpenseProcedure, opts),
		deletePersonalExpense:       newClient[api.DeletePersonalExpenseRequest, api.DeletePersonalExpenseResponse](httpClient, baseURL, ExpenseServiceDeletePersonalExpenseProcedure, opts),
		listPersonalExpenses:        newClient[api.ListPersonalExpensesRequest, api.ListPersonalExpensesResponse](httpClient, baseURL, ExpenseServiceListPersonalExpensesProcedure, opts),
		listPersonalExpensesByMonth: newClient[api.ListPersonalExpensesByMonthRequest, api.ListPersonalExpensesResponse](httpClient, baseURL, ExpenseServiceListPersonalExpensesByMonthProcedure, opts),
		getExpenseTotals:            newClient[api.GetExpenseTotalsRequest, api.GetExpenseTotalsResponse](httpClient, baseURL, ExpenseServiceGetExpenseTotalsProcedure, opts),
		getJournal:                  newClient[api.GetJournalRequest, api.GetJournalResponse](httpClient, baseURL, ExpenseServiceGetJournalProcedure, opts),
		suggestTitles:               newClient[api.SuggestTitlesRequest, api.SuggestTitlesResponse](httpClient, baseURL, ExpenseServiceSuggestTitlesProcedure, opts),
	}
}

func (c *expenseServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreatePersonalExpense(ctx context.Context, req *connect.Request[api.CreatePersonalExpenseRequest]) (*connect.Response[api.CreatePersonalExpenseResponse], error) {
	return c.createPersonalExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetPersonalExpense(ctx context.Context, req *connect.Request[api.GetPersonalExpenseRequest]) (*connect.Response[api.GetPersonalExpenseResponse], error) {
	return c.getPersonalExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdatePersonalExpense(ctx context.Context, req *connect.Request[api.UpdatePersonalExpenseRequest]) (*connect.Response[api.UpdatePersonalExpenseResponse], error) {
	return c.updatePersonalExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeletePersonalExpense(ctx context.Context, req *connect.Request[api.DeletePersonalExpenseRequest]) (*connect.Response[api.DeletePersonalExpenseResponse], error) {
	return c.deletePersonalExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListPersonalExpenses(ctx context.Context, req *connect.Request[api.ListPersonalExpensesRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error) {
	return c.listPersonalExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListPersonalExpensesByMonth(ctx context.Context, req *connect.Request[api.ListPersonalExpensesByMonthRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error) {
	return c.listPersonalExpensesByMonth.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpenseTotals(ctx context.Context, req *connect.Request[api.GetExpenseTotalsRequest]) (*connect.Response[api.GetExpenseTotalsResponse], error) {
	return c.getExpenseTotals.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetJournal(ctx context.Context, req *connect.Request[api.GetJournalRequest]) (*connect.Response[api.GetJournalResponse], error) {
	return c.getJournal.CallUnary(ctx, req)
}

func (c *expenseServiceClient) SuggestTitles(ctx context.Context, req *connect.Request[api.SuggestTitlesRequest]) (*connect.Response[api.SuggestTitlesResponse], error) {
	return c.suggestTitles.CallUnary(ctx, req)
}
