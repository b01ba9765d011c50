package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetly/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "budgetly.v1.GroupService"

// Procedure paths of the GroupService.
const (
	GroupServiceCreateGroupProcedure        = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure           = "/" + GroupServiceName + "/GetGroup"
	GroupServiceListGroupsProcedure         = "/" + GroupServiceName + "/ListGroups"
	GroupServiceDeleteGroupProcedure        = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceListMembersProcedure        = "/" + GroupServiceName + "/ListMembers"
	GroupServiceAddMemberProcedure          = "/" + GroupServiceName + "/AddMember"
	GroupServiceRemoveMemberProcedure       = "/" + GroupServiceName + "/RemoveMember"
	GroupServiceCreateGroupExpenseProcedure = "/" + GroupServiceName + "/CreateGroupExpense"
	GroupServiceUpdateGroupExpenseProcedure = "/" + GroupServiceName + "/UpdateGroupExpense"
	GroupServiceListGroupExpensesProcedure  = "/" + GroupServiceName + "/ListGroupExpenses"
	GroupServiceDeleteGroupExpenseProcedure = "/" + GroupServiceName + "/DeleteGroupExpense"
	GroupServiceGetGroupBalancesProcedure   = "/" + GroupServiceName + "/GetGroupBalances"
	GroupServiceSettleDebtProcedure         = "/" + GroupServiceName + "/SettleDebt"
)

// GroupServiceHandler is implemented by the server side of the GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	CreateGroupExpense(context.Context, *connect.Request[api.CreateGroupExpenseRequest]) (*connect.Response[api.CreateGroupExpenseResponse], error)
	UpdateGroupExpense(context.Context, *connect.Request[api.UpdateGroupExpenseRequest]) (*connect.Response[api.UpdateGroupExpenseResponse], error)
	ListGroupExpenses(context.Context, *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error)
	DeleteGroupExpense(context.Context, *connect.Request[api.DeleteGroupExpenseRequest]) (*connect.Response[api.DeleteGroupExpenseResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler serving every GroupService procedure.
// It returns the path prefix to mount the handler on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, newUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts))
	mux.Handle(GroupServiceGetGroupProcedure, newUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts))
	mux.Handle(GroupServiceListGroupsProcedure, newUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts))
	mux.Handle(GroupServiceDeleteGroupProcedure, newUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts))
	mux.Handle(GroupServiceListMembersProcedure, newUnaryHandler(GroupServiceListMembersProcedure, svc.ListMembers, opts))
	mux.Handle(GroupServiceAddMemberProcedure, newUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opts))
	mux.Handle(GroupServiceRemoveMemberProcedure, newUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts))
	mux.Handle(GroupServiceCreateGroupExpenseProcedure, newUnaryHandler(GroupServiceCreateGroupExpenseProcedure, svc.CreateGroupExpense, opts))
	mux.Handle(GroupServiceUpdateGroupExpenseProcedure, newUnaryHandler(GroupServiceUpdateGroupExpenseProcedure, svc.UpdateGroupExpense, opts))
	mux.Handle(GroupServiceListGroupExpensesProcedure, newUnaryHandler(GroupServiceListGroupExpensesProcedure, svc.ListGroupExpenses, opts))
	mux.Handle(GroupServiceDeleteGroupExpenseProcedure, newUnaryHandler(GroupServiceDeleteGroupExpenseProcedure, svc.DeleteGroupExpense, opts))
	mux.Handle(GroupServiceGetGroupBalancesProcedure, newUnaryHandler(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts))
	mux.Handle(GroupServiceSettleDebtProcedure, newUnaryHandler(GroupServiceSettleDebtProcedure, svc.SettleDebt, opts))
	return "/" + GroupServiceName + "/", mux
}

// GroupServiceClient calls the GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	CreateGroupExpense(context.Context, *connect.Request[api.CreateGroupExpenseRequest]) (*connect.Response[api.CreateGroupExpenseResponse], error)
	UpdateGroupExpense(context.Context, *connect.Request[api.UpdateGroupExpenseRequest]) (*connect.Response[api.UpdateGroupExpenseResponse], error)
	ListGroupExpenses(context.Context, *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error)
	DeleteGroupExpense(context.Context, *connect.Request[api.DeleteGroupExpenseRequest]) (*connect.Response[api.DeleteGroupExpenseResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
}

type groupServiceClient struct {
	createGroup        *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup           *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups         *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	deleteGroup        *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	listMembers        *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	addMember          *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	removeMember       *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	createGroupExpense *connect.Client[api.CreateGroupExpenseRequest, api.CreateGroupExpenseResponse]
	updateGroupExpense *connect.Client[api.UpdateGroupExpenseRequest, api.UpdateGroupExpenseResponse]
	listGroupExpenses  *connect.Client[api.ListGroupExpensesRequest, api.ListGroupExpensesResponse]
	deleteGroupExpense *connect.Client[api.DeleteGroupExpenseRequest, api.DeleteGroupExpenseResponse]
	getGroupBalances   *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	settleDebt         *connect.Client[api.SettleDebtRequest, api.SettleDebtResponse]
}

// NewGroupServiceClient returns a client for the GroupService served at baseURL
// (for example http://localhost:8080).
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	return &groupServiceClient{
		createGroup:        newClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, opts),
		getGroup:           newClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL, GroupServiceGetGroupProcedure, opts),
		listGroups:         newClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL, GroupServiceListGroupsProcedure, opts),
		deleteGroup:        newClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL, GroupServiceDeleteGroupProcedure, opts),
		listMembers:        newClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL, GroupServiceListMembersProcedure, opts),
		addMember:          newClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL, GroupServiceAddMemberProcedure, opts),
		removeMember:       newClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL, GroupServiceRemoveMemberProcedure, opts),
		createGroupExpense: newClient[api.CreateGroupExpenseRequest, api.CreateGroupExpenseResponse](httpClient, baseURL, GroupServiceCreateGroupExpenseProcedure, opts),
		updateGroupExpense: newClient[api.UpdateGroupExpenseRequest, api.UpdateGroupExpenseResponse](httpClient, baseURL, GroupServiceUpdateGroupExpenseProcedure, opts),
		listGroupExpenses:  newClient[api.ListGroupExpensesRequest, api.ListGroupExpensesResponse](httpClient, baseURL, GroupServiceListGroupExpensesProcedure, opts),
		deleteGroupExpense: newClient[api.DeleteGroupExpenseRequest, api.DeleteGroupExpenseResponse](httpClient, baseURL, GroupServiceDeleteGroupExpenseProcedure, opts),
		getGroupBalances:   newClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL, GroupServiceGetGroupBalancesProcedure, opts),
		settleDebt:         newClient[api.SettleDebtRequest, api.SettleDebtResponse](httpClient, baseURL, GroupServiceSettleDebtProcedure, opts),
	}
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) CreateGroupExpense(ctx context.Context, req *connect.Request[api.CreateGroupExpenseRequest]) (*connect.Response[api.CreateGroupExpenseResponse], error) {
	return c.createGroupExpense.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateGroupExpense(ctx context.Context, req *connect.Request[api.UpdateGroupExpenseRequest]) (*connect.Response[api.UpdateGroupExpenseResponse], error) {
	return c.updateGroupExpense.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroupExpenses(ctx context.Context, req *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error) {
	return c.listGroupExpenses.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroupExpense(ctx context.Context, req *connect.Request[api.DeleteGroupExpenseRequest]) (*connect.Response[api.DeleteGroupExpenseResponse], error) {
	return c.deleteGroupExpense.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *groupServiceClient) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	return c.settleDebt.CallUnary(ctx, req)
}
