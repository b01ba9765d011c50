package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetly/internal/auth"
	"github.com/mmynk/budgetly/internal/cache"
	"github.com/mmynk/budgetly/internal/models"
	"github.com/mmynk/budgetly/internal/storage"
	"github.com/mmynk/budgetly/pkg/api"
	"github.com/mmynk/budgetly/pkg/api/apiconnect"
)

var (
	errGroupIDRequired = errors.New("group_id required")
	errNotMember       = errors.New("not a member of this group")
	errAdminOnly       = errors.New("only a group admin can do this")
	errLastAdmin       = errors.New("a group needs at least one admin")
	errUserNotFound    = errors.New("Utilisateur non trouvé")
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService: groups, rosters,
// shared expenses and the balances derived from them.
type GroupService struct {
	store    storage.Store
	balances cache.BalanceCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewGroupService creates a GroupService. A nil balances disables caching.
func NewGroupService(store storage.Store, balances cache.BalanceCache, logger *slog.Logger) *GroupService {
	if balances == nil {
		balances = cache.Noop{}
	}
	return &GroupService{
		store:    store,
		balances: balances,
		logger:   logger,
		now:      time.Now,
	}
}

// requireMember returns the caller's membership of groupID.
// Unknown groups are NotFound, groups the caller is not in are PermissionDenied.
func (s *GroupService) requireMember(ctx context.Context, groupID string) (*models.GroupMember, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	member, err := s.store.GetMember(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		if _, gerr := s.store.GetGroup(ctx, groupID); gerr != nil {
			return nil, storeError(gerr)
		}
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	if err != nil {
		return nil, storeError(err)
	}
	return member, nil
}

// invalidate drops cached balances of a group after a change.
// A failure only costs a stale read until the TTL expires, so it is logged.
func (s *GroupService) invalidate(ctx context.Context, groupID string) {
	if err := s.balances.Invalidate(ctx, groupID); err != nil {
		s.logger.Warn("Failed to invalidate balance cache", "group_id", groupID, "error", err)
	}
}

// CreateGroup creates a group administered by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroup request received", "user_id", userID, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(req.Msg.Description),
		CreatedBy:   userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	if _, err := s.requireMember(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups returns the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	s.logger.Info("ListGroups successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// DeleteGroup removes a group with its roster and expenses. Admins only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	member, err := s.requireMember(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, connect.NewError(connect.CodePermissionDenied, errAdminOnly)
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx, req.Msg.GroupID)

	s.logger.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// ListMembers returns the roster in join order.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if _, err := s.requireMember(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	out := make([]api.GroupMember, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: out}), nil
}

// AddMember invites a registered user into the group by email.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	if _, err := s.requireMember(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}
	s.logger.Info("AddMember request received", "group_id", req.Msg.GroupID, "email", req.Msg.Email)

	email, err := auth.NormalizeEmail(req.Msg.Email)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, errUserNotFound)
	}
	if err != nil {
		s.logger.Error("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	member := &models.GroupMember{
		GroupID: req.Msg.GroupID,
		UserID:  user.ID,
		Role:    models.RoleMember,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		s.logger.Warn("AddMember failed", "group_id", req.Msg.GroupID, "user_id", user.ID, "error", err)
		return nil, storeError(err)
	}
	member.Profile = user.Profile()
	s.invalidate(ctx, req.Msg.GroupID)

	s.logger.Info("Member added", "group_id", req.Msg.GroupID, "user_id", user.ID)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(*member)}), nil
}

// RemoveMember takes a user out of the roster. Admins may remove anyone,
// members may only leave. The last admin cannot leave.
//
// Expenses involving the removed user are kept; balances report them as skipped.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	caller, err := s.requireMember(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID == "" {
		return nil, invalidArgument("user_id required")
	}
	if !caller.IsAdmin() && caller.UserID != req.Msg.UserID {
		return nil, connect.NewError(connect.CodePermissionDenied, errAdminOnly)
	}

	members, err := s.store.ListMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storeError(err)
	}
	admins, targetIsAdmin := 0, false
	for _, m := range members {
		if m.IsAdmin() {
			admins++
			if m.UserID == req.Msg.UserID {
				targetIsAdmin = true
			}
		}
	}
	if targetIsAdmin && admins == 1 {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errLastAdmin)
	}

	if err := s.store.RemoveMember(ctx, req.Msg.GroupID, req.Msg.UserID); err != nil {
		s.logger.Warn("RemoveMember failed", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID, "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx, req.Msg.GroupID)

	s.logger.Info("Member removed", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}
