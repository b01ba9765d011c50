package service

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetly/internal/models"
	"github.com/mmynk/budgetly/pkg/api"
)

// groupOf creates a group owned by admin with the other users as members.
func groupOf(t *testing.T, env *testEnv, admin session, members ...string) string {
	t.Helper()
	ctx := context.Background()

	resp, err := env.groups.CreateGroup(ctx, as(admin, &api.CreateGroupRequest{Name: "Coloc"}))
	require.NoError(t, err)
	groupID := resp.Msg.Group.ID

	for _, email := range members {
		_, err := env.groups.AddMember(ctx, as(admin, &api.AddMemberRequest{GroupID: groupID, Email: email}))
		require.NoError(t, err, "add %s", email)
	}
	return groupID
}

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()
	awa := env.register(t, "awa@example.com", "Awa")

	resp, err := env.groups.CreateGroup(ctx, as(awa, &api.CreateGroupRequest{
		Name:        "  Vacances Saly ",
		Description: "Week-end",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Msg.Group.ID)
	assert.Equal(t, "Vacances Saly", resp.Msg.Group.Name)
	assert.Equal(t, awa.ID, resp.Msg.Group.CreatedBy)
	assert.NotZero(t, resp.Msg.Group.CreatedAt)

	members, err := env.groups.ListMembers(ctx, as(awa, &api.ListMembersRequest{GroupID: resp.Msg.Group.ID}))
	require.NoError(t, err)
	require.Len(t, members.Msg.Members, 1)
	assert.Equal(t, string(models.RoleAdmin), members.Msg.Members[0].Role)
	assert.Equal(t, "Awa", members.Msg.Members[0].Profile.DisplayName)

	_, err = env.groups.CreateGroup(ctx, as(awa, &api.CreateGroupRequest{Name: " "}))
	requireCode(t, connect.CodeInvalidArgument, err)

	_, err = env.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Anonyme"}))
	requireCode(t, connect.CodeUnauthenticated, err)
}

func TestGroupAccess(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()
	awa := env.register(t, "awa@example.com", "Awa")
	moussa := env.register(t, "moussa@example.com", "Moussa")
	groupID := groupOf(t, env, awa)

	t.Run("non-member is denied", func(t *testing.T) {
		_, err := env.groups.GetGroup(ctx, as(moussa, &api.GetGroupRequest{GroupID: groupID}))
		requireCode(t, connect.CodePermissionDenied, err)

		_, err = env.groups.GetGroupBalances(ctx, as(moussa, &api.GetGroupBalancesRequest{GroupID: groupID}))
		requireCode(t, connect.CodePermissionDenied, err)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := env.groups.GetGroup(ctx, as(awa, &api.GetGroupRequest{GroupID: "nope"}))
		requireCode(t, connect.CodeNotFound, err)

		_, err = env.groups.GetGroup(ctx, as(awa, &api.GetGroupRequest{}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("ListGroups only shows own groups", func(t *testing.T) {
		resp, err := env.groups.ListGroups(ctx, as(moussa, &api.ListGroupsRequest{}))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.Groups)

		resp, err = env.groups.ListGroups(ctx, as(awa, &api.ListGroupsRequest{}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Groups, 1)
		assert.Equal(t, groupID, resp.Msg.Groups[0].ID)
	})
}

func TestAddMember(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()
	awa := env.register(t, "awa@example.com", "Awa")
	moussa := env.register(t, "moussa@example.com", "Moussa")
	groupID := groupOf(t, env, awa)

	resp, err := env.groups.AddMember(ctx, as(awa, &api.AddMemberRequest{GroupID: groupID, Email: " Moussa@Example.com "}))
	require.NoError(t, err)
	assert.Equal(t, moussa.ID, resp.Msg.Member.UserID)
	assert.Equal(t, string(models.RoleMember), resp.Msg.Member.Role)
	assert.Equal(t, "Moussa", resp.Msg.Member.Profile.DisplayName)

	_, err = env.groups.AddMember(ctx, as(awa, &api.AddMemberRequest{GroupID: groupID, Email: "moussa@example.com"}))
	requireCode(t, connect.CodeAlreadyExists, err)

	_, err = env.groups.AddMember(ctx, as(awa, &api.AddMemberRequest{GroupID: groupID, Email: "inconnu@example.com"}))
	requireCode(t, connect.CodeNotFound, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr))
	assert.Equal(t, "Utilisateur non trouvé", connectErr.Message())

	groups, err := env.groups.ListGroups(ctx, as(moussa, &api.ListGroupsRequest{}))
	require.NoError(t, err)
	assert.Len(t, groups.Msg.Groups, 1)
}

func TestRemoveMemberAndDeleteGroup(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()
	awa := env.register(t, "awa@example.com", "Awa")
	moussa := env.register(t, "moussa@example.com", "Moussa")
	fatou := env.register(t, "fatou@example.com", "Fatou")
	groupID := groupOf(t, env, awa, "moussa@example.com", "fatou@example.com")

	_, err := env.groups.RemoveMember(ctx, as(moussa, &api.RemoveMemberRequest{GroupID: groupID, UserID: fatou.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.RemoveMember(ctx, as(awa, &api.RemoveMemberRequest{GroupID: groupID, UserID: awa.ID}))
	requireCode(t, connect.CodeFailedPrecondition, err)

	// Members may leave
	_, err = env.groups.RemoveMember(ctx, as(fatou, &api.RemoveMemberRequest{GroupID: groupID, UserID: fatou.ID}))
	require.NoError(t, err)

	_, err = env.groups.RemoveMember(ctx, as(awa, &api.RemoveMemberRequest{GroupID: groupID, UserID: fatou.ID}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = env.groups.DeleteGroup(ctx, as(moussa, &api.DeleteGroupRequest{GroupID: groupID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.DeleteGroup(ctx, as(awa, &api.DeleteGroupRequest{GroupID: groupID}))
	require.NoError(t, err)

	_, err = env.groups.GetGroup(ctx, as(awa, &api.GetGroupRequest{GroupID: groupID}))
	requireCode(t, connect.CodeNotFound, err)
}
