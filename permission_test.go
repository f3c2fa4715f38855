package backoffice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCreatePermission(t *testing.T, svc *Service, name string) *Permission {
	t.Helper()
	perm, err := svc.CreatePermission(context.Background(), PermissionInput{
		PermissionName: name,
		Description:    "test permission",
	})
	require.NoError(t, err)
	return perm
}

func TestCreatePermissionDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	perm := mustCreatePermission(t, svc, "full")
	assert.True(t, perm.IsActive)
	assert.Equal(t, []string{}, perm.Restrictions.Menus)
	assert.Equal(t, []string{}, perm.Restrictions.Buttons)
	assert.Equal(t, []string{}, perm.Restrictions.Layouts)
	assert.Equal(t, []string{}, perm.Restrictions.CSSSelectors)
}

func TestCreatePermissionRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreatePermission(context.Background(), PermissionInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRestrictionsRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	perm, err := svc.CreatePermission(ctx, PermissionInput{
		PermissionName: "limited",
		Restrictions: &Restrictions{
			Menus:   []string{"settlement", "reports"},
			Buttons: []string{"export"},
		},
	})
	require.NoError(t, err)

	got, err := svc.GetPermission(ctx, perm.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"settlement", "reports"}, got.Restrictions.Menus)
	assert.Equal(t, []string{"export"}, got.Restrictions.Buttons)
	assert.Equal(t, []string{}, got.Restrictions.Layouts)
	assert.Equal(t, []string{}, got.Restrictions.CSSSelectors)
}

func TestRestrictionsNullNormalizes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Rows written before the restrictions column existed carry NULL.
	err := svc.db.Exec(`INSERT INTO permissions (permissionName, description, isActive, restrictions, createdAt, updatedAt)
		VALUES ('legacy', '', 1, NULL, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error
	require.NoError(t, err)

	perms, err := svc.ListPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, []string{}, perms[0].Restrictions.Menus)
	assert.Equal(t, []string{}, perms[0].Restrictions.Buttons)
	assert.Equal(t, []string{}, perms[0].Restrictions.Layouts)
	assert.Equal(t, []string{}, perms[0].Restrictions.CSSSelectors)
}

func TestRenameCascadesToAgentLevels(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	perm := mustCreatePermission(t, svc, "A")

	l1, err := svc.CreateAgentLevel(ctx, AgentLevelInput{LevelType: "Master", Permissions: "A"})
	require.NoError(t, err)
	l2, err := svc.CreateAgentLevel(ctx, AgentLevelInput{LevelType: "Agent", Permissions: "A"})
	require.NoError(t, err)
	other, err := svc.CreateAgentLevel(ctx, AgentLevelInput{LevelType: "Member", Permissions: "B"})
	require.NoError(t, err)

	_, err = svc.UpdatePermission(ctx, perm.ID, PermissionInput{PermissionName: "B2"})
	require.NoError(t, err)

	for _, id := range []int{l1.ID, l2.ID} {
		level, err := svc.GetAgentLevel(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "B2", level.Permissions)
	}

	// Levels referencing a different name are untouched.
	level, err := svc.GetAgentLevel(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", level.Permissions)
}

func TestUpdatePermissionWithoutRenameSkipsCascade(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	perm := mustCreatePermission(t, svc, "A")
	level, err := svc.CreateAgentLevel(ctx, AgentLevelInput{LevelType: "Master", Permissions: "A"})
	require.NoError(t, err)

	updated, err := svc.UpdatePermission(ctx, perm.ID, PermissionInput{
		PermissionName: "A",
		Description:    "changed",
	})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Description)

	got, err := svc.GetAgentLevel(ctx, level.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Permissions)
}

func TestDeletePermissionBlanksReferences(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	perm := mustCreatePermission(t, svc, "B")
	l1, err := svc.CreateAgentLevel(ctx, AgentLevelInput{LevelType: "Master", Permissions: "B"})
	require.NoError(t, err)
	l2, err := svc.CreateAgentLevel(ctx, AgentLevelInput{LevelType: "Agent", Permissions: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePermission(ctx, perm.ID))

	for _, id := range []int{l1.ID, l2.ID} {
		level, err := svc.GetAgentLevel(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "", level.Permissions)
	}

	_, err = svc.GetPermission(ctx, perm.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var sawDelete bool
	for _, e := range pub.all() {
		if e.Type == PermissionDeleted && e.ID == perm.ID {
			sawDelete = true
		}
	}
	assert.True(t, sawDelete)
}

func TestDeletePermissionNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.DeletePermission(context.Background(), 404), ErrNotFound)
}
