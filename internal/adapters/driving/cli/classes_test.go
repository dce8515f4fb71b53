package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

func TestClassesCmd_Use(t *testing.T) {
	assert.Equal(t, "classes", classesCmd.Use)
}

func TestClassesCmd_RequiresGroupAndClass(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "classes", "--class-name", "ntp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group-name")

	setupTestServices(t)
	_, err = execute(t, "classes", "--group-name", "web")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class-name")
}

func TestClassesCmd_EnsureClass(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.groups.changed = true

	out, err := execute(t, "classes", "--group-name", "web", "--class-name", "ntp")

	require.NoError(t, err)
	assert.Contains(t, out, "changes saved")
	require.Len(t, mocks.groups.reconcile, 1)
	assert.Equal(t, []string{"web"}, mocks.groups.names)
	assert.Equal(t, domain.DesiredState{
		Classes: map[string]map[string]any{"ntp": {}},
	}, mocks.groups.reconcile[0])
}

func TestClassesCmd_EnsureParam(t *testing.T) {
	mocks := setupTestServices(t)

	out, err := execute(t, "classes",
		"--group-name", "web", "--class-name", "ntp",
		"--param-name", "servers", "--param-value", "pool.ntp.org")

	require.NoError(t, err)
	assert.Contains(t, out, "already up-to-date")
	assert.Equal(t, domain.DesiredState{
		Classes: map[string]map[string]any{"ntp": {"servers": "pool.ntp.org"}},
	}, mocks.groups.reconcile[0])
}

func TestClassesCmd_DeleteClass(t *testing.T) {
	mocks := setupTestServices(t)

	_, err := execute(t, "classes", "--group-name", "web", "--class-name", "ntp", "--delete-class")

	require.NoError(t, err)
	assert.Equal(t, domain.DesiredState{DeleteClasses: []string{"ntp"}}, mocks.groups.reconcile[0])
}

func TestClassesCmd_DeleteParam(t *testing.T) {
	mocks := setupTestServices(t)

	_, err := execute(t, "classes",
		"--group-name", "web", "--class-name", "ntp",
		"--param-name", "servers", "--delete-param")

	require.NoError(t, err)
	assert.Equal(t, domain.DesiredState{
		Classes:      map[string]map[string]any{"ntp": {}},
		DeleteParams: map[string][]string{"ntp": {"servers"}},
	}, mocks.groups.reconcile[0])
}

func TestClassesCmd_DeleteParamNeedsName(t *testing.T) {
	mocks := setupTestServices(t)

	_, err := execute(t, "classes", "--group-name", "web", "--class-name", "ntp", "--delete-param")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--param-name")
	assert.Empty(t, mocks.groups.reconcile)
}

func TestClassesCmd_DeleteFlagsExclusive(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "classes",
		"--group-name", "web", "--class-name", "ntp",
		"--param-name", "servers", "--delete-class", "--delete-param")

	assert.Error(t, err)
}

func TestClassesCmd_ServiceError(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.groups.err = domain.ErrUpdateVerificationFailed

	_, err := execute(t, "classes", "--group-name", "web", "--class-name", "ntp")

	assert.ErrorIs(t, err, domain.ErrUpdateVerificationFailed)
}
