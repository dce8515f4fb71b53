package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

// mockGroupService implements driving.GroupService for testing.
type mockGroupService struct {
	group     *domain.Group
	changed   bool
	err       error
	reconcile []domain.DesiredState
	names     []string
}

func (m *mockGroupService) ResolveGroupID(_ context.Context, _ string) (string, error) {
	return "id-1", m.err
}

func (m *mockGroupService) Get(_ context.Context, name string) (*domain.Group, error) {
	m.names = append(m.names, name)
	if m.err != nil {
		return nil, m.err
	}
	return m.group, nil
}

func (m *mockGroupService) UpdateGroup(_ context.Context, _ string, _ domain.UpdateRequest) error {
	return m.err
}

func (m *mockGroupService) Reconcile(
	_ context.Context,
	name string,
	desired domain.DesiredState,
) (*domain.ReconcileResult, error) {
	m.names = append(m.names, name)
	m.reconcile = append(m.reconcile, desired)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ReconcileResult{Group: name, Changed: m.changed}, nil
}

// mockBatchService implements driving.BatchService for testing.
type mockBatchService struct {
	report *domain.BatchReport
	err    error
	path   string
	opts   domain.BatchOptions
}

func (m *mockBatchService) Run(_ context.Context, path string, opts domain.BatchOptions) (*domain.BatchReport, error) {
	m.path = path
	m.opts = opts
	return m.report, m.err
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	entries []domain.JournalEntry
	err     error
	limit   int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	m.limit = limit
	return m.entries, m.err
}

// mockConfigService implements driving.ConfigService for testing.
type mockConfigService struct {
	values map[string]any
	err    error
	sets   [][2]string
}

func (m *mockConfigService) Keys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{Name: "classifier.host", Kind: domain.KindString, Description: "classifier host name"},
		{Name: "batch.fail_fast", Kind: domain.KindBool, Description: "stop at the first failure"},
	}
}

func (m *mockConfigService) Get(key string) (any, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockConfigService) Set(key, raw string) error {
	m.sets = append(m.sets, [2]string{key, raw})
	return m.err
}

func (m *mockConfigService) Path() string {
	return "/home/test/.ncedit/config.toml"
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	groups  *mockGroupService
	batch   *mockBatchService
	history *mockHistoryService
	config  *mockConfigService
}

// setupTestServices installs mock services and resets flag state.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	mocks := &testServices{
		groups:  &mockGroupService{},
		batch:   &mockBatchService{report: &domain.BatchReport{}},
		history: &mockHistoryService{},
		config:  &mockConfigService{values: map[string]any{}},
	}

	oldGroups, oldBatch, oldHistory, oldConfig := groupService, batchService, historyService, configService
	oldSettings, oldConnect, oldLocal := settings, connect, connectLocal
	groupService = mocks.groups
	batchService = mocks.batch
	historyService = mocks.history
	configService = mocks.config
	settings = domain.DefaultSettings()
	connect = nil
	connectLocal = nil

	t.Cleanup(func() {
		groupService, batchService, historyService, configService = oldGroups, oldBatch, oldHistory, oldConfig
		settings, connect, connectLocal = oldSettings, oldConnect, oldLocal
		resetFlags(rootCmd)
	})
	resetFlags(rootCmd)
	return mocks
}

// resetFlags restores every flag of cmd and its children to its default,
// since cobra keeps parsed values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ncedit", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{"verbose", "config-dir", "host", "port", "ssl-dir", "wait"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
	assert.Equal(t, "4433", flags.Lookup("port").DefValue)
	assert.Equal(t, "5m0s", flags.Lookup("wait").DefValue)
}

func TestRootCmd_ConnectsWithFlagOverrides(t *testing.T) {
	setupTestServices(t)
	groupService, batchService = nil, nil

	var got domain.Settings
	var gotDir string
	mocks := &mockGroupService{group: &domain.Group{Name: "web"}}
	connect = func(_ context.Context, dir string, apply func(*domain.Settings)) (*Services, error) {
		gotDir = dir
		got = domain.DefaultSettings()
		got.Host = "from-config"
		apply(&got)
		return &Services{Groups: mocks, Settings: got}, nil
	}

	_, err := execute(t, "show", "web", "--config-dir", "/tmp/conf", "--port", "8443", "--wait", "0s")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/conf", gotDir)
	assert.Equal(t, "from-config", got.Host)
	assert.Equal(t, 8443, got.Port)
	assert.Equal(t, domain.DefaultSSLDir, got.SSLDir)
	assert.Zero(t, got.Wait)
	assert.Equal(t, []string{"web"}, mocks.names)
}

func TestRootCmd_ConnectError(t *testing.T) {
	setupTestServices(t)
	groupService = nil
	connect = func(context.Context, string, func(*domain.Settings)) (*Services, error) {
		return nil, domain.ErrUnavailable
	}

	_, err := execute(t, "show", "web")

	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestRootCmd_VersionSkipsConnect(t *testing.T) {
	setupTestServices(t)
	groupService = nil
	connect = func(context.Context, string, func(*domain.Settings)) (*Services, error) {
		return nil, errors.New("should not connect")
	}

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "ncedit version")
}

func TestRootCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)
	groupService = nil

	_, err := execute(t, "show", "web")

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestRootCmd_HistoryUsesLocalConnector(t *testing.T) {
	mocks := setupTestServices(t)
	groupService, historyService, configService = nil, nil, nil

	connected := false
	connect = func(context.Context, string, func(*domain.Settings)) (*Services, error) {
		connected = true
		return nil, domain.ErrUnavailable
	}
	var gotDir string
	connectLocal = func(dir string) (*LocalServices, error) {
		gotDir = dir
		return &LocalServices{History: mocks.history, Config: mocks.config}, nil
	}

	out, err := execute(t, "history", "--config-dir", "/tmp/conf")

	require.NoError(t, err)
	assert.False(t, connected)
	assert.Equal(t, "/tmp/conf", gotDir)
	assert.Contains(t, out, "No updates recorded.")
}

func TestRootCmd_LocalConnectError(t *testing.T) {
	setupTestServices(t)
	historyService = nil
	connectLocal = func(string) (*LocalServices, error) {
		return nil, errors.New("permission denied")
	}

	_, err := execute(t, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestRootCmd_ClassifierCommandsSkipLocalConnector(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.groups.group = &domain.Group{ID: "id-1", Name: "web"}
	connectLocal = func(string) (*LocalServices, error) {
		return nil, errors.New("should not open local state")
	}

	_, err := execute(t, "show", "web")

	require.NoError(t, err)
}

func TestConfigure(t *testing.T) {
	oldVersion, oldConnect, oldLocal := version, connect, connectLocal
	defer func() { version, connect, connectLocal = oldVersion, oldConnect, oldLocal }()

	Configure("1.2.3", nil, nil)

	assert.Equal(t, "1.2.3", version)
	assert.Nil(t, connect)
	assert.Nil(t, connectLocal)
}
