package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ncedit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ncedit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ncedit/internal/core/domain"
)

func TestConfigService_Keys(t *testing.T) {
	service := NewConfigService(memory.NewConfigStore())

	keys := service.Keys()

	require.Len(t, keys, 9)
	assert.Equal(t, KeyHost, keys[0].Name)
	for _, k := range keys {
		assert.NotEmpty(t, k.Description, k.Name)
	}

	keys[0].Name = "changed"
	assert.Equal(t, KeyHost, service.Keys()[0].Name)
}

func TestConfigService_SetParsesKinds(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewConfigService(store)

	require.NoError(t, service.Set(KeyHost, " nc.example.com "))
	require.NoError(t, service.Set(KeyPort, "8443"))
	require.NoError(t, service.Set(KeyRequestsPerSecond, "2.5"))
	require.NoError(t, service.Set(KeyFailFast, "true"))

	assert.Equal(t, "nc.example.com", store.GetString(KeyHost))
	assert.Equal(t, 8443, store.GetInt(KeyPort))
	assert.InDelta(t, 2.5, store.GetFloat(KeyRequestsPerSecond), 0.0001)
	assert.True(t, store.GetBool(KeyFailFast))
}

func TestConfigService_SetRejectsBadValues(t *testing.T) {
	tests := []struct {
		key string
		raw string
	}{
		{"classifier.unknown", "x"},
		{KeyPort, "https"},
		{KeyPort, "0"},
		{KeyPort, "70000"},
		{KeyWaitSeconds, "-1"},
		{KeyRequestsPerSecond, "0"},
		{KeyJournalEnabled, "maybe"},
		{KeyEnvironment, "  "},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewConfigService(store).Set(tt.key, tt.raw)

			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestConfigService_Get(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set(KeyEnvironment, "staging"))
	service := NewConfigService(store)

	v, ok, err := service.Get(KeyEnvironment)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "staging", v)

	_, ok, err = service.Get(KeyHost)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = service.Get("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestConfigService_NilStore(t *testing.T) {
	service := NewConfigService(nil)

	assert.ErrorIs(t, service.Set(KeyHost, "a"), domain.ErrNotImplemented)
	_, _, err := service.Get(KeyHost)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.Empty(t, service.Path())
}

func TestConfigService_FileRoundTrip(t *testing.T) {
	stubHostname(t, "ignored", nil)
	dir := t.TempDir()
	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	service := NewConfigService(store)

	require.NoError(t, service.Set(KeyPort, "8443"))
	require.NoError(t, service.Set(KeyWaitSeconds, "0"))
	require.NoError(t, service.Set(KeyJournalEnabled, "false"))
	assert.Equal(t, store.Path(), service.Path())

	reopened, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	settings := LoadSettings(reopened)

	assert.Equal(t, 8443, settings.Port)
	assert.Equal(t, time.Duration(0), settings.Wait)
	assert.False(t, settings.JournalEnabled)
}
