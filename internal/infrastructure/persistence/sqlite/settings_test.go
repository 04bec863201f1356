package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SettingsStore {
	t.Helper()

	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSettingsStoreEnabledRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Una base recién creada no tiene valor: found=false.
	_, found, err := store.GetTTSEnabled(ctx)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.SetTTSEnabled(ctx, false))
	enabled, found, err := store.GetTTSEnabled(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, enabled)

	require.NoError(t, store.SetTTSEnabled(ctx, true))
	enabled, found, err = store.GetTTSEnabled(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, enabled)
}

// El arranque solo debe dejar que un valor realmente persistido pise la
// configuración del entorno; con la base vacía gana la config.
func TestSettingsStoreFreshDBKeepsConfiguredStartup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	startEnabled := false
	if stored, found, err := store.GetTTSEnabled(ctx); err == nil && found {
		startEnabled = stored
	}
	require.False(t, startEnabled, "la config del entorno no debería ser pisada por una base vacía")

	require.NoError(t, store.SetTTSEnabled(ctx, true))
	if stored, found, err := store.GetTTSEnabled(ctx); err == nil && found {
		startEnabled = stored
	}
	require.True(t, startEnabled)
}

func TestSettingsStoreVoice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	voice, err := store.GetTTSVoice(ctx)
	require.NoError(t, err)
	require.Empty(t, voice)

	require.NoError(t, store.SetTTSVoice(ctx, "Pedro"))
	voice, err = store.GetTTSVoice(ctx)
	require.NoError(t, err)
	require.Equal(t, "Pedro", voice)

	// Sobrescribe, no duplica.
	require.NoError(t, store.SetTTSVoice(ctx, "Mia"))
	voice, err = store.GetTTSVoice(ctx)
	require.NoError(t, err)
	require.Equal(t, "Mia", voice)
}
