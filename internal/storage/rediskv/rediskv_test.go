package rediskv_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savora-app/savora/internal/storage"
	"github.com/savora-app/savora/internal/storage/rediskv"
)

func newStore(t *testing.T) *rediskv.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return rediskv.Open(mr.Addr(), "", 0)
}

func TestStore_GetSetRemove(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "savora_preferences_maya")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Set(ctx, "savora_preferences_maya", []byte(`{"currency":"AED"}`)))

	val, err := store.Get(ctx, "savora_preferences_maya")
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":"AED"}`, string(val))

	require.NoError(t, store.Remove(ctx, "savora_preferences_maya"))
	_, err = store.Get(ctx, "savora_preferences_maya")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ListKeys(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "savora_user_maya", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "savora_user_omar", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "unrelated", []byte(`{}`)))

	keys, err := store.ListKeys(ctx, "savora_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"savora_user_maya", "savora_user_omar"}, keys)
}
