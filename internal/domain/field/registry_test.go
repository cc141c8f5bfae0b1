package field

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamecore/playerdata/internal/infrastructure/logging"
	"github.com/gamecore/playerdata/internal/shared/types"
)

func openTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fields.json")
	r, err := Open(path, logging.NewNop())
	require.NoError(t, err)
	return r, path
}

func TestOpenSeedsBuiltins(t *testing.T) {
	r, path := openTestRegistry(t)

	defs := r.List()
	require.Len(t, defs, 4)
	assert.Equal(t, NameUUID, defs[0].Name)
	assert.Equal(t, NameUsername, defs[1].Name)
	assert.Equal(t, NamePlayingTime, defs[2].Name)
	assert.Equal(t, NamePermissions, defs[3].Name)

	assert.True(t, defs[0].Default.IsNull())
	assert.Equal(t, types.KindInt, defs[2].Default.Kind)
	assert.Equal(t, types.KindStringList, defs[3].Default.Kind)

	// Schema file exists on disk after creation.
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenAppendsMissingBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"coins","defaultValue":0}]`), 0o644))

	r, err := Open(path, logging.NewNop())
	require.NoError(t, err)

	defs := r.List()
	require.Len(t, defs, 5)
	assert.Equal(t, "coins", defs[0].Name)
	for _, builtin := range Builtins() {
		assert.True(t, r.Contains(builtin.Name), "missing builtin %s", builtin.Name)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	r, _ := openTestRegistry(t)

	r.Add(types.NewField("coins", types.IntValue(0)))
	r.Add(types.NewField("coins", types.IntValue(100)))

	defs := r.List()
	require.Len(t, defs, 5)
	assert.Equal(t, int64(0), defs[4].Default.Int, "second add must not replace the first")
}

func TestAddPersists(t *testing.T) {
	r, path := openTestRegistry(t)
	r.Add(types.NewField("coins", types.IntValue(0)))

	reopened, err := Open(path, logging.NewNop())
	require.NoError(t, err)
	assert.True(t, reopened.Contains("coins"))
}

func TestRemoveReservedIsNoop(t *testing.T) {
	r, _ := openTestRegistry(t)

	for _, name := range []string{NameUUID, NameUsername, NamePlayingTime, "UUID", "Playing_Time"} {
		r.Remove(name)
	}

	assert.True(t, r.Contains(NameUUID))
	assert.True(t, r.Contains(NameUsername))
	assert.True(t, r.Contains(NamePlayingTime))
}

func TestRemoveIsCaseInsensitive(t *testing.T) {
	r, _ := openTestRegistry(t)
	r.Add(types.NewField("Coins", types.IntValue(0)))

	r.Remove("coins")
	assert.False(t, r.Contains("Coins"))
}

func TestRemovePermissionsAllowed(t *testing.T) {
	r, path := openTestRegistry(t)

	r.Remove(NamePermissions)
	assert.False(t, r.Contains(NamePermissions))

	// Reopening appends the missing builtin again.
	reopened, err := Open(path, logging.NewNop())
	require.NoError(t, err)
	assert.True(t, reopened.Contains(NamePermissions))
}

func TestListReturnsSnapshot(t *testing.T) {
	r, _ := openTestRegistry(t)

	defs := r.List()
	defs[0].Name = "mutated"

	assert.Equal(t, NameUUID, r.List()[0].Name)
}
