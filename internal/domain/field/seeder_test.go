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

func TestSeedFromYAML(t *testing.T) {
	r, _ := openTestRegistry(t)

	seedDir := t.TempDir()
	seed := `
- name: coins
  default: 0
- name: rank
  default: novice
- name: tags
  default: []
`
	require.NoError(t, os.WriteFile(filepath.Join(seedDir, "economy.yaml"), []byte(seed), 0o644))

	require.NoError(t, NewSeeder(r, seedDir, logging.NewNop()).Seed())

	assert.True(t, r.Contains("coins"))
	assert.True(t, r.Contains("rank"))
	assert.True(t, r.Contains("tags"))

	defs := r.List()
	byName := map[string]types.FieldDefinition{}
	for _, def := range defs {
		byName[def.Name] = def
	}
	assert.Equal(t, types.KindInt, byName["coins"].Default.Kind)
	assert.Equal(t, types.KindString, byName["rank"].Default.Kind)
}

func TestSeedMissingDirIsNoop(t *testing.T) {
	r, _ := openTestRegistry(t)
	err := NewSeeder(r, filepath.Join(t.TempDir(), "nope"), logging.NewNop()).Seed()
	assert.NoError(t, err)
	assert.Equal(t, 4, r.Len())
}

func TestSeedSkipsBadFiles(t *testing.T) {
	r, _ := openTestRegistry(t)

	seedDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(seedDir, "broken.yaml"), []byte(`{{not yaml`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(seedDir, "good.yml"), []byte("- name: coins\n  default: 0\n"), 0o644))

	require.NoError(t, NewSeeder(r, seedDir, logging.NewNop()).Seed())
	assert.True(t, r.Contains("coins"))
}
