package field

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/gamecore/playerdata/internal/infrastructure/logging"
	"github.com/gamecore/playerdata/internal/shared/types"
)

// Seeder loads extra field definitions from YAML drop-in files at startup.
// Each file holds a list of {name, default} entries; duplicates of already
// registered fields are skipped by the normal Add path.
type Seeder struct {
	registry *Registry
	dir      string
	log      *logging.Logger
}

type seedEntry struct {
	Name    string      `yaml:"name"`
	Default interface{} `yaml:"default"`
}

// NewSeeder creates a seeder reading from dir.
func NewSeeder(registry *Registry, dir string, log *logging.Logger) *Seeder {
	return &Seeder{registry: registry, dir: dir, log: log}
}

// Seed walks the seed directory and registers every definition found.
// A missing directory is not an error; individual bad files are logged and
// skipped.
func (s *Seeder) Seed() error {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.log.Debug("No field seed directory", zap.String("dir", s.dir))
		return nil
	}

	var loaded, failed int

	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(info.Name(), ".yaml") && !strings.HasSuffix(info.Name(), ".yml") {
			return nil
		}

		n, err := s.seedFile(path)
		if err != nil {
			s.log.Warn("Failed to load field seed file", zap.String("file", info.Name()), zap.Error(err))
			failed++
			return nil
		}
		loaded += n
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Field seeding complete", zap.Int("loaded", loaded), zap.Int("failed_files", failed))
	return nil
}

func (s *Seeder) seedFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var entries []seedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return 0, err
	}

	var count int
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		def, err := types.ValueOf(entry.Default)
		if err != nil {
			s.log.Warn("Skipping field with unsupported default",
				zap.String("field", entry.Name), zap.Error(err))
			continue
		}
		s.registry.Add(types.NewField(entry.Name, def))
		count++
	}
	return count, nil
}
