package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/jwebster45206/overland/pkg/encounter"
)

// GetEncounterTables loads the configured tables file once, falling back to
// the embedded defaults when no file is configured.
func (r *RedisStorage) GetEncounterTables(ctx context.Context) (*encounter.Tables, error) {
	r.tablesMu.Lock()
	defer r.tablesMu.Unlock()

	if r.tables != nil {
		return r.tables, nil
	}

	if r.tablesPath == "" {
		r.tables = encounter.DefaultTables()
		r.logger.Debug("Using built-in encounter tables")
		return r.tables, nil
	}

	f, err := os.Open(r.tablesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open encounter tables: %w", err)
	}
	defer f.Close()

	t, err := encounter.LoadTables(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.tablesPath, err)
	}
	r.tables = t
	r.logger.Info("Loaded encounter tables", "path", r.tablesPath, "biomes", len(t.Biomes), "pois", len(t.POIs))
	return r.tables, nil
}
