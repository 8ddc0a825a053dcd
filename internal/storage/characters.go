package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/overland/pkg/actor"
)

// Character operations (filesystem-backed)

func (r *RedisStorage) charactersDir() string {
	return filepath.Join(r.dataDir, "characters")
}

func (r *RedisStorage) ListCharacters(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.charactersDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read characters directory: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *RedisStorage) GetCharacter(ctx context.Context, id string) (*actor.Character, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("invalid character id %q", id)
	}

	c, err := actor.LoadCharacter(filepath.Join(r.charactersDir(), id+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
