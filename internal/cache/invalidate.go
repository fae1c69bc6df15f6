package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ClearDir removes the directory and all contents, then recreates it empty.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

type entry struct {
	path string
	mod  time.Time
}

func listEntries(dir string) ([]entry, error) {
	var out []entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		out = append(out, entry{path: path, mod: info.ModTime()})
		return nil
	})
	return out, err
}

// EnforceLimits removes entries older than maxAge and then the least recently
// used entries beyond maxCount. Zero disables the respective limit.
func EnforceLimits(dir string, maxAge time.Duration, maxCount int) (int, error) {
	entries, err := listEntries(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	now := time.Now()
	kept := entries[:0]
	for _, e := range entries {
		if maxAge > 0 && now.Sub(e.mod) > maxAge {
			if os.Remove(e.path) == nil {
				removed++
			}
			continue
		}
		kept = append(kept, e)
	}
	if maxCount > 0 && len(kept) > maxCount {
		sort.Slice(kept, func(i, j int) bool { return kept[i].mod.Before(kept[j].mod) })
		for _, e := range kept[:len(kept)-maxCount] {
			if os.Remove(e.path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}
