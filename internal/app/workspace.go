package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/surveygen/internal/question"
)

// Workspace is the persisted editing state: the ordered questions and the
// last generated survey document.
type Workspace struct {
	Questions []*question.Question `yaml:"questions"`

	// Document is empty until Generate has run.
	Document string `yaml:"document,omitempty"`
}

// LoadWorkspace reads the workspace file. A missing file yields an empty
// workspace. Questions without an ID, or repeating an ID seen earlier in the
// file, get a fresh one.
func LoadWorkspace(path string) (*Workspace, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Workspace{}, nil
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var ws Workspace
	if err := yaml.Unmarshal(b, &ws); err != nil {
		return nil, fmt.Errorf("parse workspace %s: %w", path, err)
	}
	seen := make(map[string]bool, len(ws.Questions))
	for _, q := range ws.Questions {
		if q == nil {
			continue
		}
		if q.ID == "" || seen[q.ID] {
			q.ID = question.NewID()
		}
		seen[q.ID] = true
		if q.Type == "" {
			q.Type = question.Radio
		}
	}
	return &ws, nil
}

// SaveWorkspace writes ws to path through a temporary file so a crash never
// leaves a truncated workspace behind.
func SaveWorkspace(path string, ws *Workspace) error {
	b, err := yaml.Marshal(ws)
	if err != nil {
		return fmt.Errorf("encode workspace: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workspace dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write workspace: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write workspace: %w", err)
	}
	return nil
}
