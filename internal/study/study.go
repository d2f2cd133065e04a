// Package study persists analysis bundles on disk: a study names a survey
// dataset, its weight column, and the compiled artifacts produced from it.
package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CrossTally/crosstally-cli/internal/utils"
)

const studyFileName = "study.json"

// Study represents an analysis bundle persisted on disk.
type Study struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	DatasetPath string               `json:"dataset_path"`
	WeightVar   string               `json:"weight_var"`
	Artifacts   map[string]*Artifact `json:"artifacts"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	// Not serialized: on-disk location of the study.json
	rootDir string `json:"-"`
}

// Artifact is one output attached to a study.
type Artifact struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Kind        string    `json:"kind"` // report | stats | chart | dataset
	Description string    `json:"description"`
	AddedAt     time.Time `json:"added_at"`
}

// New constructs an in-memory study. Call Save() to persist.
func New(name, description, rootDir string) *Study {
	return &Study{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Artifacts:   make(map[string]*Artifact),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// Load reads a study.json from the provided directory.
func Load(dir string) (*Study, error) {
	path := filepath.Join(dir, studyFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("study not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read study: %w", err)
	}
	var s Study
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse study: %w", err)
	}
	s.rootDir = dir
	return &s, nil
}

// Resolve finds a study by name under studiesDir.
func Resolve(studiesDir, name string) (*Study, error) {
	dir := filepath.Join(studiesDir, name)
	if _, err := os.Stat(filepath.Join(dir, studyFileName)); err != nil {
		return nil, fmt.Errorf("study %q not found under %s", name, studiesDir)
	}
	return Load(dir)
}

// List returns the studies found directly under studiesDir, sorted by name.
func List(studiesDir string) ([]*Study, error) {
	entries, err := os.ReadDir(studiesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read studies dir: %w", err)
	}
	var out []*Study
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		s, err := Load(filepath.Join(studiesDir, e.Name()))
		if err != nil {
			continue // not a study directory
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RootDir returns the on-disk study directory path.
func (s *Study) RootDir() string { return s.rootDir }

// Save writes study.json using atomic write.
func (s *Study) Save() error {
	if s.rootDir == "" {
		return errors.New("study root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, studyFileName), data)
}

// AddArtifact records an output file against the study.
func (s *Study) AddArtifact(path, kind, description string) *Artifact {
	a := &Artifact{
		ID:          uuid.NewString(),
		Path:        path,
		Kind:        kind,
		Description: strings.TrimSpace(description),
		AddedAt:     time.Now(),
	}
	if s.Artifacts == nil {
		s.Artifacts = make(map[string]*Artifact)
	}
	s.Artifacts[a.ID] = a
	s.UpdatedAt = time.Now()
	return a
}

// SortedArtifacts returns artifacts in a stable order for display.
func (s *Study) SortedArtifacts() []*Artifact {
	out := make([]*Artifact, 0, len(s.Artifacts))
	for _, a := range s.Artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out
}
