// Package session persists expansion snapshots of a canopy.Tree so that a
// later run can restore which rows were open.
package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/phroun/canopy"
)

// Store errors
var (
	// ErrSnapshotNotFound indicates that no snapshot exists for the requested id.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrInvalidSnapshot indicates that a stored snapshot could not be decoded.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// snapshotVersion is the envelope format written by this package.
const snapshotVersion = 1

const snapshotExt = ".yaml"

// FileSystem abstracts the file operations a Store needs.
type FileSystem interface {
	WriteFile(name string, data []byte) error
	ReadFile(name string) ([]byte, error)
	ReadDir(path string) ([]string, error)
	MkdirAll(path string) error
	Remove(name string) error
}

// localFileSystem implements FileSystem for local files.
type localFileSystem struct{}

func (localFileSystem) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0644)
}

func (localFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (localFileSystem) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (localFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (localFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// Snapshot is the envelope written for each saved state.
type Snapshot struct {
	Version  int       `yaml:"version"`
	ID       string    `yaml:"id"`
	Folder   string    `yaml:"folder"`
	SavedAt  time.Time `yaml:"saved_at"`
	Expanded []int64   `yaml:"expanded"`
}

// State returns the snapshot's ids as an expansion state.
func (s Snapshot) State() *canopy.ExpansionState {
	return canopy.NewExpansionState(s.Expanded...)
}

// Options configures a Store.
type Options struct {
	// FS defaults to the local file system.
	FS FileSystem

	// Now defaults to time.Now.
	Now func() time.Time

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Store keeps snapshots under basePath, one folder per tree and one file per
// snapshot, named by a generated id.
type Store struct {
	fs       FileSystem
	basePath string
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore creates a Store rooted at basePath.
func NewStore(basePath string, options Options) *Store {
	s := &Store{
		fs:       options.FS,
		basePath: basePath,
		now:      options.Now,
		logger:   options.Logger,
	}
	if s.fs == nil {
		s.fs = localFileSystem{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Store) path(folder, id string) string {
	return filepath.Join(s.basePath, folder, id+snapshotExt)
}

// Save writes state as a new snapshot in folder and returns it.
func (s *Store) Save(folder string, state *canopy.ExpansionState) (Snapshot, error) {
	snap := Snapshot{
		Version:  snapshotVersion,
		ID:       uuid.NewString(),
		Folder:   folder,
		SavedAt:  s.now().UTC(),
		Expanded: state.IDs(),
	}
	data, err := yaml.Marshal(&snap)
	if err != nil {
		return Snapshot{}, goerrors.Wrap(err, 0)
	}
	if err := s.fs.MkdirAll(filepath.Join(s.basePath, folder)); err != nil {
		return Snapshot{}, goerrors.WrapPrefix(err, "create snapshot folder", 0)
	}
	if err := s.fs.WriteFile(s.path(folder, snap.ID), data); err != nil {
		return Snapshot{}, goerrors.WrapPrefix(err, "write snapshot", 0)
	}
	s.logger.Debug("saved snapshot",
		zap.String("folder", folder),
		zap.String("id", snap.ID),
		zap.Int("expanded", len(snap.Expanded)),
	)
	return snap, nil
}

// Load reads the snapshot id from folder.
func (s *Store) Load(folder, id string) (Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Snapshot{}, goerrors.WrapPrefix(ErrSnapshotNotFound, id, 0)
	}
	data, err := s.fs.ReadFile(s.path(folder, id))
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, goerrors.WrapPrefix(ErrSnapshotNotFound, id, 0)
	}
	if err != nil {
		return Snapshot{}, goerrors.WrapPrefix(err, "read snapshot", 0)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, goerrors.WrapPrefix(ErrInvalidSnapshot, err.Error(), 0)
	}
	if snap.Version != snapshotVersion {
		return Snapshot{}, goerrors.WrapPrefix(ErrInvalidSnapshot, "unsupported version", 0)
	}
	return snap, nil
}

// List returns every readable snapshot in folder, oldest first. Files that
// fail to decode are skipped.
func (s *Store) List(folder string) ([]Snapshot, error) {
	names, err := s.fs.ReadDir(filepath.Join(s.basePath, folder))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrors.WrapPrefix(err, "list snapshots", 0)
	}
	var snaps []Snapshot
	for _, name := range names {
		id, ok := strings.CutSuffix(name, snapshotExt)
		if !ok {
			continue
		}
		snap, err := s.Load(folder, id)
		if err != nil {
			s.logger.Warn("skipping snapshot", zap.String("file", name), zap.Error(err))
			continue
		}
		snaps = append(snaps, snap)
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].SavedAt.Before(snaps[j].SavedAt)
	})
	return snaps, nil
}

// Latest returns the most recently saved snapshot in folder.
func (s *Store) Latest(folder string) (Snapshot, error) {
	snaps, err := s.List(folder)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snaps) == 0 {
		return Snapshot{}, goerrors.WrapPrefix(ErrSnapshotNotFound, folder, 0)
	}
	return snaps[len(snaps)-1], nil
}

// Delete removes the snapshot id from folder.
func (s *Store) Delete(folder, id string) error {
	err := s.fs.Remove(s.path(folder, id))
	if errors.Is(err, fs.ErrNotExist) {
		return goerrors.WrapPrefix(ErrSnapshotNotFound, id, 0)
	}
	if err != nil {
		return goerrors.WrapPrefix(err, "delete snapshot", 0)
	}
	return nil
}
