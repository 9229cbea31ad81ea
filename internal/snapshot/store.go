package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/forescout"
	"github.com/opabravo/forescout-tools/internal/logging"
)

const (
	// TimestampLayout is the time part of a snapshot file name
	TimestampLayout = "20060102150405"

	// SegmentsPrefix names segment backups
	SegmentsPrefix = "segments"

	// HostsPrefix names host inventory backups
	HostsPrefix = "hosts"
)

// ErrNoSnapshots is returned by Latest when the folder holds no snapshot
var ErrNoSnapshots = errors.New("no snapshots found")

// Snapshot is a document persisted at Path
type Snapshot struct {
	Path      string
	CreatedAt time.Time
	Document  forescout.Document
}

// Info describes a snapshot file without loading it
type Info struct {
	Path      string
	Name      string
	CreatedAt time.Time
	Sequence  int // collision suffix, 0 for the first file of a second
	Size      int64
}

// Store writes and reads snapshots in one folder
type Store struct {
	dir         string
	prefix      string
	requireNode bool
	retention   int
	now         func() time.Time
	pattern     *regexp.Regexp
}

// Option configures a Store
type Option func(*Store)

// WithRequireNode makes Read reject documents without the "node" key
func WithRequireNode() Option {
	return func(s *Store) { s.requireNode = true }
}

// WithRetention keeps at most n snapshots after every write (0 keeps all)
func WithRetention(n int) Option {
	return func(s *Store) { s.retention = n }
}

// WithClock replaces time.Now for file naming
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store for dir using prefix for file names
func New(dir, prefix string, opts ...Option) *Store {
	s := &Store{
		dir:     dir,
		prefix:  prefix,
		now:     time.Now,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `_(\d{14})(?:_(\d+))?\.json$`),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSegmentStore returns the store used for segment backups
func NewSegmentStore(dir string, opts ...Option) *Store {
	return New(dir, SegmentsPrefix, append([]Option{WithRequireNode()}, opts...)...)
}

// NewHostStore returns the store used for host inventory backups
func NewHostStore(dir string, opts ...Option) *Store {
	return New(dir, HostsPrefix, opts...)
}

// Dir returns the folder of the store
func (s *Store) Dir() string {
	return s.dir
}

// Write persists doc under a new timestamped name and returns its path
func (s *Store) Write(doc forescout.Document) (string, error) {
	data, err := forescout.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path, err := s.nextPath(s.now())
	if err != nil {
		return "", err
	}

	if err := writeAtomic(s.dir, path, data); err != nil {
		return "", err
	}

	logging.Debug("Snapshot written", zap.String("path", path), zap.Int("bytes", len(data)))

	if s.retention > 0 {
		if _, err := s.Prune(s.retention); err != nil {
			logging.Warn("Snapshot retention failed", zap.Error(err))
		}
	}

	return path, nil
}

// Read loads the document stored at path. Invalid JSON is reported as a
// malformed document; stores created WithRequireNode also demand "node".
func (s *Store) Read(path string) (forescout.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if s.requireNode {
		return forescout.ParseSegments(data)
	}
	return forescout.ParseDocument(data)
}

// Load reads the snapshot at path along with its creation time
func (s *Store) Load(path string) (*Snapshot, error) {
	doc, err := s.Read(path)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Path: path, Document: doc}
	if info, ok := s.parseName(filepath.Base(path)); ok {
		snap.CreatedAt = info.CreatedAt
	} else if st, err := os.Stat(path); err == nil {
		snap.CreatedAt = st.ModTime()
	}
	return snap, nil
}


// Latest returns the newest snapshot, or ErrNoSnapshots
func (s *Store) Latest() (Info, error) {
	infos, err := s.List()
	if err != nil {
		return Info{}, err
	}
	if len(infos) == 0 {
		return Info{}, ErrNoSnapshots
	}
	return infos[len(infos)-1], nil
}

// Prune deletes the oldest snapshots so that at most keep remain.
// It returns the removed paths. keep <= 0 removes nothing.
func (s *Store) Prune(keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}

	infos, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(infos) <= keep {
		return nil, nil
	}

	var removed []string
	for _, info := range infos[:len(infos)-keep] {
		if err := os.Remove(info.Path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", info.Name, err)
		}
		removed = append(removed, info.Path)
		logging.Info("Snapshot pruned", zap.String("path", info.Path))
	}
	return removed, nil
}

// List returns the store's snapshots, oldest first
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := s.parseName(entry.Name())
		if !ok {
			continue
		}
		if st, err := entry.Info(); err == nil {
			info.Size = st.Size()
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].Sequence < infos[j].Sequence
	})
	return infos, nil
}

func (s *Store) parseName(name string) (Info, bool) {
	m := s.pattern.FindStringSubmatch(name)
	if m == nil {
		return Info{}, false
	}
	created, err := time.ParseInLocation(TimestampLayout, m[1], time.Local)
	if err != nil {
		return Info{}, false
	}
	seq := 0
	if m[2] != "" {
		seq, _ = strconv.Atoi(m[2])
	}
	return Info{
		Path:      filepath.Join(s.dir, name),
		Name:      name,
		CreatedAt: created,
		Sequence:  seq,
	}, true
}

// nextPath picks the first unused name for t
func (s *Store) nextPath(t time.Time) (string, error) {
	base := s.prefix + "_" + t.Format(TimestampLayout)
	path := filepath.Join(s.dir, base+".json")
	for n := 1; ; n++ {
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check snapshot name: %w", err)
		}
		path = filepath.Join(s.dir, fmt.Sprintf("%s_%d.json", base, n))
	}
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush temporary snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary snapshot: %w", err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
