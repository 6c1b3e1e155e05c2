// Package export writes snapshots of a session's outputs to disk.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/metrics"
	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

const (
	metadataFile = "metadata.json"
	rowsFile     = "filtered.csv"
)

// ErrNotFound indicates a snapshot id with no metadata on disk.
var ErrNotFound = errors.New("export: snapshot not found")

// Metadata describes one snapshot directory.
type Metadata struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Session   string            `json:"session"`
	Source    string            `json:"source"`
	Inputs    map[string]string `json:"inputs"`
	Rows      int               `json:"rows"`
	Counts    map[string]int    `json:"counts"`
	Files     map[string]string `json:"files"`
}

type Store struct {
	baseDir string
	size    render.Size
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Store) { s.metrics = m } }

// WithImageSize sets the pixel size of PNG and SVG files.
func WithImageSize(size render.Size) Option { return func(s *Store) { s.size = size } }

func New(baseDir string, opts ...Option) *Store {
	s := &Store{
		baseDir: baseDir,
		size:    render.DefaultImageSize,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

func (s *Store) Dir() string { return s.baseDir }

// Save freezes the inputs of sess and renders every output concurrently
// into a new snapshot directory. A failed snapshot leaves nothing behind.
func (s *Store) Save(ctx context.Context, sess *session.Session) (*Metadata, error) {
	meta, err := s.save(ctx, sess)
	s.metrics.ObserveSnapshot(err)
	return meta, err
}

func (s *Store) save(ctx context.Context, sess *session.Session) (*Metadata, error) {
	in := sess.Inputs()
	ds := sess.Dataset()
	filtered := in.Filter(ds)

	now := s.now().UTC()
	id := now.Format("20060102T150405") + "_" + strings.SplitN(uuid.NewString(), "-", 2)[0]
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	meta := &Metadata{
		ID:        id,
		Timestamp: now,
		Session:   sess.ID(),
		Source:    ds.Source(),
		Inputs:    in.Strings(),
		Rows:      filtered.Len(),
		Counts:    counts(filtered),
		Files:     make(map[string]string),
	}

	specs := render.Outputs()
	files := make([]string, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		files[i] = spec.Name + spec.Snapshot.Ext()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := in.Render(filtered, spec.Name)
			if err != nil {
				return err
			}
			return writeFile(filepath.Join(dir, files[i]), func(f *os.File) error {
				return render.Encode(f, a, spec.Snapshot, s.size)
			})
		})
	}
	g.Go(func() error {
		return writeFile(filepath.Join(dir, rowsFile), func(f *os.File) error {
			return writeRows(f, filtered)
		})
	})
	if err := g.Wait(); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}

	for i, spec := range specs {
		meta.Files[spec.Name] = files[i]
	}
	if err := writeFile(filepath.Join(dir, metadataFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}

	s.logger.Info("snapshot saved",
		zap.String("id", id),
		zap.String("dir", dir),
		zap.Int("rows", meta.Rows))
	return meta, nil
}

func counts(v dataset.View) map[string]int {
	out := make(map[string]int, len(penguin.AllSpecies))
	for i := 0; i < v.Len(); i++ {
		out[string(v.At(i).Species)]++
	}
	return out
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeRows stores v as CSV with the dataset header. Values keep their
// table formatting, so missing measurements stay NA.
func writeRows(f *os.File, v dataset.View) error {
	cols := make([][]string, len(penguin.Header))
	for i := range cols {
		cols[i] = make([]string, 0, v.Len())
	}
	for i := 0; i < v.Len(); i++ {
		for j, field := range v.At(i).Fields() {
			cols[j] = append(cols[j], field)
		}
	}
	se := make([]series.Series, len(penguin.Header))
	for j, name := range penguin.Header {
		se[j] = series.New(cols[j], series.String, name)
	}
	return dataframe.New(se...).WriteCSV(f)
}

// List returns every readable snapshot, oldest first. A missing base
// directory is an empty store.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	snaps := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping snapshot", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		snaps = append(snaps, *meta)
	}
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].Timestamp.Equal(snaps[j].Timestamp) {
			return snaps[i].ID < snaps[j].ID
		}
		return snaps[i].Timestamp.Before(snaps[j].Timestamp)
	})
	return snaps, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return &meta, nil
}

// LoadRows reads back the filtered rows of a snapshot, header first.
func (s *Store) LoadRows(id string) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, rowsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer f.Close()

	// Without a header gota keeps the first line as data, which lets an
	// empty snapshot read back as its header alone.
	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(false),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("snapshot %s rows: %w", id, df.Err)
	}
	return df.Records()[1:], nil
}

// Path returns the location of a file inside a snapshot.
func (s *Store) Path(id, file string) string {
	return filepath.Join(s.baseDir, id, file)
}
