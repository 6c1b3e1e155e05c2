package dataset

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pengviz/internal/penguin"
)

// Source produces the records of the dataset. It is called exactly once per
// process, before serving.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]penguin.Record, error)
}

// Load reads every record from src and freezes them into a Dataset.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	ds, err := New(records, src.Name())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	logger.Info("dataset loaded",
		zap.String("source", src.Name()),
		zap.Int("rows", ds.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return ds, nil
}

// Kind selects a source implementation.
type Kind string

const (
	KindEmbedded Kind = "embedded"
	KindFile     Kind = "file"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindS3       Kind = "s3"
)

// Spec describes a source in configuration terms.
type Spec struct {
	Kind    Kind
	Path    string
	DSN     string
	Table   string
	OrderBy string
	S3      S3Config
}

// Open builds the Source a Spec describes.
func Open(ctx context.Context, spec Spec) (Source, error) {
	switch spec.Kind {
	case "", KindEmbedded:
		return Embedded(), nil
	case KindFile:
		return File(spec.Path), nil
	case KindSQLite:
		dsn := spec.DSN
		if dsn == "" {
			dsn = spec.Path
		}
		return SQL(DriverSQLite, dsn, spec.Table, spec.OrderBy), nil
	case KindPostgres:
		return SQL(DriverPostgres, spec.DSN, spec.Table, spec.OrderBy), nil
	case KindS3:
		return NewS3(ctx, spec.S3)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, spec.Kind)
}
