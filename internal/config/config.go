// Package config holds the YAML configuration of pengviz.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/filter"
	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

const (
	DefaultAddr          = "127.0.0.1:8050"
	DefaultSnapshotDir   = "snapshots"
	DefaultSessionTTL    = 30 * time.Minute
	DefaultSweepInterval = time.Minute
	DefaultShutdown      = 5 * time.Second
	DefaultLogLevel      = "info"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PENGVIZ_"
)

// ErrInvalid indicates a configuration value that cannot be used.
var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Inputs  InputsConfig  `yaml:"inputs"`
	Server  ServerConfig  `yaml:"server"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

type DatasetConfig struct {
	Kind    string   `yaml:"kind"`
	Path    string   `yaml:"path,omitempty"`
	DSN     string   `yaml:"dsn,omitempty"`
	Table   string   `yaml:"table,omitempty"`
	OrderBy string   `yaml:"order_by,omitempty"`
	S3      S3Config `yaml:"s3,omitempty"`
}

// S3Config locates the dataset object. Credentials come from the AWS
// default chain and are never stored in the file.
type S3Config struct {
	Bucket    string `yaml:"bucket,omitempty"`
	Key       string `yaml:"key,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
}

// InputsConfig is the starting state of every new dashboard.
type InputsConfig struct {
	Species         []string `yaml:"species"`
	Attribute       string   `yaml:"attribute"`
	InteractiveBins int      `yaml:"interactive_bins"`
	StaticBins      int      `yaml:"static_bins"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{Kind: string(dataset.KindEmbedded)},
		Inputs:  inputsConfig(session.DefaultInputs()),
		Server: ServerConfig{
			Addr:            DefaultAddr,
			SessionTTL:      DefaultSessionTTL,
			SweepInterval:   DefaultSweepInterval,
			ShutdownTimeout: DefaultShutdown,
		},
		Export: ExportConfig{
			Dir:    DefaultSnapshotDir,
			Width:  render.DefaultImageSize.Width,
			Height: render.DefaultImageSize.Height,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

func inputsConfig(in session.Inputs) InputsConfig {
	species := make([]string, 0, in.Species.Len())
	for _, sp := range in.Species.Labels() {
		species = append(species, string(sp))
	}
	return InputsConfig{
		Species:         species,
		Attribute:       string(in.Attribute),
		InteractiveBins: in.InteractiveBins,
		StaticBins:      in.StaticBins,
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from PENGVIZ_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"DATASET_KIND":     &c.Dataset.Kind,
		"DATASET_PATH":     &c.Dataset.Path,
		"DATASET_DSN":      &c.Dataset.DSN,
		"DATASET_TABLE":    &c.Dataset.Table,
		"S3_BUCKET":        &c.Dataset.S3.Bucket,
		"S3_KEY":           &c.Dataset.S3.Key,
		"S3_REGION":        &c.Dataset.S3.Region,
		"S3_ENDPOINT":      &c.Dataset.S3.Endpoint,
		"ADDR":             &c.Server.Addr,
		"SNAPSHOT_DIR":     &c.Export.Dir,
		"LOG_LEVEL":        &c.Log.Level,
		"INPUTS_ATTRIBUTE": &c.Inputs.Attribute,
	}
	for key, dst := range str {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sSESSION_TTL: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Server.SessionTTL = d
	}
	if v, ok := lookup(EnvPrefix + "S3_PATH_STYLE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sS3_PATH_STYLE: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Dataset.S3.PathStyle = b
	}
	if v, ok := lookup(EnvPrefix + "INPUTS_SPECIES"); ok {
		c.Inputs.Species = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks every field that can be checked without I/O.
func (c *Config) Validate() error {
	if _, err := c.SessionInputs(); err != nil {
		return err
	}
	switch dataset.Kind(c.Dataset.Kind) {
	case "", dataset.KindEmbedded:
	case dataset.KindFile:
		if c.Dataset.Path == "" {
			return fmt.Errorf("%w: dataset.path required for kind file", ErrInvalid)
		}
	case dataset.KindSQLite:
		if c.Dataset.Path == "" && c.Dataset.DSN == "" {
			return fmt.Errorf("%w: dataset.path or dataset.dsn required for kind sqlite", ErrInvalid)
		}
	case dataset.KindPostgres:
		if c.Dataset.DSN == "" {
			return fmt.Errorf("%w: dataset.dsn required for kind postgres", ErrInvalid)
		}
	case dataset.KindS3:
		if c.Dataset.S3.Bucket == "" || c.Dataset.S3.Key == "" {
			return fmt.Errorf("%w: dataset.s3.bucket and dataset.s3.key required for kind s3", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: dataset.kind %q", ErrInvalid, c.Dataset.Kind)
	}
	if c.Server.SessionTTL < 0 || c.Server.SweepInterval < 0 {
		return fmt.Errorf("%w: negative server duration", ErrInvalid)
	}
	if c.Export.Width < 0 || c.Export.Height < 0 {
		return fmt.Errorf("%w: negative export size", ErrInvalid)
	}
	return nil
}

// DatasetSpec converts the dataset section for dataset.Open.
func (c *Config) DatasetSpec() dataset.Spec {
	return dataset.Spec{
		Kind:    dataset.Kind(c.Dataset.Kind),
		Path:    c.Dataset.Path,
		DSN:     c.Dataset.DSN,
		Table:   c.Dataset.Table,
		OrderBy: c.Dataset.OrderBy,
		S3: dataset.S3Config{
			Bucket:    c.Dataset.S3.Bucket,
			Key:       c.Dataset.S3.Key,
			Region:    c.Dataset.S3.Region,
			Endpoint:  c.Dataset.S3.Endpoint,
			PathStyle: c.Dataset.S3.PathStyle,
		},
	}
}

// SessionInputs converts the inputs section. An empty species list is a
// valid, empty selection.
func (c *Config) SessionInputs() (session.Inputs, error) {
	return c.Inputs.toSession()
}

func (ic InputsConfig) toSession() (session.Inputs, error) {
	sel, err := filter.ParseSelection(strings.Join(ic.Species, ","))
	if err != nil {
		return session.Inputs{}, fmt.Errorf("%w: inputs.species: %w", ErrInvalid, err)
	}
	col, err := penguin.ParseColumn(ic.Attribute)
	if err != nil {
		return session.Inputs{}, fmt.Errorf("%w: inputs.attribute: %w", ErrInvalid, err)
	}
	return session.Inputs{
		Species:         sel,
		Attribute:       col,
		InteractiveBins: ic.InteractiveBins,
		StaticBins:      ic.StaticBins,
	}, nil
}

// ImageSize is the export image size.
func (c *Config) ImageSize() render.Size {
	return render.Size{Width: c.Export.Width, Height: c.Export.Height}
}
