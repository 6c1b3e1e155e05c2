package config

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/session"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	in, err := cfg.SessionInputs()
	require.NoError(t, err)
	assert.True(t, in.Species.Equal(session.DefaultInputs().Species))
	assert.Equal(t, penguin.BillLength, in.Attribute)
	assert.Equal(t, 50, in.InteractiveBins)
	assert.Equal(t, dataset.KindEmbedded, cfg.DatasetSpec().Kind)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pengviz.yaml")
	cfg := DefaultConfig()
	cfg.Dataset.Kind = "sqlite"
	cfg.Dataset.Path = "penguins.db"
	cfg.Server.SessionTTL = 90 * time.Second
	cfg.Inputs.Species = []string{"Gentoo"}

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, Save(path, &Config{Log: LogConfig{Level: "debug"}}))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PENGVIZ_DATASET_KIND":   "s3",
		"PENGVIZ_S3_BUCKET":      "datasets",
		"PENGVIZ_S3_KEY":         "penguins.csv",
		"PENGVIZ_S3_PATH_STYLE":  "true",
		"PENGVIZ_SESSION_TTL":    "2m",
		"PENGVIZ_INPUTS_SPECIES": "Adelie, Chinstrap",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))
	require.NoError(t, cfg.Validate())

	spec := cfg.DatasetSpec()
	assert.Equal(t, dataset.KindS3, spec.Kind)
	assert.Equal(t, "datasets", spec.S3.Bucket)
	assert.True(t, spec.S3.PathStyle)
	assert.Equal(t, 2*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, []string{"Adelie", "Chinstrap"}, cfg.Inputs.Species)

	env["PENGVIZ_SESSION_TTL"] = "soon"
	assert.ErrorIs(t, DefaultConfig().ApplyEnv(lookup), ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"unknown kind":      func(c *Config) { c.Dataset.Kind = "ftp" },
		"file without path": func(c *Config) { c.Dataset.Kind = "file" },
		"postgres no dsn":   func(c *Config) { c.Dataset.Kind = "postgres" },
		"s3 no bucket":      func(c *Config) { c.Dataset.Kind = "s3" },
		"bad species":       func(c *Config) { c.Inputs.Species = []string{"Emperor"} },
		"bad attribute":     func(c *Config) { c.Inputs.Attribute = "wingspan" },
		"negative ttl":      func(c *Config) { c.Server.SessionTTL = -time.Second },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestEmptySpeciesIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Inputs.Species = nil
	in, err := cfg.SessionInputs()
	require.NoError(t, err)
	assert.Zero(t, in.Species.Len())
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("gentoo")
	require.NotNil(t, p)
	in, err := p.SessionInputs()
	require.NoError(t, err)
	assert.Equal(t, "Gentoo", in.Species.Key())
	assert.Equal(t, penguin.BodyMass, in.Attribute)

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"all", "bills", "dream", "flippers", "gentoo"}, names)
	for _, name := range names {
		_, err := GetPreset(name).SessionInputs()
		assert.NoError(t, err, name)
	}
}

func TestDefaultDatasetSpecKeepsSQLRowOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "penguins.db")

	db, err := sql.Open(dataset.DriverSQLite, path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE penguins (id INTEGER, species TEXT, island TEXT, bill_length_mm REAL, bill_depth_mm REAL, flipper_length_mm REAL, body_mass_g REAL, sex TEXT, year INTEGER)`,
		`INSERT INTO penguins VALUES (2, 'Adelie', 'Torgersen', 39.5, 17.4, 186, 3800, 'female', 2007)`,
		`INSERT INTO penguins VALUES (3, 'Adelie', 'Torgersen', 40.3, 18.0, 195, 3250, 'female', 2007)`,
		`INSERT INTO penguins VALUES (1, 'Adelie', 'Torgersen', 39.1, 18.7, 181, 3750, 'male', 2007)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	cfg := DefaultConfig()
	cfg.Dataset.Kind = string(dataset.KindSQLite)
	cfg.Dataset.Path = path
	require.NoError(t, cfg.Validate())

	src, err := dataset.Open(ctx, cfg.DatasetSpec())
	require.NoError(t, err)
	records, err := src.Load(ctx)
	require.NoError(t, err)

	got := make([]float64, len(records))
	for i, r := range records {
		got[i] = r.BillLength
	}
	assert.Equal(t, []float64{39.1, 39.5, 40.3}, got)
}
