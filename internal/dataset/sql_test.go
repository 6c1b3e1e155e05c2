package dataset

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "penguins.db")

	want, err := Embedded().Load(ctx)
	require.NoError(t, err)

	require.NoError(t, WriteSQL(ctx, DriverSQLite, path, "", want))

	got, err := SQL(DriverSQLite, path, "", "id").Load(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("sqlite records differ from csv (-want +got):\n%s", diff)
	}
}

func TestSQLInvalidTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "penguins.db")

	_, err := SQL(DriverSQLite, path, "penguins; DROP TABLE x", "").Load(ctx)
	assert.True(t, errors.Is(err, ErrInvalidTable))

	_, err = SQL(DriverSQLite, path, "penguins", "id desc").Load(ctx)
	assert.True(t, errors.Is(err, ErrInvalidTable))

	err = WriteSQL(ctx, DriverSQLite, path, "1bad", nil)
	assert.True(t, errors.Is(err, ErrInvalidTable))
}

func TestSQLMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	_, err := SQL(DriverSQLite, path, "", "").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query penguins")
}

func TestSQLOpenFailure(t *testing.T) {
	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("no driver") }
	t.Cleanup(func() { sqlOpen = orig })

	_, err := SQL(DriverPostgres, "postgres://localhost/none", "", "").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open pgx")
}

func TestSelectQuery(t *testing.T) {
	q, err := selectQuery("public.penguins", []string{"species", "bill_length_mm"}, "id")
	require.NoError(t, err)
	assert.Equal(t, "SELECT species, bill_length_mm FROM public.penguins ORDER BY id", q)

	q, err = selectQuery("penguins", []string{"species"}, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT species FROM penguins", q)

	assert.Equal(t, "$1, $2, $3", placeholders(DriverPostgres, 3))
	assert.Equal(t, "?, ?", placeholders(DriverSQLite, 2))
}

func execSQLite(t *testing.T, path string, stmts ...string) {
	t.Helper()
	db, err := sql.Open(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

func TestSQLDefaultOrderIsID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shuffled.db")
	// id is a plain column, so a bare scan returns insertion order.
	execSQLite(t, path,
		`CREATE TABLE penguins (id INTEGER, species TEXT, bill_length_mm REAL, bill_depth_mm REAL, body_mass_g REAL)`,
		`INSERT INTO penguins VALUES (3, 'Chinstrap', 46.5, 17.9, 3500)`,
		`INSERT INTO penguins VALUES (1, 'Adelie', 39.1, 18.7, 3750)`,
		`INSERT INTO penguins VALUES (2, 'Gentoo', 46.1, 13.2, 4500)`,
	)

	got, err := SQL(DriverSQLite, path, "", "").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Adelie", string(got[0].Species))
	assert.Equal(t, "Gentoo", string(got[1].Species))
	assert.Equal(t, "Chinstrap", string(got[2].Species))

	got, err = SQL(DriverSQLite, path, "", "body_mass_g").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Chinstrap", string(got[0].Species))
}

func TestSQLRequiredColumnsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrow.db")
	execSQLite(t, path,
		`CREATE TABLE penguins (species TEXT, bill_length_mm REAL, bill_depth_mm REAL, body_mass_g REAL)`,
		`INSERT INTO penguins VALUES ('Adelie', 39.1, 18.7, 3750)`,
		`INSERT INTO penguins VALUES ('Gentoo', NULL, 13.2, 4500)`,
	)

	got, err := SQL(DriverSQLite, path, "", "").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 39.1, got[0].BillLength)
	assert.Equal(t, 3750.0, got[0].BodyMass)
	assert.Empty(t, got[0].Island)
	assert.Zero(t, got[0].Year)
	assert.True(t, math.IsNaN(got[0].FlipperLength))
	assert.True(t, math.IsNaN(got[1].BillLength))
}

func TestSQLMissingRequiredColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.db")
	execSQLite(t, path,
		`CREATE TABLE penguins (species TEXT, bill_length_mm REAL, bill_depth_mm REAL)`,
		`INSERT INTO penguins VALUES ('Adelie', 39.1, 18.7)`,
	)

	_, err := SQL(DriverSQLite, path, "", "").Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "body_mass_g")
}
