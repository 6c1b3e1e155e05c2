package export

import (
	"context"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/metrics"
	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	ds, err := dataset.Load(context.Background(), dataset.Embedded(), nil)
	require.NoError(t, err)
	sess := session.New(ds, session.DefaultInputs())
	t.Cleanup(sess.Close)
	return sess
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir(), WithLogger(zaptest.NewLogger(t)), WithMetrics(metrics.New()),
		WithImageSize(render.Size{Width: 400, Height: 300}))
	require.NoError(t, st.Init())

	sess := newSession(t)
	_, err := sess.Set(session.InputSpecies, "Gentoo")
	require.NoError(t, err)

	meta, err := st.Save(context.Background(), sess)
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, 124, meta.Rows)
	assert.Equal(t, map[string]int{"Gentoo": 124}, meta.Counts)
	assert.Equal(t, "Gentoo", meta.Inputs[session.InputSpecies])
	assert.Equal(t, "embedded:penguins.csv", meta.Source)

	for _, name := range render.OutputNames() {
		file, ok := meta.Files[name]
		require.True(t, ok, name)
		info, err := os.Stat(st.Path(meta.ID, file))
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), file)
	}
	assert.Equal(t, "static_histogram.png", meta.Files["static_histogram"])
	assert.Equal(t, "data_table.html", meta.Files["data_table"])

	f, err := os.Open(st.Path(meta.ID, "static_histogram.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())

	loaded, err := st.Load(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.Inputs, loaded.Inputs)
	assert.True(t, meta.Timestamp.Equal(loaded.Timestamp))

	rows, err := st.LoadRows(meta.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 125)
	assert.Equal(t, penguin.Header, rows[0])
	filtered := sess.Filtered()
	for i := 0; i < filtered.Len(); i++ {
		require.Equal(t, filtered.At(i).Fields(), rows[i+1], "row %d", i+1)
	}
}

func TestSaveEmptySelection(t *testing.T) {
	st := New(t.TempDir())
	sess := newSession(t)
	_, err := sess.Set(session.InputSpecies, "")
	require.NoError(t, err)

	meta, err := st.Save(context.Background(), sess)
	require.NoError(t, err)
	assert.Zero(t, meta.Rows)
	assert.Len(t, meta.Files, 5)

	rows, err := st.LoadRows(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{penguin.Header}, rows)
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	sess := newSession(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		ts := base.Add(time.Duration(2-i) * time.Hour)
		st.now = func() time.Time { return ts }
		meta, err := st.Save(context.Background(), sess)
		require.NoError(t, err)
		ids = append(ids, meta.ID)
	}
	require.NoError(t, os.MkdirAll(st.Path("not-a-snapshot", ""), 0o755))

	snaps, err := st.List()
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, ids[2], snaps[0].ID)
	assert.Equal(t, ids[0], snaps[2].ID)
}

func TestListMissingDir(t *testing.T) {
	snaps, err := New(t.TempDir() + "/absent").List()
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.LoadRows("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveCanceled(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Save(ctx, newSession(t))
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed snapshot must be removed")
}
