package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/loopviz/internal/metrics"
	"github.com/san-kum/loopviz/internal/scenario"
	"github.com/san-kum/loopviz/internal/trace"
)

func verified(t *testing.T, name string) (scenario.Scenario, *trace.Report) {
	t.Helper()
	store, err := scenario.Default()
	require.NoError(t, err)
	_, sc, err := store.Lookup(name)
	require.NoError(t, err)
	rep, err := trace.Verify(context.Background(), sc, trace.Options{})
	require.NoError(t, err)
	return sc, rep
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	sc, rep := verified(t, "Simple Timeout")
	runID, err := st.Save(rep, metrics.Collect(sc))
	require.NoError(t, err)
	assert.Contains(t, runID, "simple-timeout_")

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "Simple Timeout", meta.Scenario)
	assert.True(t, meta.OK)
	assert.Equal(t, -1, meta.Mismatch)
	assert.Equal(t, []string{"Start", "End", "Timeout"}, meta.Traced)
	assert.Equal(t, 7.0, meta.Metrics["steps"])

	events, err := st.LoadEvents(runID)
	require.NoError(t, err)
	assert.Equal(t, rep.Result.Events, events)
}

func TestStoreSave_SameSecond(t *testing.T) {
	st := New(t.TempDir())
	fixed := time.Unix(1700000000, 0)
	st.now = func() time.Time { return fixed }

	_, rep := verified(t, "Async/Await")
	first, err := st.Save(rep, nil)
	require.NoError(t, err)
	second, err := st.Save(rep, nil)
	require.NoError(t, err)

	assert.Equal(t, "async-await_1700000000", first)
	assert.Equal(t, "async-await_1700000000_2", second)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	base := time.Unix(1700000000, 0)
	for i, name := range []string{"Basic setTimeout", "Promise vs setTimeout"} {
		at := base.Add(time.Duration(i) * time.Minute)
		st.now = func() time.Time { return at }
		_, rep := verified(t, name)
		_, err := st.Save(rep, nil)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Basic setTimeout", runs[0].Scenario)
	assert.Equal(t, "Promise vs setTimeout", runs[1].Scenario)
}

func TestStoreSave_NoResult(t *testing.T) {
	_, err := New(t.TempDir()).Save(&trace.Report{}, nil)
	require.Error(t, err)
}

func TestLoadEvents_Missing(t *testing.T) {
	_, err := New(t.TempDir()).LoadEvents("nope")
	require.True(t, os.IsNotExist(err))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Simple Timeout":         "simple-timeout",
		"Promise and setTimeout": "promise-and-settimeout",
		"Async/Await":            "async-await",
		"  ??  ":                 "run",
	}
	for in, want := range tests {
		assert.Equal(t, want, slug(in), in)
	}
}

func TestExportJSON(t *testing.T) {
	store, err := scenario.Default()
	require.NoError(t, err)
	sc, err := store.Get(1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, sc))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sc.Name, got.Name)
	assert.Equal(t, sc.Len(), got.Total)
	assert.Contains(t, buf.String(), `"microtaskQueue"`)
}

func TestExportCSV(t *testing.T) {
	store, err := scenario.Default()
	require.NoError(t, err)
	sc, err := store.Get(0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, sc))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, sc.Len()+1)
	assert.Equal(t, "step", records[0][0])

	last := records[len(records)-1]
	assert.Equal(t, "7", last[0])
	assert.Equal(t, "Timeout", last[len(last)-1])
	// Simple Timeout never shows the microtask queue.
	assert.Equal(t, "", last[2+4])
}
