package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pilab/internal/locale"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	run := &Run{
		Meta: RunMetadata{
			Method:         "series",
			Locale:         "en",
			Digits:         10,
			Engine:         "cpu",
			Terms:          100,
			PrecisionBits:  104,
			AccurateDigits: 6,
			AbsError:       2.5e-7,
			Report:         locale.English.ReportFilename(),
		},
		Report: "π to 10 digits:\n3.1415926536\n",
		Trace: []TracePoint{
			{Term: 10, Log10Error: -3.5},
			{Term: 100, Log10Error: -6.6},
		},
	}

	runID, err := st.Save(run)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "series", meta.Method)
	assert.Equal(t, 10, meta.Digits)
	assert.Equal(t, uint(104), meta.PrecisionBits)
	assert.InDelta(t, 2.5e-7, meta.AbsError, 1e-12)
	assert.False(t, meta.Timestamp.IsZero())

	trace, err := st.LoadTrace(runID)
	require.NoError(t, err)
	assert.Equal(t, run.Trace, trace)

	path, err := st.ReportPath(runID)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, run.Report, string(data))
}

func TestStoreWithoutTraceOrReport(t *testing.T) {
	st := New(t.TempDir())

	runID, err := st.Save(&Run{Meta: RunMetadata{Method: "montecarlo", Samples: 1000, Estimate: 3.14, Report: "ignored.txt"}})
	require.NoError(t, err)

	path, err := st.ReportPath(runID)
	require.NoError(t, err)
	assert.Empty(t, path)

	_, err = st.LoadTrace(runID)
	assert.True(t, os.IsNotExist(err))
}

func TestStoreReportNeedsName(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Save(&Run{Meta: RunMetadata{Method: "series"}, Report: "3.14\n"})
	assert.Error(t, err)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save(&Run{Meta: RunMetadata{Method: "series", Digits: 5}})
	require.NoError(t, err)
	second, err := st.Save(&Run{Meta: RunMetadata{Method: "montecarlo", Samples: 10}})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "garbage"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreLoadNotFound(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("nonexistent")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	for _, loc := range locale.All {
		report, err := Report(loc, 12, "3.141592653589", 5)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(report, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, loc.Header(12), lines[0])
		assert.Equal(t, []string{"3.141", "59265", "3589"}, lines[1:])
	}

	_, err := Report(locale.English, 1, "3.1", 0)
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteReport(dir, locale.Chinese, "report\n")
	require.NoError(t, err)
	assert.Equal(t, "π计算结果.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report\n", string(data))
}

func TestExportJSON(t *testing.T) {
	var buf strings.Builder
	meta := &RunMetadata{ID: "series_1", Method: "series", Digits: 3}

	require.NoError(t, ExportJSON(&buf, meta, []TracePoint{{Term: 1, Log10Error: -1}}))
	assert.Contains(t, buf.String(), `"id": "series_1"`)
	assert.Contains(t, buf.String(), `"log10_error": -1`)
}
