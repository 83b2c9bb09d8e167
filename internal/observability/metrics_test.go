package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("wp-macros")

	m.RecordArtifact("table", true, "table_ece_summary.tex")
	m.RecordArtifact("table", false, "table_air_summary.tex")
	m.RecordArtifact("macros", false, "metrics_macros.tex")
	m.RecordDegraded("uncertainty", "missing")
	m.RecordFigureSkipped("renderer unavailable")
	m.RecordRun(nil)
	m.RecordRun(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ArtifactsWritten.WithLabelValues("table")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArtifactsWritten.WithLabelValues("macros")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlaceholderTables.WithLabelValues("table_ece_summary.tex")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DegradedInputs.WithLabelValues("uncertainty", "missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failure")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics("wp-hparams")
	b := NewMetrics("wp-hparams")

	a.RecordDegraded("config", "missing")
	assert.Zero(t, testutil.ToFloat64(b.DegradedInputs.WithLabelValues("config", "missing")))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics("wp-plots")
	m.RecordFigureSkipped("no AIR points")

	require.NoError(t, m.WriteTextfile(""))

	path := filepath.Join(t.TempDir(), "wp.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `whitepaper_gen_output_figures_skipped_total{reason="no AIR points",tool="wp-plots"} 1`))
}
