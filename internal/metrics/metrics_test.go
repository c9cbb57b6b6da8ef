package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	SnapshotsTotal.Inc()
	ChangesTotal.WithLabelValues("created").Add(3)

	path := filepath.Join(t.TempDir(), "areacodes.prom")
	require.NoError(t, WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "areacodes_snapshots_total")
	assert.Contains(t, string(b), `areacodes_changes_total{kind="created"}`)
	assert.GreaterOrEqual(t, testutil.ToFloat64(ChangesTotal.WithLabelValues("created")), 3.0)
}
