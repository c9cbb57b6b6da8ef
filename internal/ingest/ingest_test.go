package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areacodes/internal/areacode"
	"areacodes/internal/areaerr"
	"areacodes/internal/snapshot"
)

type recordTarget struct {
	years  []int
	codes  map[int]int
	failAt int
}

func (r *recordTarget) Name() string { return "record" }

func (r *recordTarget) LoadYear(_ context.Context, snap *snapshot.Snapshot) error {
	if snap.Year == r.failAt {
		return &areaerr.IOError{Op: "load", Path: "record", Err: errors.New("down")}
	}
	r.years = append(r.years, snap.Year)
	if r.codes == nil {
		r.codes = map[int]int{}
	}
	r.codes[snap.Year] = snap.Len()
	return nil
}

func snapshotDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"2016.txt": "110000\t北京市\n110101\t东城区\n110102\t西城区\n",
		"2015.txt": "110000\t北京市\n110101\t东城区\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestRun_loadsYearsInOrder(t *testing.T) {
	t.Parallel()

	src, err := snapshot.NewDirSource(snapshotDir(t), "utf-8")
	require.NoError(t, err)
	dst := &recordTarget{}
	n, err := Run(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{2015, 2016}, dst.years)
	assert.Equal(t, map[int]int{2015: 2, 2016: 3}, dst.codes)
}

func TestRun_stopsOnTargetError(t *testing.T) {
	t.Parallel()

	src, err := snapshot.NewDirSource(snapshotDir(t), "utf-8")
	require.NoError(t, err)
	dst := &recordTarget{failAt: 2016}
	n, err := Run(context.Background(), src, dst)

	var ioErr *areaerr.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{2015}, dst.years)
}

func TestHashFields_sortedPairs(t *testing.T) {
	t.Parallel()

	snap := snapshot.New(2020, "test")
	snap.Put(areacode.Code(110102), "西城区")
	snap.Put(areacode.Code(110101), "东城区")
	assert.Equal(t, []any{"110101", "东城区", "110102", "西城区"}, hashFields(snap))
	assert.Empty(t, hashFields(snapshot.New(2021, "test")))
}
