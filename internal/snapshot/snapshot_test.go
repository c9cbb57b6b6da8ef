package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"areacodes/internal/areacode"
	"areacodes/internal/areaerr"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	code, name, err := ParseLine("110101\t东城区")
	require.NoError(t, err)
	assert.Equal(t, areacode.Code(110101), code)
	assert.Equal(t, "东城区", name)

	bad := map[string]error{
		"110101":      errLineTooShort,
		"11010x\t东城区": errInvalidCode,
		"110101 东城区":  errNoSeparator,
		"110101\t":    errEmptyName,
	}
	for line, want := range bad {
		_, _, err := ParseLine(line)
		assert.ErrorIs(t, err, want, line)
	}
}

func TestParse_lastLineWins(t *testing.T) {
	t.Parallel()

	in := "\uFEFF110000\t北京市\r\n110101\t东城区\n\n110101\t东城\n"
	snap, err := Parse(strings.NewReader(in), "2015.txt", 2015)
	require.NoError(t, err)

	assert.Equal(t, 2015, snap.Year)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, "北京市", snap.Names[110000])
	assert.Equal(t, "东城", snap.Names[110101])
	assert.Equal(t, []areacode.Code{110000, 110101}, snap.Codes())
	assert.True(t, snap.Has(110000))
	assert.False(t, snap.Has(120000))
}

func TestParse_malformedLineIsFatal(t *testing.T) {
	t.Parallel()

	in := "110000\t北京市\nabc\n"
	_, err := Parse(strings.NewReader(in), "2015.txt", 2015)

	var perr *areaerr.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, "2015.txt", perr.Source)
	assert.Equal(t, "line too short", perr.Reason)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirSource_yearsSortedNumerically(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "2016.txt", "110000\t北京市\n")
	writeFile(t, dir, "201807.txt", "110000\t北京市\n")
	writeFile(t, dir, "2015.txt", "110000\t北京市\n")
	writeFile(t, dir, "README.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2010.txt"), 0o755))

	src, err := NewDirSource(dir, "")
	require.NoError(t, err)
	years, err := src.Years(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2016, 201807}, years)

	snap, err := src.Load(context.Background(), 201807)
	require.NoError(t, err)
	assert.Equal(t, "北京市", snap.Names[110000])
}

func TestDirSource_nonNumericStem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "latest.txt", "110000\t北京市\n")

	src, err := NewDirSource(dir, "utf-8")
	require.NoError(t, err)
	_, err = src.Years(context.Background())

	var perr *areaerr.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "non-numeric file stem", perr.Reason)
}

func TestDirSource_missingDirectory(t *testing.T) {
	t.Parallel()

	src, err := NewDirSource(filepath.Join(t.TempDir(), "nope"), "")
	require.NoError(t, err)
	_, err = src.Years(context.Background())

	var ioErr *areaerr.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "readdir", ioErr.Op)
}

func TestDirSource_gbk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	encoded, err := simplifiedchinese.GBK.NewEncoder().String("110101\t东城区\n")
	require.NoError(t, err)
	writeFile(t, dir, "2015.txt", encoded)

	src, err := NewDirSource(dir, "GBK")
	require.NoError(t, err)
	_, err = src.Years(context.Background())
	require.NoError(t, err)
	snap, err := src.Load(context.Background(), 2015)
	require.NoError(t, err)
	assert.Equal(t, "东城区", snap.Names[110101])
}

func TestEncoding_unknown(t *testing.T) {
	t.Parallel()

	_, err := NewDirSource(".", "latin-1")
	assert.Error(t, err)
}

func TestRedisKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "areacodes:years", RedisKeys{}.Years())
	assert.Equal(t, "areacodes:snapshot:2015", RedisKeys{}.Snapshot(2015))
	assert.Equal(t, "x:snapshot:2016", RedisKeys{Prefix: "x:"}.Snapshot(2016))
}
