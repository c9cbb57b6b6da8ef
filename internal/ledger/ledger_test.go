package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areacodes/internal/areacode"
	"areacodes/internal/areaerr"
)

const testCode areacode.Code = 110101

func TestUpsert_createsRecord(t *testing.T) {
	t.Parallel()

	l := New()
	change, err := l.Upsert(testCode, "东城区", 2015)
	require.NoError(t, err)
	assert.Equal(t, Created, change)

	r, ok := l.Get(testCode)
	require.True(t, ok)
	assert.Equal(t, []string{"东城区"}, r.Names())
	assert.Equal(t, []int{2015}, r.Times())
	assert.False(t, r.Deprecated)
}

func TestUpsert_sameNameIsIdempotent(t *testing.T) {
	t.Parallel()

	l := New()
	_, err := l.Upsert(testCode, "A", 2015)
	require.NoError(t, err)

	change, err := l.Upsert(testCode, "A", 2016)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, change)

	r, _ := l.Get(testCode)
	assert.Len(t, r.Entries, 1)
}

func TestUpsert_renameRoundTrip(t *testing.T) {
	t.Parallel()

	l := New()
	for i, name := range []string{"A", "B", "B"} {
		_, err := l.Upsert(testCode, name, 2015+i)
		require.NoError(t, err)
	}

	r, _ := l.Get(testCode)
	assert.Equal(t, []string{"A", "B"}, r.Names())
	assert.Equal(t, []int{2015, 2016}, r.Times())
}

func TestDeprecateReactivateRoundTrip(t *testing.T) {
	t.Parallel()

	l := New()
	_, err := l.Upsert(testCode, "N", 1)
	require.NoError(t, err)

	ok, err := l.MarkDeprecated(testCode, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	change, err := l.Upsert(testCode, "N", 3)
	require.NoError(t, err)
	assert.Equal(t, Reactivated, change)

	r, _ := l.Get(testCode)
	assert.Equal(t, []string{"N", AbsentMark, "N"}, r.Names())
	assert.Equal(t, []int{1, 2, 3}, r.Times())
	assert.False(t, r.Deprecated)
}

func TestMarkDeprecated_noopWhenAlreadyDeprecated(t *testing.T) {
	t.Parallel()

	l := New()
	_, _ = l.Upsert(testCode, "A", 2015)
	_, _ = l.MarkDeprecated(testCode, 2016)

	ok, err := l.MarkDeprecated(testCode, 2017)
	require.NoError(t, err)
	assert.False(t, ok)

	r, _ := l.Get(testCode)
	assert.Equal(t, []int{2015, 2016}, r.Times())
	assert.True(t, r.Deprecated)
}

func TestMarkDeprecated_unknownCode(t *testing.T) {
	t.Parallel()

	ok, err := New().MarkDeprecated(testCode, 2015)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBeginYear_rejectsOutOfOrder(t *testing.T) {
	t.Parallel()

	l := New()
	require.NoError(t, l.CommitYear(2015))
	require.NoError(t, l.CommitYear(2016))
	assert.ErrorIs(t, l.BeginYear(2016), areaerr.ErrOutOfOrder)
	assert.ErrorIs(t, l.BeginYear(2014), areaerr.ErrOutOfOrder)
	assert.ErrorIs(t, l.CommitYear(2016), areaerr.ErrOutOfOrder)

	y, ok := l.LastYear()
	assert.True(t, ok)
	assert.Equal(t, 2016, y)
}

func TestBeginYear_doesNotRecordYear(t *testing.T) {
	t.Parallel()

	l := New()
	require.NoError(t, l.BeginYear(2016))
	_, ok := l.LastYear()
	assert.False(t, ok)
	require.NoError(t, l.BeginYear(2016))
}

func TestUpsert_rejectsEarlierYear(t *testing.T) {
	t.Parallel()

	l := New()
	_, _ = l.Upsert(testCode, "A", 2016)
	_, err := l.Upsert(testCode, "B", 2015)
	assert.ErrorIs(t, err, areaerr.ErrOutOfOrder)
}

func TestSeal_blocksMutation(t *testing.T) {
	t.Parallel()

	l := New()
	_, _ = l.Upsert(testCode, "A", 2015)
	l.Seal()

	_, err := l.Upsert(testCode, "B", 2016)
	assert.ErrorIs(t, err, areaerr.ErrSealed)
	_, err = l.MarkDeprecated(testCode, 2016)
	assert.ErrorIs(t, err, areaerr.ErrSealed)
	assert.ErrorIs(t, l.BeginYear(2016), areaerr.ErrSealed)
	assert.True(t, l.Sealed())
}

func TestCodes_sortedAscending(t *testing.T) {
	t.Parallel()

	l := New()
	for _, c := range []areacode.Code{110101, 110000, 120000, 110100} {
		_, _ = l.Upsert(c, "x", 2015)
	}
	assert.Equal(t, []areacode.Code{110000, 110100, 110101, 120000}, l.Codes())
	assert.Equal(t, 4, l.Len())
}

func TestUpsert_concurrentDistinctCodes(t *testing.T) {
	t.Parallel()

	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(c areacode.Code) {
			defer wg.Done()
			_, _ = l.Upsert(c, "x", 2015)
			_, _ = l.Upsert(c, "y", 2016)
		}(areacode.Code(110101 + i))
	}
	wg.Wait()

	assert.Equal(t, 200, l.Len())
	r, _ := l.Get(110150)
	assert.Equal(t, []string{"x", "y"}, r.Names())
}

func TestRecord_currentNameSkipsAbsent(t *testing.T) {
	t.Parallel()

	r := &AreaRecord{Code: testCode, Entries: []Entry{Present("A", 1), Present("B", 2), Absent(3)}, Deprecated: true}
	name, ok := r.CurrentName()
	assert.True(t, ok)
	assert.Equal(t, "B", name)

	c := r.Clone()
	c.Entries[0].Name = "Z"
	assert.Equal(t, "A", r.Entries[0].Name)
}
