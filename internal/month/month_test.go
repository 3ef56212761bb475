package month

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse_Valid(t *testing.T) {
	m, err := Parse("2025-01")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01", m.Key())
}

func TestParse_RejectsBadKeys(t *testing.T) {
	for _, key := range []string{"2025-1", "2025-13", "2025-00", "202501", "jan 2025", "2025-01-15", ""} {
		_, err := Parse(key)
		assert.Error(t, err, "key %q should not parse", key)
	}
}

func TestKey_ZeroPads(t *testing.T) {
	assert.Equal(t, "2025-03", New(2025, time.March).Key())
	assert.Equal(t, "0999-12", New(999, time.December).Key())
}

func TestPrev_WrapsYear(t *testing.T) {
	assert.Equal(t, "2024-12", New(2025, time.January).Prev().Key())
	assert.Equal(t, "2025-06", New(2025, time.July).Prev().Key())
}

func TestNext_WrapsYear(t *testing.T) {
	assert.Equal(t, "2026-01", New(2025, time.December).Next().Key())
	assert.Equal(t, "2025-08", New(2025, time.July).Next().Key())
}

func TestFromTime_UsesUTC(t *testing.T) {
	// 2025-02-01T03:00+05:00 is still January in UTC.
	loc := time.FixedZone("plus5", 5*3600)
	ts := time.Date(2025, 2, 1, 3, 0, 0, 0, loc)
	assert.Equal(t, "2025-01", FromTime(ts).Key())
}

func TestStartEnd_CoverWholeMonth(t *testing.T) {
	m := New(2025, time.February)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), m.Start())
	assert.True(t, m.End().Before(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, m.Contains(m.Start()))
	assert.True(t, m.Contains(m.End()))
	assert.False(t, m.Contains(m.Next().Start()))
}

func TestBefore_LexicographicMatchesChronological(t *testing.T) {
	assert.True(t, New(2025, time.September).Before(New(2025, time.October)))
	assert.True(t, New(2025, time.December).Before(New(2026, time.January)))
	assert.False(t, New(2026, time.January).Before(New(2025, time.December)))
}
