package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sinclairtarget/git-fame/internal/format"
)

func TestAbbrev(t *testing.T) {
	assert.Equal(t, "alice", format.Abbrev("alice", 10))
	assert.Equal(t, "Jane D…", format.Abbrev("Jane Doe-Smith", 7))
	assert.Equal(t, "Zoë…", format.Abbrev("Zoë Smith", 4))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "0", format.Number(0))
	assert.Equal(t, "999", format.Number(999))
	assert.Equal(t, "12,345", format.Number(12345))
	assert.Equal(t, "1,000,000", format.Number(1_000_000))
}

func TestClock(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "00:00:00"},
		{"negative", -time.Second, "00:00:00"},
		{"seconds", 42 * time.Second, "00:00:42"},
		{"rounds", 1500 * time.Millisecond, "00:00:02"},
		{"minutes", 3*time.Minute + 7*time.Second, "00:03:07"},
		{"over a day", 26*time.Hour + time.Minute, "26:01:00"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, format.Clock(test.duration))
		})
	}
}
