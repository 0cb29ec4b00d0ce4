package pretty_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sinclairtarget/git-fame/internal/concurrent"
	"github.com/sinclairtarget/git-fame/internal/pretty"
)

func TestProgressLine(t *testing.T) {
	pretty.SetColorEnabled(false)

	tests := []struct {
		name     string
		progress concurrent.Progress
		expected string
	}{
		{
			name:     "nothing finished",
			progress: concurrent.NewProgress(0, 1200, time.Second),
			expected: "[░░░░░░░░░░] Finished 0 of 1,200 (Remaining: 00:00:00)",
		},
		{
			name:     "partway",
			progress: concurrent.NewProgress(3, 10, 30*time.Second),
			expected: "[███░░░░░░░] Finished 3 of 10 (Remaining: 00:01:10)",
		},
		{
			name:     "done",
			progress: concurrent.NewProgress(10, 10, time.Hour),
			expected: "[██████████] Finished 10 of 10 (Remaining: 00:00:00)",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, pretty.ProgressLine(test.progress, 10))
		})
	}
}

func TestProgressBar(t *testing.T) {
	pretty.SetColorEnabled(false)

	var buf bytes.Buffer
	bar := pretty.NewProgressBar(&buf)

	bar.Finish()
	assert.Empty(t, buf.String())

	bar.Update(concurrent.NewProgress(1, 2, time.Second))
	bar.Update(concurrent.NewProgress(2, 2, 2*time.Second))
	bar.Finish()

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, pretty.EraseLine))
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "Finished 2 of 2")
}

func TestWarnf(t *testing.T) {
	pretty.SetColorEnabled(false)

	var buf bytes.Buffer
	pretty.Warnf(&buf, "%d files skipped", 3)
	assert.Equal(t, "warning: 3 files skipped\n", buf.String())

	buf.Reset()
	pretty.Errorf(&buf, "bad %s", "thing")
	assert.Equal(t, "error: bad thing\n", buf.String())
}
