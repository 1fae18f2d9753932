package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"find the mug price", "find_the_mug_price"},
		{"already-safe_name42", "already-safe_name42"},
		{"", "task"},
		{"../../etc/passwd", "_________etc_passwd"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitize(tc.in), "input %q", tc.in)
	}
}

func TestSanitize_TruncatesLongTasks(t *testing.T) {
	out := sanitize(strings.Repeat("a", 200))
	assert.Len(t, out, 60)
}
