package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesFor(t *testing.T) {
	assert.Equal(t, 2, LinesFor(0, 80))
	assert.Equal(t, 2, LinesFor(80, 80))
	assert.Equal(t, 3, LinesFor(81, 80))
	assert.Equal(t, 3, LinesFor(100, 0))
}

func TestClearPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	ClearPreviousLines(&buf, 10)

	assert.Equal(t, 2, strings.Count(buf.String(), "\x1b[2K"))
	assert.Equal(t, 1, strings.Count(buf.String(), "\x1b[1A"))
}
