package terminal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_LineAndPassword(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  a@b.com \n p w \n"), &out)

	email, err := p.Line("Email: ")
	require.NoError(t, err)
	pw, err := p.Password("Password: ")
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", email)
	assert.Equal(t, " p w ", pw)
	assert.Equal(t, "Email: Password: ", out.String())
}

func TestPrompter_LastLineWithoutNewline(t *testing.T) {
	p := NewPrompter(strings.NewReader("Ann"), io.Discard)

	name, err := p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "Ann", name)

	_, err = p.Line("More: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_TTYPasswordUsesNoEcho(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(""), &out)
	p.isTTY = true

	pw, err := p.Password("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", pw)
	assert.Equal(t, "Password: \n", out.String())
}
