package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MSSkowron/CareAuth/pkg/crypto"
)

func TestHashPassword(t *testing.T) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader("s3cret\n"))
	cmd.SetArgs([]string{"hash-password", "--cost", "4"})

	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, crypto.CheckPassword("s3cret", hash))
}

func TestHashPasswordRejectsEmptyInput(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"hash-password", "--cost", "4"})

	assert.EqualError(t, cmd.Execute(), "empty password")
}

func TestVerifyTokenNeedsToken(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"verify-token"})

	assert.Error(t, cmd.Execute())
}
