package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/volleyball-arena/internal/sim"
)

func TestSimulateCommand(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := RootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"simulate",
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--episodes", "3",
		"--seed", "4",
		"--max-steps", "50",
	})
	require.NoError(t, cmd.Execute())

	var rep sim.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, 3, rep.Episodes)
	assert.LessOrEqual(t, rep.Summary.Steps.Mean, 50.0)
}

func TestSimulateCommand_NoTermination(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	cmd := RootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"simulate",
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--max-steps", "0",
		"--terminal-prob", "0",
	})
	assert.ErrorIs(t, cmd.Execute(), sim.ErrNoTermination)
}
