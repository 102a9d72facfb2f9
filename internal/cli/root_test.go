package cli

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/helixlab/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{shell: "bash", want: "helixlab"},
		{shell: "zsh", want: "#compdef helixlab"},
		{shell: "fish", want: "complete -c helixlab"},
		{shell: "powershell", want: "Register-ArgumentCompleter"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"completion", tt.shell})

			require.NoError(t, cmd.Execute())
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestCompletionCommand_InvalidShell(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"completion", "tcsh"})
	assert.Error(t, cmd.Execute())
}

func TestRootCmd_FlagsReachConfig(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"version", "--resolution", "40", "--history-limit", "12", "-o", "json"})
	require.NoError(t, cmd.Execute())

	got := GetConfig()
	assert.Equal(t, 40, got.Helix.Resolution)
	assert.Equal(t, 12, got.History.Limit)
	assert.Equal(t, "json", got.OutputFormat)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"version", "--log-level", "loud"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
