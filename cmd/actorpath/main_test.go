package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/najoast/actorpath/core"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	err := run(context.Background(), args, &stdout)
	return stdout.String(), err
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"canonical", []string{"render", "akka://sys/user/greeter"}, "akka://sys/user/greeter\n"},
		{"root", []string{"render", "akka://sys"}, "akka://sys/\n"},
		{"uid from path", []string{"render", "akka://sys/user#7"}, "akka://sys/user#7\n"},
		{"uid flag", []string{"render", "--uid", "42", "akka://sys/user"}, "akka://sys/user#42\n"},
		{"serialization", []string{"render", "--serialization", "akka://sys/user"}, "akka://sys/user\n"},
		{
			"remote address",
			[]string{"render", "--address", "akka://sys@10.0.0.1:2552", "akka://sys/user/a"},
			"akka://sys@10.0.0.1:2552/user/a\n",
		},
		{
			"remote path re-addressed",
			[]string{"render", "--address", "akka://local", "--serialization", "akka://sys@h:1/user/a"},
			"akka://local/user/a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	_, err := runCLI(t, "render")
	require.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, "render", "--address", "akka://x@h:1", "--uid", "3", "akka://sys/a")
	require.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, "render", "akka://sys/a#b/c")
	require.ErrorIs(t, err, core.ErrInvalidPath)

	_, err = runCLI(t, "render", "--address", "nonsense", "akka://sys/a")
	require.ErrorIs(t, err, core.ErrInvalidAddress)
}

func TestCompare(t *testing.T) {
	got, err := runCLI(t, "compare", "akka://sys/user/a", "akka://sys/user/b")
	require.NoError(t, err)
	require.Equal(t, "akka://sys/user/a < akka://sys/user/b\n", got)

	got, err = runCLI(t, "compare", "akka://other", "akka://sys/user")
	require.NoError(t, err)
	require.Equal(t, "akka://other/ > akka://sys/user\n", got)

	got, err = runCLI(t, "compare", "akka://sys/user", "akka://sys/user")
	require.NoError(t, err)
	require.Equal(t, "akka://sys/user = akka://sys/user\n", got)
}

func TestElements(t *testing.T) {
	got, err := runCLI(t, "elements", "akka://sys/user/greeter")
	require.NoError(t, err)
	require.Equal(t, "user\ngreeter\n", got)

	got, err = runCLI(t, "elements", "akka://sys/")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCLI(t, "frobnicate")
	require.ErrorIs(t, err, errUsage)

	_, err = runCLI(t)
	require.ErrorIs(t, err, errUsage)

	out, err := runCLI(t, "help")
	require.NoError(t, err)
	require.Contains(t, out, "Commands:")
}

func TestRunNode(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "node.yaml")
	require.NoError(t, os.WriteFile(file, []byte("node:\n  system: cli\nlog:\n  output: "+filepath.Join(dir, "node.log")+"\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var stdout bytes.Buffer
	require.NoError(t, run(ctx, []string{"run", "--config", file}, &stdout))

	data, err := os.ReadFile(filepath.Join(dir, "node.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "application started")

	_, err = runCLI(t, "run", "--watch")
	require.ErrorIs(t, err, errUsage)
}
