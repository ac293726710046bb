package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"musicpal/internal/scrapers/musicpal"
	"musicpal/lib/testutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command in an environment without a user config.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(configEnv, "")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestList(t *testing.T) {
	res := execute(t, "list")
	require.NoError(t, res.err)

	var names []string
	for _, line := range strings.Split(res.stdout, "\n") {
		columns := strings.Split(line, "│")
		if len(columns) < 3 {
			continue
		}
		names = append(names, strings.TrimSpace(columns[1]))
	}

	expected := []string{"COMMAND"}
	for _, c := range musicpal.Commands() {
		expected = append(expected, c.Name)
	}
	require.Equal(t, expected, names)
	require.Contains(t, res.stdout, "ipc_send")
}

func TestRunState(t *testing.T) {
	fake := testutil.NewFakeDevice(t, testutil.Respond(
		http.StatusOK,
		"<html><body><status><volume>7</volume><power>on</power></status></body></html>",
	))

	res := execute(t, "--host", fake.Host(), "state")
	require.NoError(t, res.err)
	require.Equal(t, "volume            : 7\npower             : on\n", res.stdout)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "fav=0", requests[0].RawQuery)
	require.Equal(t, "admin", requests[0].Username)
	require.Equal(t, "admin", requests[0].Password)
}

func TestRunNormalizesCommand(t *testing.T) {
	fake := testutil.NewFakeDevice(t, testutil.Respond(http.StatusOK, `<img src="volume_on.gif">`))

	res := execute(t, "-H", fake.Host(), "-u", "user", "-p", "pass", "Volume-Set", "0")
	require.NoError(t, res.err)
	require.Equal(t, "Volume: 0\n", res.stdout)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "f=volume_set&n=..%2Fnowplaying.html&v=0", requests[0].RawQuery)
	require.Equal(t, "user", requests[0].Username)
	require.Equal(t, "pass", requests[0].Password)
}

func TestRunArgumentsAreNotFlags(t *testing.T) {
	fake := testutil.NewFakeDevice(t, testutil.Respond(http.StatusOK, "ok"))

	res := execute(t, "--host", fake.Host(), "show_msg_box", "-v", "hi")
	require.NoError(t, res.err)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "show_msg_box&-v&hi", requests[0].RawQuery)
}

func TestRunUnknownCommand(t *testing.T) {
	res := execute(t, "--host", testutil.ClosedHost(t), "stat")
	require.ErrorIs(t, res.err, musicpal.ErrUnknownCommand)
	require.Contains(t, res.err.Error(), "state")
	require.Empty(t, res.stdout)
}

func TestRunRequiresCommand(t *testing.T) {
	res := execute(t)
	require.Error(t, res.err)
}

func TestRunStatusError(t *testing.T) {
	fake := testutil.NewFakeDevice(t, testutil.Respond(http.StatusInternalServerError, "<p>broken</p>"))

	res := execute(t, "--host", fake.Host(), "--debug", "reboot")
	var statusErr musicpal.HTTPStatusError
	require.ErrorAs(t, res.err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	// commands without an extractor print the raw body in debug mode
	require.Contains(t, res.stdout, "<p>broken</p>")
}

func TestRunReadsConfigFile(t *testing.T) {
	fake := testutil.NewFakeDevice(t, testutil.Respond(http.StatusOK, "ok"))

	dir := t.TempDir()
	path := filepath.Join(dir, "musicpal.json5")
	config := fmt.Sprintf(`{
	// device on the test server
	host: "%s",
	username: "radio",
	password: "hunter2",
	dump_dir: "%s",
}`, fake.Host(), filepath.Join(dir, "dump"))
	require.NoError(t, os.WriteFile(path, []byte(config), 0600))

	res := execute(t, "--config", path, "next_song")
	require.NoError(t, res.err)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "radio", requests[0].Username)
	require.Equal(t, "hunter2", requests[0].Password)

	entries, err := os.ReadDir(filepath.Join(dir, "dump"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRunFlagsOverrideConfigFile(t *testing.T) {
	fake := testutil.NewFakeDevice(t, testutil.Respond(http.StatusOK, "ok"))

	path := filepath.Join(t.TempDir(), "musicpal.json5")
	config := fmt.Sprintf(`{host: "%s", username: "radio"}`, testutil.ClosedHost(t))
	require.NoError(t, os.WriteFile(path, []byte(config), 0600))

	res := execute(t, "--config", path, "--host", fake.Host(), "-u", "other", "next_song")
	require.NoError(t, res.err)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "other", requests[0].Username)
	require.Equal(t, "admin", requests[0].Password)
}

func TestRunMissingExplicitConfig(t *testing.T) {
	res := execute(t, "--config", filepath.Join(t.TempDir(), "missing.json5"), "state")
	require.ErrorIs(t, res.err, os.ErrNotExist)
}

func TestRunInvalidTimeout(t *testing.T) {
	res := execute(t, "--host", testutil.ClosedHost(t), "--timeout", "-1", "state")
	require.ErrorContains(t, res.err, "timeout")
}

func TestExitCode(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	testCases := []struct {
		name     string
		ctx      context.Context
		err      error
		expected int
	}{
		{name: "success", ctx: context.Background(), expected: 0},
		{name: "failure", ctx: context.Background(), err: errors.New("boom"), expected: 1},
		{name: "canceled error", ctx: context.Background(), err: fmt.Errorf("send: %w", context.Canceled), expected: ExitInterrupted},
		{name: "interrupted", ctx: canceled, err: errors.New("connection reset"), expected: ExitInterrupted},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, exitCode(test.ctx, test.err))
		})
	}
}
