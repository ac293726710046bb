package telemetry

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("musicpal", rec)

	scoped.ReportBroken("device.run", "cause")
	scoped.ReportWarning("device.extract")
	scoped.ReportDebug("request")

	broken := rec.Reports(ReportKindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "musicpal: device.run", broken[0].ID)
	require.Equal(t, []any{"cause"}, broken[0].Params)

	require.Equal(t, "musicpal: device.extract", rec.Reports(ReportKindWarning)[0].ID)
	require.Equal(t, "musicpal: request", rec.Reports(ReportKindDebug)[0].ID)
}

func TestSlogAPI(t *testing.T) {
	var buf bytes.Buffer
	api := SlogAPI{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	api.ReportBroken("device.run", errors.New("connection refused"), 3)
	api.ReportDebug("sending")

	out := buf.String()
	require.Contains(t, out, `msg="broken component" id=device.run params.0="connection refused" params.1=3`)
	require.Contains(t, out, "msg=sending")
}

func TestFormatHeaders(t *testing.T) {
	table := []struct {
		headers  http.Header
		expected string
	}{
		{headers: http.Header{}, expected: ""},
		{
			headers: http.Header{
				"User-Agent":    {"musicpal"},
				"Authorization": {"Basic YWRtaW46YWRtaW4="},
			},
			expected: "Authorization: <REDACTED>\nUser-Agent: musicpal",
		},
	}

	for _, row := range table {
		require.Equal(t, row.expected, formatHeaders(row.headers))
	}
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	output, err := NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}

	output.Write("0001.txt", "hello")

	contents, err := os.ReadFile(filepath.Join(dir, "0001.txt"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "hello", string(contents))
}
