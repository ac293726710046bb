package telemetry

import (
	"fmt"
	"log/slog"
)

// SlogAPI implements API on top of a slog logger, a nil Logger means
// slog.Default().
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// attrs turns params into `params.<i>` attributes, errors are logged by
// message so they stay readable in the tint output.
func attrs(id string, params []any) []any {
	out := make([]any, 0, 2+len(params)*2)
	if id != "" {
		out = append(out, "id", id)
	}
	for i, p := range params {
		if err, ok := p.(error); ok {
			p = err.Error()
		}
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("broken component", attrs(id, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("warning", attrs(id, params)...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	s.logger().Debug(message, attrs("", params)...)
}
