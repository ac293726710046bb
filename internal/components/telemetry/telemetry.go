package telemetry

import (
	"fmt"
)

// API is what components report their health through. Tests swap it for a
// Recorder to assert on what was reported.
type API interface {
	// ReportBroken reports a component that failed in a way the user should
	// know about.
	//
	// The `id` names the component, not the step that failed inside it. ex. a
	// failed request while running `uptime` is reported as `device.run` with
	// the command name and the wrapped error as params.
	//
	// ids are lowercase, dot separated `<component>.<operation>` pairs.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something unexpected that did not stop the
	// operation, ex. the device answering with an error page.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information that is only shown with --debug.
	ReportDebug(msg string, params ...any)
}

// ScopedAPI prefixes every id with a namespace, like a sub logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}
