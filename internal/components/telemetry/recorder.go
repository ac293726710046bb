package telemetry

import "sync"

type ReportKind int

const (
	ReportKindBroken ReportKind = iota
	ReportKindWarning
	ReportKindDebug
)

type Report struct {
	Kind   ReportKind
	ID     string
	Params []any
}

// Recorder is an API that keeps every report in memory, it is meant for
// asserting on reports in tests.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *Recorder) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: ReportKindBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: ReportKindWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: ReportKindDebug, ID: msg, Params: params})
}

// Reports returns a copy of the reports of the given kind.
func (r *Recorder) Reports(kind ReportKind) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}
