package musicpal

import (
	"context"
	"errors"
	"fmt"
	"musicpal/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_device_new     = "device.new"
	report_device_run     = "device.run"
	report_device_extract = "device.extract"
)

var (
	tracer = otel.Tracer("musicpal.scrapers.musicpal")
	meter  = otel.Meter("musicpal.scrapers.musicpal")
)

// Output is the result of running a command against the device.
type Output struct {
	Command    string
	Lines      []string
	StatusCode int
	Body       []byte
	// Extracted is false for commands without an extractor.
	Extracted bool
}

// Device runs commands against a single device. Every call to Run issues
// exactly one request, nothing is kept between calls.
type Device struct {
	client   *client
	debug    bool
	tel      telemetry.API
	commands metric.Int64Counter
}

func NewDevice(opts Options, tel telemetry.API) (Device, error) {
	tel = telemetry.NewScopedAPI("musicpal", tel)

	client, err := newClient(opts, tel)
	if err != nil {
		tel.ReportBroken(report_device_new, err, opts.Host)
		return Device{}, err
	}

	commands, err := meter.Int64Counter(
		"musicpal.commands",
		metric.WithDescription("Commands sent to the device."),
	)
	if err != nil {
		return Device{}, err
	}

	return Device{
		client:   client,
		debug:    opts.Debug,
		tel:      tel,
		commands: commands,
	}, nil
}

// Run resolves name, sends it with args and interprets the response.
//
// The status code is checked after extraction so the output (and the body)
// is available even when the device answered with an error page. When both
// checks fail the errors are joined.
func (d Device) Run(ctx context.Context, name string, args []string) (Output, error) {
	cmd, err := Resolve(name)
	if err != nil {
		d.tel.ReportWarning(report_device_run, err)
		return Output{}, err
	}
	req, err := cmd.Build(args)
	if err != nil {
		d.tel.ReportWarning(report_device_run, err)
		return Output{}, err
	}

	ctx, span := tracer.Start(ctx, fmt.Sprintf("musicpal %s", cmd.Name))
	defer span.End()
	span.SetAttributes(
		attribute.String("musicpal.command", cmd.Name),
		attribute.String("musicpal.endpoint", cmd.Endpoint.String()),
	)

	res, err := d.client.Send(ctx, req)
	d.commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", cmd.Name),
		attribute.Bool("ok", err == nil && res.IsSuccess()),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send")
		if !errors.Is(err, context.Canceled) {
			d.tel.ReportBroken(report_device_run, fmt.Errorf("%s: %w", cmd.Name, err))
		}
		return Output{}, err
	}

	out := Output{
		Command:    cmd.Name,
		StatusCode: res.StatusCode,
		Body:       res.Body,
	}

	lines, extracted, extractErr := Extract(cmd.Name, res.Body, args)
	out.Extracted = extracted
	if extractErr != nil {
		d.tel.ReportBroken(report_device_extract, extractErr, res.Status)
	} else {
		out.Lines = lines
	}
	if !extracted && d.debug && len(res.Body) > 0 {
		out.Lines = []string{string(res.Body)}
	}

	var statusErr error
	if !res.IsSuccess() {
		statusErr = HTTPStatusError{StatusCode: res.StatusCode, Status: res.Status}
		d.tel.ReportWarning(report_device_run, cmd.Name, statusErr)
	}

	err = errors.Join(extractErr, statusErr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}
