package musicpal

import (
	"context"
	"fmt"
	"musicpal/internal/components/assert"
	"musicpal/internal/components/telemetry"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_client_send = "client.send"

	DefaultTimeout = 10 * time.Second
)

type Credentials struct {
	Username string
	Password string
}

type Options struct {
	// Host is the hostname (optionally with a port) or base url of the device.
	Host        string
	Credentials Credentials
	// Timeout bounds every request, it defaults to DefaultTimeout.
	Timeout time.Duration
	// Debug makes Run return the raw body for commands without an extractor.
	Debug bool
	// DumpOutput receives every request/response pair when not nil.
	DumpOutput telemetry.MessageOutput
}

// Response is the raw answer of the device.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (r Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type client struct {
	http *resty.Client
	tel  telemetry.API
}

// baseUrl accepts "host", "host:port" or a full url.
func baseUrl(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("no device host given")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	parsed, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("parse device host: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("parse device host: %q has no hostname", host)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func newClient(opts Options, tel telemetry.API) (*client, error) {
	assert.NotNil(tel)

	base, err := baseUrl(opts.Host)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(base)
	httpClient.SetTimeout(timeout)
	httpClient.SetBasicAuth(opts.Credentials.Username, opts.Credentials.Password)
	httpClient.SetHeader("user-agent", "musicpal")
	httpClient.SetRetryCount(0)

	telemetry.InstrumentResty(httpClient, tel, opts.DumpOutput)

	return &client{http: httpClient, tel: tel}, nil
}

// Send performs a single request, any failure to get a response is returned
// as a TransportError. The status code is not checked.
func (c *client) Send(ctx context.Context, req Request) (Response, error) {
	c.tel.ReportDebug(report_client_send, req.Command, req.Method, req.URL())

	res, err := c.http.R().
		SetContext(ctx).
		Execute(req.Method, req.URL())
	if err != nil {
		return Response{}, TransportError{Cause: err}
	}

	return Response{
		StatusCode: res.StatusCode(),
		Status:     res.Status(),
		Body:       res.Body(),
	}, nil
}
