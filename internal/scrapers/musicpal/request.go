package musicpal

import (
	"fmt"
	"net/url"
	"strings"
)

// Request is a fully built request to the device.
type Request struct {
	Command string
	Method  string
	Path    string
	// Params holds key/value parameters, it is nil for token-joined requests.
	Params url.Values
	// RawQuery holds the `&` joined tokens of token-joined requests.
	RawQuery string
}

// Query returns the query string the request is sent with.
func (r Request) Query() string {
	if r.Params == nil {
		return r.RawQuery
	}
	return r.Params.Encode()
}

// URL returns the path and query of the request, relative to the device.
func (r Request) URL() string {
	query := r.Query()
	if query == "" {
		return r.Path
	}
	return fmt.Sprintf("%s?%s", r.Path, query)
}

// Build turns the command and its arguments into a request, it fails with
// ErrInvalidArgument when the arguments don't fit the command.
func (c Command) Build(args []string) (Request, error) {
	switch c.Endpoint {
	case EndpointAdmin, EndpointDebug:
		return buildGeneric(c, args)
	case EndpointIPC:
		return buildTokens(c, args), nil
	case EndpointState:
		return buildFixed(c), nil
	}
	return Request{}, fmt.Errorf("%s: no request builder for endpoint %s", c.Name, c.Endpoint)
}

// buildGeneric sets `f` to the command name and layers the command's own
// parameters over it. noParams drops `f` as well.
func buildGeneric(c Command, args []string) (Request, error) {
	params := url.Values{}
	if _, suppress := c.params.(noParams); !suppress {
		params.Set("f", c.Name)
	}
	if c.params != nil {
		extra, err := c.params.params(args)
		if err != nil {
			return Request{}, err
		}
		for k, v := range extra {
			params.Set(k, v)
		}
	}

	return Request{
		Command: c.Name,
		Method:  c.HTTPMethod(),
		Path:    c.Endpoint.Path(),
		Params:  params,
	}, nil
}

// buildTokens joins the command name and arguments with a literal `&`, the
// ipc endpoint does not understand key/value pairs.
func buildTokens(c Command, args []string) Request {
	tokens := make([]string, 0, len(args)+1)
	tokens = append(tokens, quoteToken(c.Name))
	for _, a := range args {
		tokens = append(tokens, quoteToken(a))
	}
	return Request{
		Command:  c.Name,
		Method:   c.HTTPMethod(),
		Path:     c.Endpoint.Path(),
		RawQuery: strings.Join(tokens, "&"),
	}
}

func buildFixed(c Command) Request {
	return Request{
		Command: c.Name,
		Method:  c.HTTPMethod(),
		Path:    c.Endpoint.Path(),
		Params:  url.Values{"fav": {"0"}},
	}
}

const tokenSafe = "-._~:/?[]@!$&'()*+,;="

func isHex(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}

// quoteToken percent-encodes the bytes that cannot appear in a query as-is
// while leaving tokens like stream urls readable. Existing escapes are kept.
func quoteToken(token string) string {
	var out strings.Builder
	for i := 0; i < len(token); i++ {
		b := token[i]
		switch {
		case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
			out.WriteByte(b)
		case strings.IndexByte(tokenSafe, b) >= 0:
			out.WriteByte(b)
		case b == '%' && i+2 < len(token) && isHex(token[i+1]) && isHex(token[i+2]):
			out.WriteByte(b)
		default:
			fmt.Fprintf(&out, "%%%02X", b)
		}
	}
	return out.String()
}
