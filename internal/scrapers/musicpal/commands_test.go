package musicpal

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRegistered(t *testing.T) {
	commands := Commands()
	require.NotEmpty(t, commands)

	for _, c := range commands {
		resolved, err := Resolve(c.Name)
		require.NoError(t, err, c.Name)
		require.Equal(t, c.Name, resolved.Name)
		require.Equal(t, c.Endpoint, resolved.Endpoint)
		require.NotEmpty(t, resolved.Endpoint.Path(), c.Name)
	}
}

func TestResolveUnknown(t *testing.T) {
	table := []struct {
		name       string
		suggestion string
	}{
		{name: "", suggestion: ""},
		{name: "zzzzzzzzzz", suggestion: ""},
		{name: "volme_set", suggestion: "volume_set"},
		{name: "favourites", suggestion: "favorites"},
		{name: "STATE", suggestion: ""},
	}

	for _, row := range table {
		_, err := Resolve(row.name)
		require.ErrorIs(t, err, ErrUnknownCommand, row.name)

		var unknown UnknownCommandError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, row.name, unknown.Name)
		if row.suggestion != "" {
			require.Equal(t, row.suggestion, unknown.Suggestion)
		}
	}
}

func TestCommandsDeclaredOrder(t *testing.T) {
	first := Commands()
	second := Commands()
	require.Equal(t, len(first), len(second))

	seen := map[string]bool{}
	for i := range first {
		require.Equal(t, first[i].Name, second[i].Name)
		require.False(t, seen[first[i].Name], "duplicate %s", first[i].Name)
		seen[first[i].Name] = true
	}
	require.Equal(t, "favorites", first[0].Name)
	require.Equal(t, "volume_set", first[len(first)-1].Name)

	// callers get a copy
	first[0].Name = "changed"
	require.Equal(t, "favorites", Commands()[0].Name)
}

func TestCommandMethods(t *testing.T) {
	table := []struct {
		name     string
		endpoint Endpoint
		method   string
	}{
		{name: "favorites", endpoint: EndpointAdmin, method: http.MethodGet},
		{name: "show_clock", endpoint: EndpointAdmin, method: http.MethodPost},
		{name: "uptime", endpoint: EndpointAdmin, method: http.MethodPost},
		{name: "log", endpoint: EndpointDebug, method: http.MethodPost},
		{name: "start_telnet_server", endpoint: EndpointDebug, method: http.MethodPost},
		{name: "play", endpoint: EndpointIPC, method: http.MethodGet},
		{name: "state", endpoint: EndpointState, method: http.MethodGet},
	}

	for _, row := range table {
		c, err := Resolve(row.name)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, row.endpoint, c.Endpoint, row.name)
		require.Equal(t, row.method, c.HTTPMethod(), row.name)
	}
}
