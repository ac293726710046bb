package musicpal

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/antzucaro/matchr"
)

type Endpoint int

const (
	// EndpointAdmin is the admin cgi, it dispatches on the `f` parameter.
	EndpointAdmin Endpoint = iota
	// EndpointDebug is the debug cgi, same parameter style as admin.
	EndpointDebug
	// EndpointIPC takes bare `&` separated tokens instead of key/value pairs.
	EndpointIPC
	// EndpointState only ever takes `fav=0`.
	EndpointState
)

func (e Endpoint) String() string {
	switch e {
	case EndpointAdmin:
		return "admin"
	case EndpointDebug:
		return "debug"
	case EndpointIPC:
		return "ipc_send"
	case EndpointState:
		return "state"
	}
	return "unknown"
}

func (e Endpoint) Path() string {
	switch e {
	case EndpointAdmin:
		return "/admin/cgi-bin/admin.cgi"
	case EndpointDebug:
		return "/admin/cgi-bin/debug.cgi"
	case EndpointIPC:
		return "/admin/cgi-bin/ipc_send"
	case EndpointState:
		return "/admin/cgi-bin/state.cgi"
	}
	return ""
}

func (e Endpoint) DefaultMethod() string {
	if e == EndpointDebug {
		return http.MethodPost
	}
	return http.MethodGet
}

const (
	favoritesPage   = "../favorites.html"
	infoPage        = "../info.html"
	nowPlayingPage  = "../nowplaying.html"
	nowPlayingFrame = "nowplaying_frame"

	// the device answers with the current volume when given -1
	volumeQuery = "-1"
	maxVolume   = 20
)

// paramRule computes the parameters a generic cgi command adds on top of `f`.
type paramRule interface {
	params(args []string) (map[string]string, error)
}

// constParams are added as-is regardless of the arguments.
type constParams map[string]string

func (p constParams) params([]string) (map[string]string, error) {
	return p, nil
}

// argParams computes the parameters from the arguments.
type argParams func(args []string) (map[string]string, error)

func (p argParams) params(args []string) (map[string]string, error) {
	return p(args)
}

// noParams drops every parameter, including `f`.
type noParams struct{}

func (noParams) params([]string) (map[string]string, error) {
	return nil, nil
}

// Command describes how a command is sent to the device.
type Command struct {
	Name     string
	Endpoint Endpoint
	// Method overrides the endpoint's default method when not empty.
	Method      string
	Usage       string
	Description string

	params paramRule
}

// HTTPMethod returns the method the command is sent with.
func (c Command) HTTPMethod() string {
	if c.Method != "" {
		return c.Method
	}
	return c.Endpoint.DefaultMethod()
}

// canonicalIndex parses a non-negative integer and returns it without signs or
// leading zeros, `+1` and `01` both become `1`.
func canonicalIndex(arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return "", false
	}
	return strconv.Itoa(n), true
}

func favoritesParams(args []string) (map[string]string, error) {
	switch len(args) {
	case 0:
		return map[string]string{"n": favoritesPage}, nil
	case 1:
		idx, ok := canonicalIndex(args[0])
		if !ok {
			return nil, invalidArgument("favorites", "index %q is not a non-negative integer", args[0])
		}
		return map[string]string{"a": "select", "i": idx}, nil
	}
	return nil, invalidArgument("favorites", "expected at most 1 argument, got %d", len(args))
}

func volumeSetParams(args []string) (map[string]string, error) {
	switch len(args) {
	case 0:
		return map[string]string{"n": nowPlayingPage, "v": volumeQuery}, nil
	case 1:
		level, err := strconv.Atoi(args[0])
		if err != nil || level < 0 || level > maxVolume {
			return nil, invalidArgument("volume_set", "level %q is not an integer between 0 and %d", args[0], maxVolume)
		}
		return map[string]string{"n": nowPlayingPage, "v": strconv.Itoa(level)}, nil
	}
	return nil, invalidArgument("volume_set", "expected at most 1 argument, got %d", len(args))
}

var registry = []Command{
	{
		Name:        "favorites",
		Endpoint:    EndpointAdmin,
		Usage:       "favorites [index]",
		Description: "List favorites, or play the favorite at index.",
		params:      argParams(favoritesParams),
	},
	{
		Name:        "info",
		Endpoint:    EndpointAdmin,
		Usage:       "info",
		Description: "Show the device information page.",
		params:      constParams{"n": infoPage},
	},
	{
		Name:        "log",
		Endpoint:    EndpointDebug,
		Usage:       "log",
		Description: "Show the device log.",
		params:      noParams{},
	},
	{
		Name:        "menu_collapse",
		Endpoint:    EndpointIPC,
		Usage:       "menu_collapse",
		Description: "Collapse the on-screen menu.",
	},
	{
		Name:        "next_song",
		Endpoint:    EndpointAdmin,
		Usage:       "next_song",
		Description: "Skip to the next song.",
	},
	{
		Name:        "now_playing",
		Endpoint:    EndpointAdmin,
		Usage:       "now_playing",
		Description: "Show what is currently playing.",
		params:      constParams{"f": nowPlayingFrame, "n": nowPlayingPage},
	},
	{
		Name:        "play",
		Endpoint:    EndpointIPC,
		Usage:       "play <url>",
		Description: "Play a stream url.",
	},
	{
		Name:        "play_pause",
		Endpoint:    EndpointAdmin,
		Usage:       "play_pause",
		Description: "Toggle between play and pause.",
	},
	{
		Name:        "power_down",
		Endpoint:    EndpointIPC,
		Usage:       "power_down",
		Description: "Put the device into standby.",
	},
	{
		Name:        "power_up",
		Endpoint:    EndpointIPC,
		Usage:       "power_up",
		Description: "Wake the device from standby.",
	},
	{
		Name:        "reboot",
		Endpoint:    EndpointAdmin,
		Usage:       "reboot",
		Description: "Reboot the device.",
	},
	{
		Name:        "restart",
		Endpoint:    EndpointDebug,
		Usage:       "restart",
		Description: "Restart the player application.",
	},
	{
		Name:        "show_clock",
		Endpoint:    EndpointAdmin,
		Method:      http.MethodPost,
		Usage:       "show_clock",
		Description: "Show the clock on the display.",
	},
	{
		Name:        "show_list",
		Endpoint:    EndpointIPC,
		Usage:       "show_list",
		Description: "Show the station list on the display.",
	},
	{
		Name:        "show_msg_box",
		Endpoint:    EndpointIPC,
		Usage:       "show_msg_box <text...>",
		Description: "Show a message box on the display.",
	},
	{
		Name:        "start_telnet_server",
		Endpoint:    EndpointDebug,
		Usage:       "start_telnet_server",
		Description: "Start the telnet server on the device.",
		params:      constParams{"v": "true"},
	},
	{
		Name:        "state",
		Endpoint:    EndpointState,
		Usage:       "state",
		Description: "Show the player state.",
	},
	{
		Name:        "uptime",
		Endpoint:    EndpointAdmin,
		Method:      http.MethodPost,
		Usage:       "uptime",
		Description: "Show the device uptime.",
	},
	{
		Name:        "volume_dec",
		Endpoint:    EndpointAdmin,
		Usage:       "volume_dec",
		Description: "Decrease the volume by one step.",
	},
	{
		Name:        "volume_inc",
		Endpoint:    EndpointAdmin,
		Usage:       "volume_inc",
		Description: "Increase the volume by one step.",
	},
	{
		Name:        "volume_set",
		Endpoint:    EndpointAdmin,
		Usage:       "volume_set [0-20]",
		Description: "Set the volume, or show it when no level is given.",
		params:      argParams(volumeSetParams),
	},
}

var registryIndex = func() map[string]int {
	index := make(map[string]int, len(registry))
	for i, c := range registry {
		if _, exists := index[c.Name]; exists {
			panic("duplicate command " + c.Name)
		}
		index[c.Name] = i
	}
	return index
}()

// Commands returns every registered command in declared order.
func Commands() []Command {
	return slices.Clone(registry)
}

// suggestionThreshold is the minimum jaro-winkler similarity for a command to
// be suggested.
const suggestionThreshold = 0.8

// Resolve returns the command registered under name, or an error matching
// ErrUnknownCommand.
func Resolve(name string) (Command, error) {
	idx, ok := registryIndex[name]
	if ok {
		return registry[idx], nil
	}

	if name == "" {
		return Command{}, UnknownCommandError{Name: name}
	}

	best := ""
	bestScore := 0.0
	for _, c := range registry {
		score := matchr.JaroWinkler(name, c.Name, false)
		if score > bestScore {
			best = c.Name
			bestScore = score
		}
	}
	if bestScore < suggestionThreshold {
		best = ""
	}
	return Command{}, UnknownCommandError{Name: name, Suggestion: best}
}
