package musicpal

import (
	"bytes"
	"fmt"
	"math"
	"musicpal/pkg/htmlutil"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// alternating rows of the favorites table carry this class
	alternatingRowClass = "alt"
	contentSelector     = "#content"
	volumeOnIcon        = "volume_on.gif"
	stateNameWidth      = 18
)

// maxDurationSeconds is the first number of seconds a time.Duration cannot hold.
const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// extractor turns the page a command returned into output lines. It must not
// modify the document.
type extractor func(doc *goquery.Document, args []string) ([]string, error)

var extractors = map[string]extractor{
	"favorites":   extractFavorites,
	"info":        extractInfo,
	"log":         extractLog,
	"now_playing": extractNowPlaying,
	"state":       extractState,
	"uptime":      extractUptime,
	"volume_set":  extractVolume,
}

// HasExtractor reports whether the output of command is interpreted.
func HasExtractor(command string) bool {
	_, ok := extractors[command]
	return ok
}

// Extract parses body and runs the extractor of command on it. ok is false if
// the command has no extractor. The device writes empty elements as `<x/>`,
// they are expanded before parsing so they stay empty.
func Extract(command string, body []byte, args []string) (lines []string, ok bool, err error) {
	extract, ok := extractors[command]
	if !ok {
		return nil, false, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlutil.ExpandSelfClosing(body)))
	if err != nil {
		return nil, true, ExtractionError{Command: command, Reason: fmt.Sprintf("parse html: %s", err.Error())}
	}
	lines, err = extract(doc, args)
	return lines, true, err
}

func extractState(doc *goquery.Document, _ []string) ([]string, error) {
	root := doc.Find("body").Children().First()
	if root.Length() == 0 {
		return nil, ExtractionError{Command: "state", Reason: "no status node"}
	}

	var lines []string
	for _, child := range htmlutil.Wrap(root.Nodes[0]).Children() {
		if !child.IsElement() {
			continue
		}
		lines = append(lines, fmt.Sprintf(
			"%-*.*s: %s",
			stateNameWidth, stateNameWidth,
			child.Tag(),
			child.Text(),
		))
	}
	return lines, nil
}

// findAttr returns the value of the first node carrying key, searching sel
// itself, its descendants and its following siblings in document order.
func findAttr(sel *goquery.Selection, key string) (string, bool) {
	var search func(n *html.Node) (string, bool)
	search = func(n *html.Node) (string, bool) {
		if n.Type == html.ElementNode {
			if value, ok := htmlutil.Wrap(n).Attr(key); ok {
				return value, true
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if value, ok := search(child); ok {
				return value, true
			}
		}
		return "", false
	}

	for _, start := range sel.Nodes {
		for n := start; n != nil; n = n.NextSibling {
			if value, ok := search(n); ok {
				return value, true
			}
		}
	}
	return "", false
}

func extractFavorites(doc *goquery.Document, args []string) ([]string, error) {
	if len(args) > 0 {
		idx, ok := canonicalIndex(args[0])
		if !ok {
			idx = args[0]
		}
		name, ok := doc.Find(fmt.Sprintf("[name_%s]", idx)).First().Attr("name_" + idx)
		if !ok {
			return []string{fmt.Sprintf("Favorite %s does not exist", idx)}, nil
		}
		return []string{fmt.Sprintf("Playing favorite %s: %s", idx, name)}, nil
	}

	var lines []string
	doc.Find("." + alternatingRowClass).Each(func(i int, row *goquery.Selection) {
		name, ok := findAttr(row, fmt.Sprintf("name_%d", i))
		if !ok {
			return
		}
		lines = append(lines, fmt.Sprintf("%d: %s", i, name))
	})
	return lines, nil
}

// extractInfo rebuilds the label/value layout of the info page: bold nodes
// start a line, spans and the text following a span continue it.
func extractInfo(doc *goquery.Document, _ []string) ([]string, error) {
	container := doc.Find(contentSelector).First()
	if container.Length() == 0 {
		return nil, ExtractionError{Command: "info", Reason: "no content container"}
	}

	var lines []string
	continueLine := func(text string) {
		if len(lines) == 0 {
			lines = append(lines, text)
			return
		}
		lines[len(lines)-1] += " " + text
	}

	for _, child := range htmlutil.Wrap(container.Nodes[0]).Children() {
		if child.IsComment() || child.Tag() == "div" {
			continue
		}
		text := child.Text()
		if text == "" {
			continue
		}

		switch child.Tag() {
		case "span":
			continueLine(text)
		case "b":
			lines = append(lines, text)
		default:
			if child.PrevSibling().Tag() == "span" {
				continueLine(text)
			} else {
				lines = append(lines, text)
			}
		}
	}
	return lines, nil
}

func extractLog(doc *goquery.Document, _ []string) ([]string, error) {
	textarea := doc.Find("textarea").First()
	if textarea.Length() == 0 {
		return nil, nil
	}
	text := strings.TrimSpace(textarea.Text())
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func extractNowPlaying(doc *goquery.Document, _ []string) ([]string, error) {
	container := doc.Find(contentSelector).First()
	if container.Length() == 0 {
		return nil, ExtractionError{Command: "now_playing", Reason: "no content container"}
	}
	return htmlutil.TextFragments(container.Nodes[0]), nil
}

func extractUptime(doc *goquery.Document, _ []string) ([]string, error) {
	fields := strings.Fields(doc.Text())
	if len(fields) != 2 {
		return nil, ExtractionError{
			Command: "uptime",
			Reason:  fmt.Sprintf("expected 2 tokens, got %d: %q", len(fields), strings.Join(fields, " ")),
		}
	}
	seconds, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return nil, ExtractionError{
			Command: "uptime",
			Reason:  fmt.Sprintf("%q is not a number of seconds", fields[1]),
		}
	}

	if seconds >= maxDurationSeconds {
		return nil, ExtractionError{
			Command: "uptime",
			Reason:  fmt.Sprintf("%q seconds is out of range", fields[1]),
		}
	}

	uptime := time.Duration(seconds * float64(time.Second))
	return []string{fmt.Sprintf("Uptime: %s", uptime)}, nil
}

func extractVolume(doc *goquery.Document, _ []string) ([]string, error) {
	count := 0
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if path.Base(img.AttrOr("src", "")) == volumeOnIcon {
			count++
		}
	})
	// one icon is always lit regardless of the volume
	if count == 0 {
		return nil, ExtractionError{Command: "volume_set", Reason: "no volume indicator"}
	}
	return []string{fmt.Sprintf("Volume: %d", count-1)}, nil
}
