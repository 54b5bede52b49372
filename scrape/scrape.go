// Package scrape maps rendered booru HTML pages onto plain data records.
// Each page kind gets its own parser, all of them tolerate missing
// elements by falling back to zero values.
package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	nonDigit   = regexp.MustCompile(`[^\d]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// atoiOr parses an integer, falling back to zero on malformed input.
func atoiOr(text string) int {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return value
}

// digitsToInt drops every non-digit rune before parsing, e.g. "1,204" -> 1204.
func digitsToInt(text string) int {
	cleaned := nonDigit.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0
	}
	value, _ := strconv.Atoi(cleaned)
	return value
}

func collapseSpace(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// matchInt returns the first capture group of `pattern` as integer, zero
// when there is no match.
func matchInt(pattern *regexp.Regexp, text string) int {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	value, _ := strconv.Atoi(match[1])
	return value
}

func matchStrOr(pattern *regexp.Regexp, text string, defaultValue string) string {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return defaultValue
	}
	return match[1]
}

// resolveHref makes a listing href absolute against the board base URL.
func resolveHref(href string, baseURL string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return base.ResolveReference(ref).String()
}

// flattenText collects text content of a node tree. `<br>` elements are
// turned into newlines, every other tag is dropped.
func flattenText(node *html.Node, builder *strings.Builder) {
	if node == nil {
		return
	}

	if node.Type == html.TextNode {
		builder.WriteString(node.Data)
		return
	}

	if node.Type == html.ElementNode && node.DataAtom == atom.Br {
		builder.WriteString("\n")
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		flattenText(child, builder)
	}
}
