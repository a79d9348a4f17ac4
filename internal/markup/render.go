// Package markup renders assistant text into safe HTML.
//
// Input is escaped before any formatting is recognised, so the only markup in
// the output is markup this package produced. The grammar is deliberately
// small: fenced and inline code, three heading levels, bold and italic,
// links, inline images, map links for coordinate pairs, flat lists and
// paragraphs.
package markup

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

type stage struct {
	name string
	run  func(*doc)
}

// pipeline order matters: each stage only sees text earlier stages left unstashed.
var pipeline = []stage{
	{"escape", escape},
	{"fenced-code", fencedCode},
	{"inline-code", inlineCode},
	{"headings", headings},
	{"emphasis", emphasis},
	{"markdown-links", markdownLinks},
	{"bare-links", bareLinks},
	{"images", images},
	{"geo", geo},
	{"lists", lists},
	{"paragraphs", paragraphs},
}

// Render never fails; empty input renders to "".
func Render(text string) string {
	if text == "" {
		return ""
	}
	d := newDoc(strings.ReplaceAll(text, "\r\n", "\n"))
	for _, s := range pipeline {
		s.run(d)
	}
	return d.expand(d.text)
}

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy

	blockEnds = strings.NewReplacer("<br>", " <br>", "</p>", " </p>", "</li>", " </li>",
		"</h1>", " </h1>", "</h2>", " </h2>", "</h3>", " </h3>", "</pre>", " </pre>")
	spaceRun = regexp.MustCompile(`\s+`)
)

func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() { strict = bluemonday.StrictPolicy() })
	return strict
}

// Preview renders text and reduces it to at most n runes of plain text.
func Preview(text string, n int) string {
	plain := strictPolicy().Sanitize(blockEnds.Replace(Render(text)))
	plain = strings.TrimSpace(spaceRun.ReplaceAllString(html.UnescapeString(plain), " "))
	r := []rune(plain)
	if n <= 0 || len(r) <= n {
		return plain
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
