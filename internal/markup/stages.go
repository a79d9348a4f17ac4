package markup

import (
	"html"
	"regexp"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	tokOpen, "",
	tokClose, "",
)

func escape(d *doc) { d.text = escaper.Replace(d.text) }

var fencedRe = regexp.MustCompile("(?s)```(?:[\\w+-]+\\n)?(.*?)```")

func fencedCode(d *doc) {
	d.text = fencedRe.ReplaceAllStringFunc(d.text, func(m string) string {
		code := fencedRe.FindStringSubmatch(m)[1]
		code = strings.TrimSuffix(strings.TrimPrefix(code, "\n"), "\n")
		return d.holdBlock("<pre><code>" + code + "</code></pre>")
	})
}

var inlineCodeRe = regexp.MustCompile("`([^`\\n]+)`")

func inlineCode(d *doc) {
	d.text = inlineCodeRe.ReplaceAllStringFunc(d.text, func(m string) string {
		return d.hold("<code>" + inlineCodeRe.FindStringSubmatch(m)[1] + "</code>")
	})
}

var headingRe = regexp.MustCompile(`(?m)^(#{1,3})[ \t]+(.+?)[ \t]*$`)

// headings leave their content in the text so inline stages still apply to it.
func headings(d *doc) {
	d.text = headingRe.ReplaceAllStringFunc(d.text, func(m string) string {
		sm := headingRe.FindStringSubmatch(m)
		tag := "h" + string(rune('0'+len(sm[1])))
		return d.holdBlock("<"+tag+">") + sm[2] + d.hold("</"+tag+">")
	})
}

var (
	boldStarRe   = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__([^_\n]+?)__`)
	italicStarRe = regexp.MustCompile(`\*([^*\s](?:[^*\n]*?[^*\s])?)\*`)
	// underscores inside words (snake_case, URLs) are not emphasis
	italicUnderRe = regexp.MustCompile(`(^|[^\w])_([^_\n]+?)_($|[^\w])`)
)

func emphasis(d *doc) {
	wrap := func(re *regexp.Regexp, tag string) {
		d.text = re.ReplaceAllStringFunc(d.text, func(m string) string {
			return d.hold("<"+tag+">") + re.FindStringSubmatch(m)[1] + d.hold("</"+tag+">")
		})
	}
	wrap(boldStarRe, "strong")
	wrap(boldUnderRe, "strong")
	wrap(italicStarRe, "em")
	d.text = italicUnderRe.ReplaceAllStringFunc(d.text, func(m string) string {
		sm := italicUnderRe.FindStringSubmatch(m)
		return sm[1] + d.hold("<em>") + sm[2] + d.hold("</em>") + sm[3]
	})
}

var mdLinkRe = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\s]+)\)`)

func markdownLinks(d *doc) {
	d.text = mdLinkRe.ReplaceAllStringFunc(d.text, func(m string) string {
		sm := mdLinkRe.FindStringSubmatch(m)
		label, href := sm[1], sm[2]
		if !safeHref(html.UnescapeString(href)) {
			return m
		}
		return d.hold(`<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + label + `</a>`)
	})
}

// safeHref allows http(s), mailto and scheme-less (relative) targets.
func safeHref(u string) bool {
	low := strings.ToLower(strings.TrimSpace(u))
	switch {
	case strings.HasPrefix(low, "http://"), strings.HasPrefix(low, "https://"), strings.HasPrefix(low, "mailto:"):
		return true
	}
	colon := strings.IndexByte(low, ':')
	if colon < 0 {
		return true
	}
	slash := strings.IndexAny(low, "/?#")
	return slash >= 0 && slash < colon
}

var (
	bareURLRe = regexp.MustCompile(`https?://[^\s\x00\x01)\]]+`)
	// escaped quotes and brackets end a URL
	urlStops = []string{"&quot;", "&#39;", "&lt;", "&gt;"}
)

func bareLinks(d *doc) {
	d.text = bareURLRe.ReplaceAllStringFunc(d.text, func(m string) string {
		u := m
		for _, s := range urlStops {
			if i := strings.Index(u, s); i >= 0 {
				u = u[:i]
			}
		}
		u = strings.TrimRight(u, ".,;:!?")
		rest := m[len(u):]
		if len(u) <= len("https://") {
			return m
		}
		tok := d.hold(`<a href="` + u + `" target="_blank" rel="noopener noreferrer">` + u + `</a>`)
		d.autolinks = append(d.autolinks, autolink{slot: len(d.stash) - 1, url: html.UnescapeString(u)})
		return tok + rest
	})
}

var (
	imageExtRe  = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp|svg)(\?|$)`)
	imageHostRe = regexp.MustCompile(`(?i)googleusercontent\.com|lh\d*\.googleusercontent|proxy/`)
)

func isImageURL(u string) bool { return imageExtRe.MatchString(u) || imageHostRe.MatchString(u) }

// images swaps autolinked image URLs for inline images that hide themselves on load failure.
func images(d *doc) {
	for _, al := range d.autolinks {
		if !isImageURL(al.url) {
			continue
		}
		src := escaper.Replace(al.url)
		d.stash[al.slot] = `<img src="` + src + `" class="inline-img" alt="image" loading="lazy" onerror="this.style.display='none'"/>`
	}
}

const coord = `([-+]?\d{1,3}(?:\.\d+)?)`

var geoRe = regexp.MustCompile(`(?i)\blat(?:itude)?\s*[:=]?\s*` + coord + `[\s,;]*(?:longitude|long|lng|lon)\s*[:=]?\s*` + coord)

// geo turns coordinate pairs into map links. Values are not range-checked.
func geo(d *doc) {
	d.text = geoRe.ReplaceAllStringFunc(d.text, func(m string) string {
		sm := geoRe.FindStringSubmatch(m)
		href := "https://www.google.com/maps?q=" + sm[1] + "," + sm[2]
		return d.hold(`<a class="inline-map" href="` + href + `" target="_blank" rel="noopener noreferrer">📍 View on map</a>`)
	})
}

var (
	bulletRe  = regexp.MustCompile(`^[ \t]*[-*+][ \t]+(.+)$`)
	orderedRe = regexp.MustCompile(`^[ \t]*\d+\.[ \t]+(.+)$`)
)

// lists groups runs of consecutive bullet or numbered lines into one list each.
func lists(d *doc) {
	lines := strings.Split(d.text, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		tag, re := "", (*regexp.Regexp)(nil)
		switch {
		case bulletRe.MatchString(lines[i]):
			tag, re = "ul", bulletRe
		case orderedRe.MatchString(lines[i]):
			tag, re = "ol", orderedRe
		default:
			out = append(out, lines[i])
			i++
			continue
		}
		var b strings.Builder
		b.WriteString("<" + tag + ">")
		for ; i < len(lines) && re.MatchString(lines[i]); i++ {
			b.WriteString("<li>" + strings.TrimSpace(re.FindStringSubmatch(lines[i])[1]) + "</li>")
		}
		b.WriteString("</" + tag + ">")
		out = append(out, d.holdBlock(b.String()))
	}
	d.text = strings.Join(out, "\n")
}

var blankRunRe = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)*`)

// paragraphs wraps runs of inline lines in <p>, joining them with <br>.
// Lines that open with a block element are emitted bare.
func paragraphs(d *doc) {
	var b strings.Builder
	for _, chunk := range blankRunRe.Split(strings.Trim(d.text, "\n"), -1) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		var run []string
		flush := func() {
			if len(run) > 0 {
				b.WriteString("<p>" + strings.Join(run, "<br>") + "</p>")
				run = nil
			}
		}
		for _, line := range strings.Split(chunk, "\n") {
			if d.startsWithBlock(line) {
				flush()
				b.WriteString(strings.TrimSpace(line))
				continue
			}
			run = append(run, line)
		}
		flush()
	}
	d.text = b.String()
}
