package markup

import (
	"regexp"
	"strconv"
	"strings"
)

// Finished markup is moved out of the working text into a stash and replaced
// by an opaque token, so later stages cannot see or rewrite it.
const (
	tokOpen  = "\x00"
	tokClose = "\x01"
)

var tokenRe = regexp.MustCompile(`\x00(\d+)\x01`)

type doc struct {
	text      string
	stash     []string
	blocks    map[int]bool
	autolinks []autolink
}

// autolink remembers a bare URL anchor so the image stage can swap it out.
type autolink struct {
	slot int
	url  string // unescaped
}

func newDoc(text string) *doc {
	return &doc{text: text, blocks: map[int]bool{}}
}

func (d *doc) hold(frag string) string {
	d.stash = append(d.stash, frag)
	return tokOpen + strconv.Itoa(len(d.stash)-1) + tokClose
}

// holdBlock stashes a fragment that must not be wrapped in a paragraph.
func (d *doc) holdBlock(frag string) string {
	tok := d.hold(frag)
	d.blocks[len(d.stash)-1] = true
	return tok
}

// startsWithBlock reports whether a line opens with a block-level token.
func (d *doc) startsWithBlock(line string) bool {
	line = strings.TrimLeft(line, " \t")
	loc := tokenRe.FindStringSubmatchIndex(line)
	if loc == nil || loc[0] != 0 {
		return false
	}
	n, _ := strconv.Atoi(line[loc[2]:loc[3]])
	return d.blocks[n]
}

// expand substitutes stashed fragments back, including tokens nested inside them.
// A fragment only references slots older than itself, so this terminates.
func (d *doc) expand(s string) string {
	for strings.Contains(s, tokOpen) {
		s = tokenRe.ReplaceAllStringFunc(s, func(tok string) string {
			n, err := strconv.Atoi(tok[1 : len(tok)-1])
			if err != nil || n >= len(d.stash) {
				return ""
			}
			return d.stash[n]
		})
		// stray delimiters without a valid slot
		if !tokenRe.MatchString(s) {
			s = strings.NewReplacer(tokOpen, "", tokClose, "").Replace(s)
		}
	}
	return s
}
