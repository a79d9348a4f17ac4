package markup_test

import (
	"math/rand"
	"strings"
	"testing"

	"tapas_chat/internal/markup"
)

func TestRender_Empty(t *testing.T) {
	if got := markup.Render(""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_EscapesBeforeFormatting(t *testing.T) {
	got := markup.Render("<script>alert(1)</script>")
	if got != "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_ImageURL(t *testing.T) {
	got := markup.Render("Check https://example.com/pic.jpg")
	if !strings.Contains(got, `<img src="https://example.com/pic.jpg"`) || !strings.Contains(got, "onerror=") {
		t.Fatalf("expected inline image, got %q", got)
	}
	if strings.Contains(got, "<a ") {
		t.Fatalf("image URL must not stay a link: %q", got)
	}
}

func TestRender_GeoPairs(t *testing.T) {
	got := markup.Render("Lat:100 Lng:200")
	if !strings.Contains(got, `href="https://www.google.com/maps?q=100,200"`) {
		t.Fatalf("out of range pair still links: %q", got)
	}
	got = markup.Render("The fort is at latitude: 28.6139, longitude: 77.2090 today")
	if !strings.Contains(got, "maps?q=28.6139,77.2090") {
		t.Fatalf("long form: %q", got)
	}
}

func TestRender_Inline(t *testing.T) {
	cases := map[string]string{
		"**bold** and *it* and `code`": "<p><strong>bold</strong> and <em>it</em> and <code>code</code></p>",
		"_hi_ there":                   "<p><em>hi</em> there</p>",
		"`**not bold**`":               "<p><code>**not bold**</code></p>",
		"2 * 3 * 4":                    "<p>2 * 3 * 4</p>",
		"snake_case_name":              "<p>snake_case_name</p>",
	}
	for in, want := range cases {
		if got := markup.Render(in); got != want {
			t.Fatalf("Render(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRender_Blocks(t *testing.T) {
	got := markup.Render("## Plan\n- one\n- two\n\nThanks\nbye")
	want := "<h2>Plan</h2><ul><li>one</li><li>two</li></ul><p>Thanks<br>bye</p>"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if got := markup.Render("1. a\n2. b"); got != "<ol><li>a</li><li>b</li></ol>" {
		t.Fatalf("ordered: %q", got)
	}
	if got := markup.Render("```\n<b>x</b>\n```"); got != "<pre><code>&lt;b&gt;x&lt;/b&gt;</code></pre>" {
		t.Fatalf("fenced: %q", got)
	}
}

func TestRender_Links(t *testing.T) {
	got := markup.Render("[Site](https://x.com/a_b_c)")
	want := `<p><a href="https://x.com/a_b_c" target="_blank" rel="noopener noreferrer">Site</a></p>`
	if got != want {
		t.Fatalf("got %q", got)
	}

	if got := markup.Render("[x](javascript:alert(1))"); strings.Contains(got, "<a") {
		t.Fatalf("script scheme must not link: %q", got)
	}

	got = markup.Render("See https://example.com.")
	if !strings.Contains(got, `>https://example.com</a>.`) {
		t.Fatalf("trailing punctuation: %q", got)
	}
}

func TestRender_AttributeBreakout(t *testing.T) {
	got := markup.Render(`https://evil.com/"onmouseover="x`)
	if strings.Contains(got, `"onmouseover`) {
		t.Fatalf("quote escaped the attribute: %q", got)
	}
	if !strings.Contains(got, `href="https://evil.com/"`) {
		t.Fatalf("link should stop at the quote: %q", got)
	}
}

func TestRender_PlaceholderBytesAreDropped(t *testing.T) {
	got := markup.Render("a\x000\x01b")
	if got != "<p>a0b</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestPreview(t *testing.T) {
	if got := markup.Preview("## Title\nSome **bold** text", 100); got != "Title Some bold text" {
		t.Fatalf("got %q", got)
	}
	if got := markup.Preview("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate: %q", got)
	}
	if got := markup.Preview("Tom & Jerry", 0); got != "Tom & Jerry" {
		t.Fatalf("entities: %q", got)
	}
}

var hostile = []string{
	"<script>alert(1)</script>", "<SCRIPT src=//x>", "<scr<script>ipt>", "</p><script>",
	"<img src=x onerror=alert(1)>", "<iframe src=//x>", "[a](javascript:alert(1))",
	"[b](https://ok.example/\"onmouseover=\"alert(1))", "https://x.example/a.jpg\"><script>",
	"**", "*", "`", "```\n", "\n", "\n\n", "- ", "1. ", "# ", "### ",
	"Lat:12.9 Lng:77.6", "latitude: 1, longitude: 2", "plain words ", "&amp;", "\x00",
}

func TestRender_RandomInputNeverEmitsActiveMarkup(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 3000; i++ {
		var b strings.Builder
		for n := 1 + r.Intn(12); n > 0; n-- {
			b.WriteString(hostile[r.Intn(len(hostile))])
		}
		in := b.String()
		out := strings.ToLower(markup.Render(in))
		for _, bad := range []string{"<script", "<iframe", `href="javascript:`, `"onmouseover`} {
			if strings.Contains(out, bad) {
				t.Fatalf("input %q rendered %q containing %q", in, out, bad)
			}
		}
	}
}
