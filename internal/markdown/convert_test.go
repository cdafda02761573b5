package markdown

import (
	"strings"
	"testing"
)

// TestToMarkdown_Basic は基本的なHTML→Markdown変換を検証する。
func TestToMarkdown_Basic(t *testing.T) {
	c := NewConverter()

	got := c.ToMarkdown("<h1>Title</h1><p>Hello <strong>World</strong></p>")
	if !strings.Contains(got, "# Title") {
		t.Errorf("expected heading in output, got %q", got)
	}
	if !strings.Contains(got, "**World**") {
		t.Errorf("expected bold in output, got %q", got)
	}
}

// TestToMarkdown_Strikethrough は打ち消し線タグが ~~text~~ になることを検証する。
func TestToMarkdown_Strikethrough(t *testing.T) {
	c := NewConverter()

	for _, tag := range []string{"del", "s", "strike"} {
		got := c.ToMarkdown("<p>a <" + tag + ">gone</" + tag + "> b</p>")
		if !strings.Contains(got, "~~gone~~") {
			t.Errorf("tag %s: expected ~~gone~~ in output, got %q", tag, got)
		}
	}
}

// TestToMarkdown_StripsScriptAndStyle はscript/styleブロックが出力に残らないことを検証する。
func TestToMarkdown_StripsScriptAndStyle(t *testing.T) {
	c := NewConverter()

	input := `<p>keep</p><script>var x = "nope";</script><style>.a{color:red}</style>`
	got := c.ToMarkdown(input)
	if strings.Contains(got, "nope") || strings.Contains(got, "color:red") {
		t.Errorf("script/style content leaked into output: %q", got)
	}
	if !strings.Contains(got, "keep") {
		t.Errorf("expected body text in output, got %q", got)
	}
}

// TestToMarkdown_StripsConditionalComments はIE条件付きコメントの除去を検証する。
func TestToMarkdown_StripsConditionalComments(t *testing.T) {
	c := NewConverter()

	input := `<!--[if IE 9]><p>ie only</p><![endif]--><p>normal</p>`
	got := c.ToMarkdown(input)
	if strings.Contains(got, "ie only") {
		t.Errorf("conditional comment content leaked into output: %q", got)
	}
	if !strings.Contains(got, "normal") {
		t.Errorf("expected body text in output, got %q", got)
	}
}

// TestToMarkdown_ImagePreserved はimgタグがMarkdownの画像記法になることを検証する。
func TestToMarkdown_ImagePreserved(t *testing.T) {
	c := NewConverter()

	got := c.ToMarkdown(`<p><img src="/media/a.jpg" alt="alt text"></p>`)
	if !strings.Contains(got, "/media/a.jpg") {
		t.Errorf("expected image URL in output, got %q", got)
	}
}

// TestRewriteURLs は書き換えマップの適用を検証する。
func TestRewriteURLs(t *testing.T) {
	body := `<img src="https://ext.example/a.jpg" srcset="https://ext.example/a.jpg 1x, https://ext.example/b.jpg 2x">`
	relocations := map[string]string{
		"https://ext.example/a.jpg": "/media/posts/hello/a.jpg",
		"https://ext.example/b.jpg": "/media/posts/hello/b.jpg",
	}

	got := RewriteURLs(body, relocations)
	if strings.Contains(got, "ext.example") {
		t.Errorf("original URLs remain in output: %q", got)
	}
	if !strings.Contains(got, `src="/media/posts/hello/a.jpg"`) {
		t.Errorf("src attribute not rewritten: %q", got)
	}
	if !strings.Contains(got, "/media/posts/hello/b.jpg 2x") {
		t.Errorf("srcset token not rewritten: %q", got)
	}
}

// TestRewriteURLs_LongestFirst は前方部分文字列関係にあるURLで長い方が先に置換されることを検証する。
func TestRewriteURLs_LongestFirst(t *testing.T) {
	body := `<img src="https://ext.example/a.jpg?size=large"><img src="https://ext.example/a.jpg">`
	relocations := map[string]string{
		"https://ext.example/a.jpg":            "/media/posts/p/a.jpg",
		"https://ext.example/a.jpg?size=large": "/media/posts/p/a-large.jpg",
	}

	got := RewriteURLs(body, relocations)
	if !strings.Contains(got, "/media/posts/p/a-large.jpg") {
		t.Errorf("longer URL not rewritten to its own target: %q", got)
	}
	if !strings.Contains(got, `src="/media/posts/p/a.jpg"`) {
		t.Errorf("shorter URL not rewritten: %q", got)
	}
}

// TestRewriteURLs_AttributeExactMatch は属性値の完全一致だけが書き換わり、
// 移設URLを前方部分文字列に持つ別URLが壊れないことを検証する。
func TestRewriteURLs_AttributeExactMatch(t *testing.T) {
	body := `<img src="https://ext.example/a.png-large.png"><img src="https://ext.example/a.png">`
	relocations := map[string]string{
		"https://ext.example/a.png": "/media/posts/p/a.png",
	}

	got := RewriteURLs(body, relocations)
	if !strings.Contains(got, `src="https://ext.example/a.png-large.png"`) {
		t.Errorf("unrelated URL was corrupted: %q", got)
	}
	if !strings.Contains(got, `src="/media/posts/p/a.png"`) {
		t.Errorf("exact attribute value not rewritten: %q", got)
	}
}

// TestRewriteURLs_HrefAndSingleQuotes はhref属性とシングルクォートの属性値も
// 書き換え対象になることを検証する。
func TestRewriteURLs_HrefAndSingleQuotes(t *testing.T) {
	body := `<a href='https://ext.example/doc.jpg'><img src='https://ext.example/doc.jpg'></a>`
	relocations := map[string]string{
		"https://ext.example/doc.jpg": "/media/posts/p/doc.jpg",
	}

	got := RewriteURLs(body, relocations)
	if strings.Contains(got, "ext.example") {
		t.Errorf("original URLs remain in output: %q", got)
	}
	if !strings.Contains(got, `href='/media/posts/p/doc.jpg'`) {
		t.Errorf("href attribute not rewritten with original quotes: %q", got)
	}
}

// TestRewriteURLs_SrcsetDescriptorsKept はsrcsetの記述子が書き換え後も
// 維持されることを検証する。
func TestRewriteURLs_SrcsetDescriptorsKept(t *testing.T) {
	body := `<img srcset="https://ext.example/a.jpg 480w, https://ext.example/other.jpg 800w">`
	relocations := map[string]string{
		"https://ext.example/a.jpg": "/media/posts/p/a.jpg",
	}

	got := RewriteURLs(body, relocations)
	if !strings.Contains(got, "/media/posts/p/a.jpg 480w") {
		t.Errorf("srcset descriptor lost: %q", got)
	}
	if !strings.Contains(got, "https://ext.example/other.jpg 800w") {
		t.Errorf("unrelocated srcset candidate changed: %q", got)
	}
}

// TestRewriteURLs_PlainTextFallback は属性に現れないURLが素のテキストとしても
// 書き換えられることを検証する。
func TestRewriteURLs_PlainTextFallback(t *testing.T) {
	body := `<p>画像はこちら: https://ext.example/a.jpg</p>`
	relocations := map[string]string{
		"https://ext.example/a.jpg": "/media/posts/p/a.jpg",
	}

	got := RewriteURLs(body, relocations)
	if !strings.Contains(got, "/media/posts/p/a.jpg") {
		t.Errorf("plain-text URL not rewritten: %q", got)
	}
}

// TestRewriteURLs_UnrelocatedLeftAlone は移設されなかったURLが変更されないことを検証する。
func TestRewriteURLs_UnrelocatedLeftAlone(t *testing.T) {
	body := `<img src="https://ext.example/fail.jpg">`
	got := RewriteURLs(body, map[string]string{})
	if got != body {
		t.Errorf("body changed without relocations: %q", got)
	}
}
