// Package markdown はHTML本文のURL書き換えとMarkdown変換を提供する。
package markdown

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

// 変換前に取り除くブロック。
// scriptとstyleはMarkdownに居場所がなく、IE向け条件付きコメントは
// 変換ライブラリが本文として拾ってしまうため先に除去する。
var (
	conditionalCommentRe = regexp.MustCompile(`(?is)<!--\[if[^\]]*\]>.*?<!\[endif\]-->`)
	scriptBlockRe        = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleBlockRe         = regexp.MustCompile(`(?is)<style\b.*?</style>`)
)

// Converter はHTMLからMarkdownへの変換を提供する。
type Converter struct {
	conv *md.Converter
}

// NewConverter はConverterの新しいインスタンスを生成する。
// 打ち消し線タグ（del, s, strike)は ~~text~~ に変換される。
func NewConverter() *Converter {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.Strikethrough("~~"))
	return &Converter{conv: conv}
}

// ToMarkdown はHTML本文をMarkdownに変換する。
// 変換に失敗した場合はデータ損失を避け、元のHTMLをそのまま返す。
func (c *Converter) ToMarkdown(html string) string {
	cleaned := conditionalCommentRe.ReplaceAllString(html, "")
	cleaned = scriptBlockRe.ReplaceAllString(cleaned, "")
	cleaned = styleBlockRe.ReplaceAllString(cleaned, "")

	out, err := c.conv.ConvertString(cleaned)
	if err != nil {
		slog.Warn("Markdown変換失敗のためHTMLを維持", "error", err)
		return html
	}
	return strings.TrimSpace(out)
}

// src/href/srcset属性の値。引用符の種類は問わない。
var urlAttributeRe = regexp.MustCompile(`(?i)\b(src|href|srcset)(\s*=\s*)("([^"]*)"|'([^']*)')`)

// RewriteURLs は移設済み画像URLの書き換えマップを本文へ適用する。
// 2段構えで置換する。第1段ではsrc・href・srcset属性の値を
// 完全一致で書き換える（srcsetはカンマ区切りの各候補単位）。
// 属性として拾えたURLは第2段の対象から外す。
// 第2段では属性に現れなかったURLのみ、素のテキスト出現に
// 備えて全文置換する。あるURLが別のURLの前方部分文字列である
// 場合の誤置換を抑えるため、長いURLから順に置換する。
func RewriteURLs(body string, relocations map[string]string) string {
	if len(relocations) == 0 {
		return body
	}

	anchored := make(map[string]bool, len(relocations))
	body = urlAttributeRe.ReplaceAllStringFunc(body, func(match string) string {
		groups := urlAttributeRe.FindStringSubmatch(match)
		quote := `"`
		value := groups[4]
		if strings.HasPrefix(groups[3], "'") {
			quote = "'"
			value = groups[5]
		}

		var rewritten string
		if strings.EqualFold(groups[1], "srcset") {
			rewritten = rewriteSrcset(value, relocations, anchored)
		} else if local, ok := relocations[value]; ok {
			anchored[value] = true
			rewritten = local
		} else {
			return match
		}
		if rewritten == value {
			return match
		}
		return groups[1] + groups[2] + quote + rewritten + quote
	})

	// 素のテキスト出現へのフォールバック。
	var remaining []string
	for original := range relocations {
		if !anchored[original] {
			remaining = append(remaining, original)
		}
	}
	sort.Slice(remaining, func(i, j int) bool {
		return len(remaining[i]) > len(remaining[j])
	})
	for _, original := range remaining {
		body = strings.ReplaceAll(body, original, relocations[original])
	}
	return body
}

// rewriteSrcset はsrcset属性値のカンマ区切り候補それぞれについて、
// 先頭フィールドのURLを完全一致で書き換える。記述子（1x、480wなど）は維持する。
func rewriteSrcset(value string, relocations map[string]string, anchored map[string]bool) string {
	parts := strings.Split(value, ",")
	for i, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if local, ok := relocations[fields[0]]; ok {
			anchored[fields[0]] = true
			fields[0] = local
			leading := part[:len(part)-len(strings.TrimLeft(part, " \t"))]
			parts[i] = leading + strings.Join(fields, " ")
		}
	}
	return strings.Join(parts, ",")
}
