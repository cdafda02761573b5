// Package slug はURLセーフな一意識別子（スラッグ）の生成を提供する。
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make は自由テキストからスラッグを生成する。
// 小文字化し、NFD分解で結合文字（ダイアクリティカルマーク）を除去した上で、
// 英数字以外の連続を1つのハイフンにまとめ、先頭・末尾のハイフンを取り除く。
func Make(text string) string {
	decomposed := norm.NFD.String(strings.ToLower(text))

	var b strings.Builder
	pendingHyphen := false
	for _, r := range decomposed {
		// NFD分解後の結合文字を落とすことでダイアクリティカルマークを除去する
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}

// Unique はcandidateが未使用ならそのまま返し、
// 使用済みの場合は -1, -2, ... と連番サフィックスを付けて未使用の値を探す。
// takenは対象エンティティ種別のスラッグ集合に対する使用済み判定を行う。
// 一意性のスコープはエンティティ種別ごとであり、全体で共有されることはない。
func Unique(candidate string, taken func(string) bool) string {
	if !taken(candidate) {
		return candidate
	}
	for n := 1; ; n++ {
		next := fmt.Sprintf("%s-%d", candidate, n)
		if !taken(next) {
			return next
		}
	}
}

// IsValid はスラッグが小文字英数字とハイフンのみで構成されているかを検証する。
func IsValid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return !strings.HasPrefix(s, "-") && !strings.HasSuffix(s, "-")
}
