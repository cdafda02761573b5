// Package security はアプリケーションのセキュリティ機能を提供する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLStripperService はHTMLからプレーンテキストを抽出する機能のインターフェース。
// メタディスクリプションの導出など、マークアップを一切含められない文脈で使用する。
type HTMLStripperService interface {
	// Strip はHTMLタグとエンティティをすべて取り除いたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。同一入力に対して常に同一出力を返す。
	Strip(rawHTML string) string
}

// htmlStripper はHTMLStripperServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフに処理を行う。
type htmlStripper struct {
	policy *bluemonday.Policy
}

// NewHTMLStripper はHTMLStripperServiceの新しいインスタンスを生成する。
// StrictPolicyは全タグを除去するため、残るのはテキストノードのみとなる。
func NewHTMLStripper() *htmlStripper {
	return &htmlStripper{
		policy: bluemonday.StrictPolicy(),
	}
}

// Strip はHTMLタグとエンティティをすべて取り除いたプレーンテキストを返す。
// bluemondayはエンティティをエスケープ形のまま残すため、
// サニタイズ後にアンエスケープして自然なテキストに戻し、空白を畳み込む。
func (s *htmlStripper) Strip(rawHTML string) string {
	stripped := s.policy.Sanitize(rawHTML)
	unescaped := html.UnescapeString(stripped)
	return strings.Join(strings.Fields(unescaped), " ")
}

// compile-time interface check
var _ HTMLStripperService = (*htmlStripper)(nil)
