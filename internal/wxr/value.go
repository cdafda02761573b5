package wxr

import "strings"

// Value はWXRのテキストフィールドを表す。
// WordPressのエクスポートは同じフィールドをスカラー・CDATAラップ・
// 繰り返し要素のいずれの形でも出力しうる。繰り返しが現実に観測される
// フィールド（dc:creatorなど）は[]Valueとして宣言し、Firstで
// 「最初の値が勝つ」正規化に集約する。単一のValueで宣言された
// フィールドは1回の出現を前提とし、万一繰り返された場合は
// encoding/xmlの挙動どおり最後の出現が残る。
type Value struct {
	Raw string `xml:",chardata"`
}

// Scalar は前後の空白を取り除いた文字列を返す。失敗しない。
func (v Value) Scalar() string {
	return strings.TrimSpace(v.Raw)
}

// First は繰り返しフィールドの最初の値を正規化して返す。
// 要素が存在しない場合は空文字列を返す。
// WordPressはdc:creatorなどを複数回出力することがあり、
// 最初の出現のみを有効とする方針は意図的な単純化である。
func First(vs []Value) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0].Scalar()
}
