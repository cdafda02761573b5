// Package wxr はWordPress eXtended RSS（WXR）エクスポートのデコードを提供する。
//
// WXRはRSSにwp:、dc:、content:、excerpt:名前空間を重ねた形式で、
// バージョン（1.0〜1.2）によって名前空間URLが異なる。タグのローカル名で
// マッチさせることで全バージョンを同じ型に畳み込む。繰り返し可能な要素は
// 出現数が0・1・複数のいずれでも必ずスライスになるため、
// 下流は常にシーケンスとして扱える。
package wxr

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
)

// ErrMalformedExport は入力がWXRとして解釈できないことを表す。
// インポート全体を中断する唯一の致命的エラー。
var ErrMalformedExport = errors.New("WXRとして解釈できない入力です")

// document はWXRの標準的なルート形状（rss > channel）を表す。
type document struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

// Channel はWXRのchannelノードを表す。
type Channel struct {
	XMLName    xml.Name       `xml:"channel"`
	Title      Value          `xml:"title"`
	Link       Value          `xml:"link"`
	Authors    []Author       `xml:"author"`
	WpAuthors  []Author       `xml:"wp_author"` // 古いwordpress.comエクスポートの別名
	Categories []CategoryDecl `xml:"category"`
	Items      []Item         `xml:"item"`
}

// Author はchannel直下の著者宣言（wp:author）を表す。
type Author struct {
	Login       Value `xml:"author_login"`
	Email       Value `xml:"author_email"`
	DisplayName Value `xml:"author_display_name"`
	FirstName   Value `xml:"author_first_name"`
	LastName    Value `xml:"author_last_name"`
}

// CategoryDecl はchannel直下のカテゴリ宣言（wp:category）を表す。
type CategoryDecl struct {
	Name     Value `xml:"cat_name"`
	NiceName Value `xml:"category_nicename"`
	Parent   Value `xml:"category_parent"`
}

// Item は記事・固定ページ・添付ファイルを表す。
// wp:post_typeで種別が区別される。
type Item struct {
	Title         Value          `xml:"title"`
	Link          Value          `xml:"link"`
	GUID          Value          `xml:"guid"`
	Creators      []Value        `xml:"creator"` // dc:creator。複数出現あり
	Encoded       []EncodedBlock `xml:"encoded"` // content:encoded / excerpt:encoded
	PostID        Value          `xml:"post_id"`
	PostDateGMT   Value          `xml:"post_date_gmt"`
	PostName      Value          `xml:"post_name"`
	PostType      Value          `xml:"post_type"`
	Status        Value          `xml:"status"`
	AttachmentURL Value          `xml:"attachment_url"`
	Categories    []CategoryRef  `xml:"category"`
	PostMeta      []PostMeta     `xml:"postmeta"`
}

// EncodedBlock はcontent:encodedまたはexcerpt:encodedのペイロードを表す。
// 両者はローカル名が同じ「encoded」であるため、XMLNameの名前空間で区別する。
type EncodedBlock struct {
	XMLName xml.Name
	Raw     string `xml:",chardata"`
}

// CategoryRef は記事に付与されたカテゴリ/タグ参照を表す。
// domain属性が"category"のものだけが真のカテゴリで、それ以外はタグ。
type CategoryRef struct {
	Domain   string `xml:"domain,attr"`
	NiceName string `xml:"nicename,attr"`
	Raw      string `xml:",chardata"`
}

// Name はカテゴリ参照の表示名を返す。
func (c CategoryRef) Name() string {
	return strings.TrimSpace(c.Raw)
}

// PostMeta はwp:postmetaのキー・バリューを表す。
type PostMeta struct {
	Key   Value `xml:"meta_key"`
	Value Value `xml:"meta_value"`
}

// Decode はWXRテキストをデコードしてchannelノードを返す。
// 歴史的に有効な2つのルート形状（rss > channel、裸のchannel）を受理する。
// 入力が空・空白のみ、またはchannelが見つからない場合はErrMalformedExportを返す。
func Decode(data []byte) (*Channel, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrMalformedExport
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err == nil {
		if ch := doc.Channel; !ch.isEmpty() {
			ch.normalize()
			return &ch, nil
		}
	}

	// 裸のchannelルート（一部のツールが出力する省略形）
	var ch Channel
	if err := xml.Unmarshal(data, &ch); err == nil && !ch.isEmpty() {
		ch.normalize()
		return &ch, nil
	}

	return nil, ErrMalformedExport
}

// isEmpty はchannelとして認識できる内容が何もないかどうかを返す。
func (c *Channel) isEmpty() bool {
	return len(c.Items) == 0 &&
		len(c.Authors) == 0 &&
		len(c.WpAuthors) == 0 &&
		len(c.Categories) == 0 &&
		c.Title.Scalar() == "" &&
		c.Link.Scalar() == ""
}

// normalize は別名の著者宣言を正規のAuthorsに統合する。
func (c *Channel) normalize() {
	if len(c.WpAuthors) > 0 {
		c.Authors = append(c.Authors, c.WpAuthors...)
		c.WpAuthors = nil
	}
}

// ContentHTML は記事本文（content:encoded）のHTMLを返す。
// content名前空間のブロックを優先し、存在しない場合は
// excerpt以外の最初のブロックを採用する。
func (it *Item) ContentHTML() string {
	for _, b := range it.Encoded {
		if strings.Contains(b.XMLName.Space, "content") {
			return b.Raw
		}
	}
	for _, b := range it.Encoded {
		if !strings.Contains(b.XMLName.Space, "excerpt") {
			return b.Raw
		}
	}
	return ""
}

// ExcerptHTML は記事の抜粋（excerpt:encoded）を返す。存在しない場合は空文字列。
func (it *Item) ExcerptHTML() string {
	for _, b := range it.Encoded {
		if strings.Contains(b.XMLName.Space, "excerpt") {
			return strings.TrimSpace(b.Raw)
		}
	}
	return ""
}

// Creator は記事の著者ログイン名（dc:creator）を返す。
// 複数宣言されている場合は最初の値のみを有効とする。
func (it *Item) Creator() string {
	return First(it.Creators)
}

// MetaValue は指定キーのpostmeta値を返す。見つからない場合は空文字列。
func (it *Item) MetaValue(key string) string {
	for _, m := range it.PostMeta {
		if m.Key.Scalar() == key {
			return m.Value.Scalar()
		}
	}
	return ""
}

// FirstCategory はdomain="category"の最初のカテゴリ参照を返す。
// 真のカテゴリ参照が1つもない場合はnilを返す（正常系）。
func (it *Item) FirstCategory() *CategoryRef {
	for i := range it.Categories {
		if it.Categories[i].Domain == "category" {
			return &it.Categories[i]
		}
	}
	return nil
}
