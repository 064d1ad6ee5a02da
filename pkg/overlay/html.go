package overlay

import (
	"html"
	"strings"
)

// HTML は要素ツリーをインラインCSS付きのHTML断片へ変換します。
// プレビューサーバーがパネル画像の上に重ねて配信するための出力です。
func HTML(elems []Element) string {
	var sb strings.Builder
	for _, e := range elems {
		writeElement(&sb, e)
	}
	return sb.String()
}

func writeElement(sb *strings.Builder, e Element) {
	tag := e.Tag
	if tag == "" {
		tag = "div"
	}

	sb.WriteString("<" + tag)
	if e.Class != "" {
		sb.WriteString(` class="` + html.EscapeString(e.Class) + `"`)
	}
	if len(e.Style) > 0 {
		sb.WriteString(` style="` + html.EscapeString(e.Style.CSS()) + `"`)
	}
	sb.WriteString(">")

	if e.Text != "" {
		sb.WriteString(html.EscapeString(e.Text))
	}
	for _, child := range e.Children {
		writeElement(sb, child)
	}
	sb.WriteString("</" + tag + ">")
}
