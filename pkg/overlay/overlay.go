// Package overlay は表示中のパネル画像に重ねる、DOM風のインタラクティブ
// オーバーレイを構築します。幾何は pkg/geometry、レイアウト規則は pkg/layout
// と完全に共有され、スケール係数1（コンテナ相対単位）で適用されます。
// このパッケージは純粋に表示用であり、パネル状態の変更は呼び出し元が
// 提供する domain.UpdateFunc を経由します。
package overlay

import (
	"fmt"

	"github.com/Faustp1633/Delay-comix/pkg/domain"
	"github.com/Faustp1633/Delay-comix/pkg/geometry"
	"github.com/Faustp1633/Delay-comix/pkg/layout"
)

// Property は1つのCSS宣言です。
type Property struct {
	Name  string
	Value string
}

// Style は宣言順を保持するCSSプロパティ列です。
type Style []Property

// Get は指定プロパティの値を返します。
func (s Style) Get(name string) (string, bool) {
	for _, p := range s {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// CSS はインラインstyle属性用の文字列を返します。
func (s Style) CSS() string {
	out := ""
	for i, p := range s {
		if i > 0 {
			out += "; "
		}
		out += p.Name + ": " + p.Value
	}
	return out
}

// Element は配置済みのオーバーレイ要素です。
type Element struct {
	Tag      string
	Class    string
	Style    Style
	Text     string
	Children []Element
}

// Options はレンダリング単位の挙動を制御します。
type Options struct {
	// Animate が真のとき、位置変更に短い固定時間のトランジションを付けます。
	// 初回マウント時は偽にして、マウントアニメーションを避けます。
	Animate bool
}

// Renderer は吹き出し配置からオーバーレイ要素を構築します。
type Renderer struct {
	onUpdate domain.UpdateFunc
}

// NewRenderer はレンダラーを生成します。onUpdate は nil でも構いません
// （読み取り専用のプレビューとして動作します）。
func NewRenderer(onUpdate domain.UpdateFunc) *Renderer {
	return &Renderer{onUpdate: onUpdate}
}

// Update はユーザー操作による部分更新を状態の所有者へ転送します。
// レンダラー自身は何も保持・変更しません。
func (r *Renderer) Update(panelID string, patch domain.PlacementPatch) {
	if r.onUpdate != nil {
		r.onUpdate(panelID, patch)
	}
}

// RenderPanel は1パネル分の吹き出し要素群を返します。
// セリフが空の話者はスキップされ、要素を一切生成しません。
func (r *Renderer) RenderPanel(panel domain.Panel, opts Options) []Element {
	var elems []Element
	for speaker, placement := range panel.Placements() {
		if placement.Empty() {
			continue
		}
		elems = append(elems, r.bubble(placement, speaker, opts))
	}
	return elems
}

// bubble は1つの吹き出し要素としっぽ・マスク・ドットの子要素を構築します。
func (r *Renderer) bubble(p domain.BubblePlacement, speaker int, opts Options) Element {
	style := Style{
		{"position", "absolute"},
		{"left", pct(p.XPct)},
		{"top", pct(p.YPct)},
		{"max-width", fmt.Sprintf("%g%%", geometry.MaxWidthFraction*100)},
		{"background", "#fff"},
		{"border", borderCSS(p.Shape)},
		{"border-radius", px(geometry.Radius(p.Shape, 1))},
		{"padding", px(geometry.Padding)},
		{"font-size", px(layout.FontSize(p.Text))},
		{"line-height", fmt.Sprintf("%g", geometry.LineHeightFactor)},
		{"text-align", "center"},
	}
	if opts.Animate {
		style = append(style, Property{"transition", "left 0.25s ease, top 0.25s ease"})
	}

	elem := Element{
		Tag:   "div",
		Class: fmt.Sprintf("bubble bubble--%s speaker-%d", p.Shape, speaker+1),
		Style: style,
		Text:  p.Text,
	}

	tail := geometry.ResolveTail(p.Shape, p.Anchor, 1)
	switch tail.Kind {
	case geometry.TailDots:
		for i, dot := range tail.Dots {
			elem.Children = append(elem.Children, dotElement(tail, dot, i))
		}
	default:
		elem.Children = append(elem.Children, pointerElement(tail), coverElement(tail))
	}
	return elem
}

// pointerElement は三角形しっぽを、共有ポリゴンを clip-path に写した
// 子要素として構築します。吹き出しの寸法を知らなくても配置できるよう、
// 辺ローカル座標を left/right・top/bottom の相対オフセットに変換します。
// 外側の黒い三角形が枠線、内側に縮めた白い三角形が塗りに相当し、
// ラスタ側の「白塗り＋黒枠」と視覚的に等価になります。
func pointerElement(tail geometry.Tail) Element {
	minU, maxU, depth := pointerBounds(tail.Pointer)
	width := maxU - minU

	style := Style{
		{"position", "absolute"},
		{sideProp(tail.NearRight), px(minU)},
		{edgeProp(tail.AtBottom), px(-depth)},
		{"width", px(width)},
		{"height", px(depth)},
		{"background", "#000"},
		{"clip-path", clipPath(tail, tail.Pointer, minU, width, depth)},
	}

	inner := Element{
		Tag:   "div",
		Class: "bubble__tail-fill",
		Style: Style{
			{"position", "absolute"},
			{"inset", "0"},
			{"background", "#fff"},
			{"clip-path", clipPath(tail, shrinkPolygon(tail.Pointer), minU, width, depth)},
		},
	}
	return Element{Tag: "div", Class: "bubble__tail", Style: style, Children: []Element{inner}}
}

// clipPath は辺ローカル座標のポリゴンを要素ローカルな clip-path 文字列へ変換します。
func clipPath(tail geometry.Tail, pts []geometry.Point, minU, width, depth float64) string {
	clip := "polygon("
	for i, pt := range pts {
		x := pt.X - minU
		if tail.NearRight {
			x = width - x
		}
		y := pt.Y
		if !tail.AtBottom {
			y = depth - y
		}
		if i > 0 {
			clip += ", "
		}
		clip += fmt.Sprintf("%s %s", px(x), px(y))
	}
	return clip + ")"
}

// shrinkPolygon はポリゴンを重心に向けて枠線の太さ分だけ縮めます。
func shrinkPolygon(pts []geometry.Point) []geometry.Point {
	if len(pts) == 0 {
		return nil
	}
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	factor := 1 - 2*geometry.BorderWidth/geometry.TailSize
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = geometry.Point{
			X: cx + (p.X-cx)*factor,
			Y: cy + (p.Y-cy)*factor,
		}
	}
	return out
}

// coverElement はしっぽと枠線の継ぎ目を隠す白い矩形です。
// ラスタ側のマスク処理と視覚的に等価になります。
func coverElement(tail geometry.Tail) Element {
	style := Style{
		{"position", "absolute"},
		{sideProp(tail.NearRight), px(tail.Cover.X)},
		{edgeProp(tail.AtBottom), px(tail.Cover.Y)},
		{"width", px(tail.Cover.W)},
		{"height", px(tail.Cover.H)},
		{"background", "#fff"},
	}
	return Element{Tag: "div", Class: "bubble__cover", Style: style}
}

// dotElement は思考形のドット1つ分の円要素です。
func dotElement(tail geometry.Tail, dot geometry.Circle, index int) Element {
	style := Style{
		{"position", "absolute"},
		{sideProp(tail.NearRight), px(dot.Center.X - dot.Radius)},
		{edgeProp(tail.AtBottom), px(-(dot.Center.Y + dot.Radius))},
		{"width", px(2 * dot.Radius)},
		{"height", px(2 * dot.Radius)},
		{"background", "#fff"},
		{"border", "1px solid #000"},
		{"border-radius", "50%"},
	}
	return Element{Tag: "div", Class: fmt.Sprintf("bubble__dot bubble__dot--%d", index+1), Style: style}
}

// pointerBounds はポリゴンの u 範囲と外側への深さを返します。
func pointerBounds(pts []geometry.Point) (minU, maxU, depth float64) {
	if len(pts) == 0 {
		return 0, 0, 0
	}
	minU, maxU = pts[0].X, pts[0].X
	for _, p := range pts {
		if p.X < minU {
			minU = p.X
		}
		if p.X > maxU {
			maxU = p.X
		}
		if p.Y > depth {
			depth = p.Y
		}
	}
	return minU, maxU, depth
}

func borderCSS(shape domain.BubbleShape) string {
	stroke := "solid"
	if geometry.Dashed(shape) {
		stroke = "dashed"
	}
	return fmt.Sprintf("%s %s #000", px(geometry.BorderWidth), stroke)
}

// sideProp はしっぽの基準側に対応する水平オフセットのプロパティ名です。
func sideProp(nearRight bool) string {
	if nearRight {
		return "right"
	}
	return "left"
}

// edgeProp は接続辺に対応する垂直オフセットのプロパティ名です。
// 下辺接続では bottom に負値を与えて吹き出しの外へ張り出させます。
func edgeProp(atBottom bool) string {
	if atBottom {
		return "bottom"
	}
	return "top"
}

func px(v float64) string {
	return fmt.Sprintf("%gpx", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%g%%", v)
}
