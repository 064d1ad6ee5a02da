// Package compositor はパネル画像へ吹き出しを焼き込み、エクスポート用の
// 高解像度ラスタを生成します。幾何とレイアウトはインタラクティブ
// オーバーレイと完全に共有され、違いはスケール係数だけです。
package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gogpu/gg"

	"github.com/Faustp1633/Delay-comix/pkg/domain"
	"github.com/Faustp1633/Delay-comix/pkg/geometry"
	"github.com/Faustp1633/Delay-comix/pkg/layout"
)

var (
	// ErrDecode はベース画像がデコードできない場合のエラーです。
	// 呼び出し側はユーザー向けメッセージを表示し、パネルの状態には触れません。
	ErrDecode = errors.New("ベース画像のデコードに失敗しました")

	// ErrNoSurface は描画面または計測能力が利用できない場合のエラーです。
	// その1回のレンダリング呼び出しに対してのみ致命的です。
	ErrNoSurface = errors.New("描画面が利用できません")
)

// Options はコンポジタの調整可能な設定です。
// ゼロ値のフィールドには既定値が適用されます。
type Options struct {
	// FontPath は描画に使うTTFフォントのパスです。読めない場合は
	// 組み込みのフォールバックフォントへ縮退します（非致命）。
	FontPath string

	// WatermarkText / WatermarkOpacity は帰属表示の透かしの設定です。
	WatermarkText    string
	WatermarkOpacity float64
}

const (
	defaultWatermarkText    = "Delay-comix"
	defaultWatermarkOpacity = 0.6

	watermarkFontSize = 12.0 // 基準px
	watermarkMargin   = 10.0
	watermarkShadow   = 1.5

	dashOn  = 4.0 // 思考形の破線パターン（基準px）
	dashOff = 3.0
)

// Compositor は単一のフォントライブラリを共有する再利用可能なレンダラーです。
// Render の各呼び出しは独立した描画面に対して同期的に完結するため、
// 複数パネルの並列ラスタライズに排他制御は不要です。
type Compositor struct {
	fonts *FontLibrary
	opts  Options
}

// New は Compositor を初期化します。フォントの読み込み失敗は
// フォールバックで吸収されるため、エラーは環境が完全に壊れている場合のみです。
func New(opts Options) (*Compositor, error) {
	if opts.WatermarkText == "" {
		opts.WatermarkText = defaultWatermarkText
	}
	if opts.WatermarkOpacity == 0 {
		opts.WatermarkOpacity = defaultWatermarkOpacity
	}

	fonts, err := NewFontLibrary(opts.FontPath)
	if err != nil {
		return nil, fmt.Errorf("フォントライブラリの初期化に失敗しました: %w", err)
	}

	return &Compositor{fonts: fonts, opts: opts}, nil
}

// Decode はバイト列をデコード可能なラスタ画像へ変換します。
// 内容の妥当性は検証せず、デコード可能性のみを扱います。
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Render はベース画像の上へ全吹き出しと透かしを合成した画像を返します。
// 呼び出しは同期的かつアトミックで、途中状態が観測されることはありません。
func (c *Compositor) Render(base image.Image, placements []domain.BubblePlacement, sc geometry.ScaleContext) (image.Image, error) {
	dc, err := c.render(base, placements, sc)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// RenderPNG は Render の結果をPNGへエンコードして返します。
// 出力はベース画像本来の解像度を維持します。
func (c *Compositor) RenderPNG(base image.Image, placements []domain.BubblePlacement, sc geometry.ScaleContext) ([]byte, error) {
	dc, err := c.render(base, placements, sc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("PNGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// render は描画面を検証し、全吹き出しと透かしを合成したコンテキストを返します。
func (c *Compositor) render(base image.Image, placements []domain.BubblePlacement, sc geometry.ScaleContext) (*gg.Context, error) {
	if base == nil {
		return nil, ErrNoSurface
	}
	bounds := base.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrNoSurface
	}
	if c.fonts == nil {
		return nil, fmt.Errorf("%w: フォントが読み込まれていません", ErrNoSurface)
	}

	dc := gg.NewContextForImage(base)
	scale := sc.Factor()

	for _, placement := range placements {
		c.drawBubble(dc, placement, scale)
	}
	c.drawWatermark(dc, scale)

	return dc, nil
}

// drawBubble は1話者分の吹き出し（箱・しっぽ・セリフ）を描画します。
// セリフが空の配置は一切描画しません。
func (c *Compositor) drawBubble(dc *gg.Context, p domain.BubblePlacement, scale float64) {
	if p.Empty() {
		return
	}

	canvasW := float64(dc.Width())
	canvasH := float64(dc.Height())

	// オーバーレイ側の 35% キャップを正確に反映する
	maxBubbleWidth := canvasW * geometry.MaxWidthFraction

	face := c.fonts.Face(layout.FontSize(p.Text) * scale)
	m := layout.Measure(p.Text, maxBubbleWidth, scale, face.Advance)

	// xPct/yPct は左上アンカー。検証は行わず、与えられた値のまま描画する
	box := geometry.Rect{
		X: canvasW * p.XPct / 100,
		Y: canvasH * p.YPct / 100,
		W: m.Width,
		H: m.Height,
	}

	border := geometry.BorderWidth * scale
	radius := geometry.Radius(p.Shape, scale)

	// 1. 吹き出し本体
	dc.DrawRoundedRectangle(box.X, box.Y, box.W, box.H, radius)
	dc.SetRGB(1, 1, 1)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(border)
	if geometry.Dashed(p.Shape) {
		dc.SetDash(dashOn*scale, dashOff*scale)
	}
	dc.Stroke()
	dc.ClearDash()

	// 2. しっぽ
	c.drawTail(dc, geometry.ResolveTail(p.Shape, p.Anchor, scale), box, border)

	// 3. セリフ（水平センタリング、上から行を積む）
	dc.SetFont(face)
	dc.SetRGB(0, 0, 0)
	padding := geometry.Padding * scale
	ascent := face.Metrics().Ascent
	for i, line := range m.Lines {
		lineWidth := face.Advance(line)
		x := box.X + (box.W-lineWidth)/2
		y := box.Y + padding + float64(i)*m.LineHeight + ascent
		dc.DrawString(line, x, y)
	}
}

// drawTail はしっぽ（三角形またはドット列）と継ぎ目マスクを描画します。
func (c *Compositor) drawTail(dc *gg.Context, tail geometry.Tail, box geometry.Rect, border float64) {
	switch tail.Kind {
	case geometry.TailDots:
		for _, dot := range tail.DotsAbs(box) {
			dc.DrawCircle(dot.Center.X, dot.Center.Y, dot.Radius)
			dc.SetRGB(1, 1, 1)
			dc.FillPreserve()
			dc.SetRGB(0, 0, 0)
			dc.SetLineWidth(border)
			dc.Stroke()
		}

	case geometry.TailPointer:
		pts := tail.PointerAbs(box)
		dc.MoveTo(pts[0].X, pts[0].Y)
		for _, pt := range pts[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
		dc.SetRGB(1, 1, 1)
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(border)
		dc.Stroke()

		// しっぽは本体へ貼り付けた別形状なので、接合部の枠線を
		// 背景色のパッチで覆って1つの形に見せる
		cover := tail.CoverAbs(box)
		dc.DrawRectangle(cover.X, cover.Y, cover.W, cover.H)
		dc.SetRGB(1, 1, 1)
		dc.Fill()
	}
}
