package compositor

import "github.com/gogpu/gg"

// drawWatermark はキャンバス右下へ半透明の帰属表示を描画します。
// どんな背景でも読めるよう、1段ずらした影を先に落とします。
// 位置・サイズ・影はすべてスケール係数に追随します。
func (c *Compositor) drawWatermark(dc *gg.Context, scale float64) {
	face := c.fonts.Face(watermarkFontSize * scale)
	dc.SetFont(face)

	width := face.Advance(c.opts.WatermarkText)
	margin := watermarkMargin * scale
	shadow := watermarkShadow * scale

	x := float64(dc.Width()) - width - margin
	y := float64(dc.Height()) - margin - face.Metrics().Descent

	opacity := c.opts.WatermarkOpacity
	dc.SetRGBA(0, 0, 0, opacity)
	dc.DrawString(c.opts.WatermarkText, x+shadow, y+shadow)
	dc.SetRGBA(1, 1, 1, opacity)
	dc.DrawString(c.opts.WatermarkText, x, y)
}
