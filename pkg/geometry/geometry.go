// Package geometry は吹き出しの形状・しっぽ・マスクを解決する純粋な計算層です。
// インタラクティブオーバーレイとラスタコンポジタの両方がこのパッケージの
// 出力だけを消費することで、2つのレンダラーの見た目の一致を保証します。
package geometry

import "github.com/Faustp1633/Delay-comix/pkg/domain"

// 基準スケール（コンテナ幅 320px 想定）で定義される調整用定数です。
// ラスタ側では ScaleContext.Factor() を掛けてから使用します。
const (
	// ReferenceWidth は両レンダラー共通の基準コンテナ幅です。
	ReferenceWidth = 320.0
	// MaxWidthFraction は吹き出しの最大幅（コンテナ幅に対する割合）です。
	MaxWidthFraction = 0.35
	// Padding は吹き出し内側の余白です。
	Padding = 8.0
	// MinWidth は吹き出しの最小幅です。
	MinWidth = 60.0
	// TailSize はしっぽの基準サイズです。
	TailSize = 10.0
	// BorderWidth は枠線の太さです。
	BorderWidth = 1.0

	// RadiusRounded / RadiusSquare / RadiusThought は形状別の角丸半径です。
	RadiusRounded = 12.0
	RadiusSquare  = 2.0
	RadiusThought = 32.0

	// LineHeightFactor はフォントサイズに対する行送りの倍率です。
	LineHeightFactor = 1.1

	// tailInset はしっぽの基部が吹き出しの側辺から離れる距離です。
	tailInset = 20.0
)

// しっぽ形状の比率定数。TailSize に対する倍率で表現します。
const (
	tailBaseFactor   = 1.5
	tailLengthFactor = 1.4
	tailLeanFactor   = 0.25
)

// 思考形のドットしっぽで使う経験的な比率です。
// 元の見た目を再現するための調整値であり、導出式ではありません。
const (
	dotNearRadiusFactor = 0.5
	dotFarRadiusFactor  = 0.3
	dotNearOffsetFactor = 0.9
	dotFarOffsetFactor  = 2.0
	dotCenterFactor     = 0.75
	dotDriftFactor      = 0.4
)

// ScaleContext はレンダリング対象の解像度と基準幅の対応を保持します。
type ScaleContext struct {
	ReferenceWidthPx float64
	TargetWidthPx    float64
}

// NewScaleContext は基準幅 320px に対するスケールコンテキストを返します。
func NewScaleContext(targetWidthPx float64) ScaleContext {
	return ScaleContext{ReferenceWidthPx: ReferenceWidth, TargetWidthPx: targetWidthPx}
}

// Factor はターゲット解像度に合わせた拡大率を返します。
// インタラクティブレンダラーは暗黙に 1 を使用します。
func (s ScaleContext) Factor() float64 {
	if s.ReferenceWidthPx == 0 {
		return 1
	}
	return s.TargetWidthPx / s.ReferenceWidthPx
}

// Point は2次元座標です。
type Point struct {
	X, Y float64
}

// Rect は矩形（左上隅と幅・高さ）です。
type Rect struct {
	X, Y, W, H float64
}

// Circle は中心と半径で表す円です。
type Circle struct {
	Center Point
	Radius float64
}

// Radius は形状に応じた角丸半径（スケール適用済み）を返します。
func Radius(shape domain.BubbleShape, scale float64) float64 {
	switch shape {
	case domain.ShapeSquare:
		return RadiusSquare * scale
	case domain.ShapeThought:
		return RadiusThought * scale
	default:
		return RadiusRounded * scale
	}
}

// Dashed は枠線を破線で描くべき形状かを返します。
func Dashed(shape domain.BubbleShape) bool {
	return shape == domain.ShapeThought
}
