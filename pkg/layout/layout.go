// Package layout はセリフの行分割とフォントサイズ選択を担う計測依存の層です。
// 計測関数（テキスト幅の取得）はレンダリングターゲット側から注入されるため、
// オーバーレイとラスタのどちらからも同一のアルゴリズムが使われます。
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/Faustp1633/Delay-comix/pkg/geometry"
)

// MeasureFunc は描画ターゲットが提供するテキスト幅の計測能力です。
type MeasureFunc func(text string) float64

// セリフ長による3段階のフォントサイズ（基準px）。
// ラスタ側ではスケール係数を掛けて使用します（1024px出力では 38.4/32/28.8）。
const (
	FontSizeLarge  = 12.0
	FontSizeMedium = 10.0
	FontSizeSmall  = 9.0

	fontTierMediumAt = 20
	fontTierSmallAt  = 50
)

// FontSize はセリフ全体の長さからフォントサイズ（基準px）を決定します。
// 行分割とは独立に、吹き出しごとに一度だけ評価されます。
func FontSize(text string) float64 {
	length := utf8.RuneCountInString(text)
	switch {
	case length < fontTierMediumAt:
		return FontSizeLarge
	case length < fontTierSmallAt:
		return FontSizeMedium
	default:
		return FontSizeSmall
	}
}

// Wrap はセリフを最大幅に収まるよう貪欲法で行分割します。
// 単語単位の単一パスで決定論的に動作します。1語だけで最大幅を超える場合、
// その語は改変されずに単独行となります（ハイフネーションは行いません）。
// 空でない入力に対して空のスライスを返すことはありません。
func Wrap(text string, maxWidth float64, measure MeasureFunc) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 1)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) < maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// Metrics は1つの吹き出しに対する解決済みのレイアウト結果です。
// 保存されることはなく、レンダリングのたびに計算し直されます。
type Metrics struct {
	Lines      []string
	FontSize   float64 // スケール適用済みのフォントサイズ
	LineHeight float64
	Width      float64
	Height     float64
}

// Measure はセリフ・最大吹き出し幅・スケールからレイアウト結果を解決します。
// measure は FontSize(text)×scale のフォントで計測する関数であることが前提です。
// 行は余白を差し引いた幅で折り返すため、吹き出し全体が最大幅を超えることは
// ありません（1語が最大幅を超える場合を除く）。
func Measure(text string, maxBubbleWidth, scale float64, measure MeasureFunc) Metrics {
	fontSize := FontSize(text) * scale
	padding := geometry.Padding * scale

	lines := Wrap(text, maxBubbleWidth-2*padding, measure)

	longest := 0.0
	for _, line := range lines {
		if w := measure(line); w > longest {
			longest = w
		}
	}

	width := longest + 2*padding
	if min := geometry.MinWidth * scale; width < min {
		width = min
	}

	lineHeight := fontSize * geometry.LineHeightFactor
	return Metrics{
		Lines:      lines,
		FontSize:   fontSize,
		LineHeight: lineHeight,
		Width:      width,
		Height:     float64(len(lines))*lineHeight + 2*padding,
	}
}
