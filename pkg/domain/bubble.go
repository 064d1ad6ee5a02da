package domain

import "strings"

// BubbleShape は吹き出しの形状バリエーションを表します。
type BubbleShape string

const (
	// ShapeRounded は標準的な角丸の吹き出しです。
	ShapeRounded BubbleShape = "rounded"
	// ShapeSquare はほぼ直角の角を持つ吹き出しです。
	ShapeSquare BubbleShape = "square"
	// ShapeThought は破線の枠と点状のしっぽを持つ「思考」の吹き出しです。
	ShapeThought BubbleShape = "thought"
)

// BubbleAnchor は吹き出しのバウンディングボックス左上隅が示す基準位置です。
type BubbleAnchor string

const (
	AnchorTopLeft     BubbleAnchor = "top-left"
	AnchorTopRight    BubbleAnchor = "top-right"
	AnchorBottomLeft  BubbleAnchor = "bottom-left"
	AnchorBottomRight BubbleAnchor = "bottom-right"
)

// Top はアンカーが上段（話者が吹き出しの下に居る）かを返します。
func (a BubbleAnchor) Top() bool {
	return strings.HasPrefix(string(a), "top")
}

// Left はアンカーが左側かを返します。
func (a BubbleAnchor) Left() bool {
	return strings.HasSuffix(string(a), "left")
}

// BubblePlacement は1話者・1パネル分の吹き出し配置パラメータです。
// XPct / YPct はコンテナ幅・高さに対する百分率 [0,100] で、
// 吹き出しボックスの左上隅を指します（中心ではありません）。
type BubblePlacement struct {
	Text   string       `json:"text"`
	Shape  BubbleShape  `json:"shape"`
	Anchor BubbleAnchor `json:"anchor"`
	XPct   float64      `json:"xPct"`
	YPct   float64      `json:"yPct"`
}

// Empty はセリフが空（または空白のみ）かを返します。
// 空の配置はどちらのレンダラーでも一切描画されません。
func (p BubblePlacement) Empty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// QuickPosition は指定アンカーに対応する既定の座標ペアを返します。
// アンカーと座標は常にセットでリセットされます。
func QuickPosition(anchor BubbleAnchor) (x, y float64) {
	switch anchor {
	case AnchorTopRight:
		return 55, 5
	case AnchorBottomLeft:
		return 5, 70
	case AnchorBottomRight:
		return 55, 70
	default:
		return 5, 5
	}
}

// DefaultPlacement は話者番号（0 または 1）に応じた初期配置を返します。
// 話者1は左上 (5,5)、話者2は右上 (55,5) に置かれます。
func DefaultPlacement(speaker int) BubblePlacement {
	anchor := AnchorTopLeft
	if speaker == 1 {
		anchor = AnchorTopRight
	}
	x, y := QuickPosition(anchor)
	return BubblePlacement{
		Shape:  ShapeRounded,
		Anchor: anchor,
		XPct:   x,
		YPct:   y,
	}
}

// PlacementPatch は配置の部分更新を表します。nil のフィールドは変更されません。
// Quick が指定された場合はアンカーと座標がまとめて規定値にリセットされます。
type PlacementPatch struct {
	Speaker int
	Text    *string
	Shape   *BubbleShape
	Anchor  *BubbleAnchor
	XPct    *float64
	YPct    *float64
	Quick   *BubbleAnchor
}

// UpdateFunc はオーバーレイ操作による状態更新をパネル所有者へ通知するコールバックです。
// オーバーレイレンダラー自身はパネル状態を書き換えません。
type UpdateFunc func(panelID string, patch PlacementPatch)
