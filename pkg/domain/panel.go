package domain

// Panel は漫画の1コマ分の構成・セリフ・吹き出し設定を保持します。
// char1* / char2* は2人の話者に対して完全に対称に扱われます。
// 吹き出し系フィールドは省略可能で、欠けている値は読み取り時に
// Placements がまとめて既定値へ解決します（描画コードには散らしません）。
type Panel struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Setting string `json:"setting,omitempty"`

	// ImageURL は画像生成サービスから渡されるパネル画像のハンドルです。
	// data: URL・http(s) URL・ローカルパスのいずれも取り得ます。
	ImageURL string `json:"imageUrl,omitempty"`

	Char1Dialogue    string   `json:"char1Dialogue,omitempty"`
	Char1BubblePos   string   `json:"char1BubblePos,omitempty"`
	Char1BubbleShape string   `json:"char1BubbleShape,omitempty"`
	Char1BubbleX     *float64 `json:"char1BubbleX,omitempty"`
	Char1BubbleY     *float64 `json:"char1BubbleY,omitempty"`

	Char2Dialogue    string   `json:"char2Dialogue,omitempty"`
	Char2BubblePos   string   `json:"char2BubblePos,omitempty"`
	Char2BubbleShape string   `json:"char2BubbleShape,omitempty"`
	Char2BubbleX     *float64 `json:"char2BubbleX,omitempty"`
	Char2BubbleY     *float64 `json:"char2BubbleY,omitempty"`
}

// Placements は2話者分の吹き出し配置を既定値解決済みの形で返します。
// 要素0が話者1、要素1が話者2です。
func (p *Panel) Placements() [2]BubblePlacement {
	return [2]BubblePlacement{
		resolvePlacement(0, p.Char1Dialogue, p.Char1BubblePos, p.Char1BubbleShape, p.Char1BubbleX, p.Char1BubbleY),
		resolvePlacement(1, p.Char2Dialogue, p.Char2BubblePos, p.Char2BubbleShape, p.Char2BubbleX, p.Char2BubbleY),
	}
}

// resolvePlacement は省略されたフィールドを話者ごとの既定値で補います。
func resolvePlacement(speaker int, dialogue, pos, shape string, x, y *float64) BubblePlacement {
	placement := DefaultPlacement(speaker)
	placement.Text = dialogue
	if pos != "" {
		placement.Anchor = BubbleAnchor(pos)
	}
	if shape != "" {
		placement.Shape = BubbleShape(shape)
	}
	if x != nil {
		placement.XPct = *x
	}
	if y != nil {
		placement.YPct = *y
	}
	return placement
}

// Apply はパッチをパネル状態へ反映します。
// オーバーレイの UpdateFunc から呼び出される唯一の変更経路です。
func (p *Panel) Apply(patch PlacementPatch) {
	if patch.Quick != nil {
		x, y := QuickPosition(*patch.Quick)
		anchor := *patch.Quick
		patch.Anchor = &anchor
		patch.XPct = &x
		patch.YPct = &y
	}

	if patch.Speaker == 0 {
		applyFields(patch,
			&p.Char1Dialogue, &p.Char1BubblePos, &p.Char1BubbleShape, &p.Char1BubbleX, &p.Char1BubbleY)
		return
	}
	applyFields(patch,
		&p.Char2Dialogue, &p.Char2BubblePos, &p.Char2BubbleShape, &p.Char2BubbleX, &p.Char2BubbleY)
}

func applyFields(patch PlacementPatch, dialogue, pos, shape *string, x, y **float64) {
	if patch.Text != nil {
		*dialogue = *patch.Text
	}
	if patch.Anchor != nil {
		*pos = string(*patch.Anchor)
	}
	if patch.Shape != nil {
		*shape = string(*patch.Shape)
	}
	if patch.XPct != nil {
		v := *patch.XPct
		*x = &v
	}
	if patch.YPct != nil {
		v := *patch.YPct
		*y = &v
	}
}
