// Package director は台本に明示されていない吹き出しの配置と形状を、
// パネルの流れに沿った規則で自動的に補う演出係です。
// 明示的な指定は一切上書きしません。
package director

import "github.com/Faustp1633/Delay-comix/pkg/domain"

// Director は自動レイアウトとスタイル判定をまとめた演出器です。
type Director struct {
	layout *LayoutManager
	style  *StyleManager
}

func New() *Director {
	return &Director{
		layout: NewLayoutManager(),
		style:  NewStyleManager(),
	}
}

// Apply はコミック全体へ演出規則を適用します。
// セリフ中のメタタグを形状へ変換し、位置指定のないパネルには
// インデックスに応じた交互の配置を与えます。
func (d *Director) Apply(comic *domain.Comic) {
	for i := range comic.Panels {
		d.applyPanel(&comic.Panels[i])
	}
}

func (d *Director) applyPanel(panel *domain.Panel) {
	anchors := d.layout.AnchorsFor(panel.Index)

	d.applySpeaker(&panel.Char1Dialogue, &panel.Char1BubbleShape, &panel.Char1BubblePos,
		&panel.Char1BubbleX, &panel.Char1BubbleY, anchors[0])
	d.applySpeaker(&panel.Char2Dialogue, &panel.Char2BubbleShape, &panel.Char2BubblePos,
		&panel.Char2BubbleX, &panel.Char2BubbleY, anchors[1])
}

func (d *Director) applySpeaker(dialogue, shape, pos *string, x, y **float64, anchor domain.BubbleAnchor) {
	if *dialogue == "" {
		return
	}

	resolved, cleaned := d.style.ResolveShape(*dialogue)
	*dialogue = cleaned
	if resolved != "" && *shape == "" {
		*shape = string(resolved)
	}

	// 位置が明示されていない話者にだけ自動配置を与える
	if *pos == "" && *x == nil && *y == nil {
		*pos = string(anchor)
		qx, qy := domain.QuickPosition(anchor)
		*x = &qx
		*y = &qy
	}
}
