package director

import "github.com/Faustp1633/Delay-comix/pkg/domain"

// LayoutManager は吹き出しの自動配置ルールを管理します。
type LayoutManager struct{}

func NewLayoutManager() *LayoutManager {
	return &LayoutManager{}
}

// AnchorsFor はパネルのインデックスに基づき、2話者分のアンカーを返します。
// 偶数・奇数のパネルで対角配置を入れ替え、視線が交互に流れるようにします。
func (l *LayoutManager) AnchorsFor(index int) [2]domain.BubbleAnchor {
	if index%2 == 0 {
		return [2]domain.BubbleAnchor{domain.AnchorTopLeft, domain.AnchorBottomRight}
	}
	return [2]domain.BubbleAnchor{domain.AnchorBottomLeft, domain.AnchorTopRight}
}
