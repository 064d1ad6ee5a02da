package domain

import (
	"encoding/json"
	"testing"
)

func TestPanel_Placements(t *testing.T) {
	t.Run("省略されたフィールドは既定値へ解決されること", func(t *testing.T) {
		p := Panel{Char1Dialogue: "こんにちは", Char2Dialogue: "やあ"}
		got := p.Placements()

		if got[0].Anchor != AnchorTopLeft || got[0].XPct != 5 || got[0].YPct != 5 {
			t.Errorf("話者1の既定配置が誤っています: %+v", got[0])
		}
		if got[1].Anchor != AnchorTopRight || got[1].XPct != 55 || got[1].YPct != 5 {
			t.Errorf("話者2の既定配置が誤っています: %+v", got[1])
		}
	})

	t.Run("明示されたフィールドは既定値より優先されること", func(t *testing.T) {
		x, y := 12.5, 80.0
		p := Panel{
			Char1Dialogue:    "……",
			Char1BubblePos:   "bottom-right",
			Char1BubbleShape: "thought",
			Char1BubbleX:     &x,
			Char1BubbleY:     &y,
		}
		got := p.Placements()[0]

		if got.Anchor != AnchorBottomRight || got.Shape != ShapeThought {
			t.Errorf("アンカー/形状の解決が誤っています: %+v", got)
		}
		if got.XPct != 12.5 || got.YPct != 80.0 {
			t.Errorf("座標の解決が誤っています: (%v,%v)", got.XPct, got.YPct)
		}
	})

	t.Run("座標0は省略と区別されること", func(t *testing.T) {
		zero := 0.0
		p := Panel{Char1Dialogue: "端", Char1BubbleX: &zero}
		if got := p.Placements()[0]; got.XPct != 0 {
			t.Errorf("明示された 0 が既定値で上書きされました: %v", got.XPct)
		}
	})
}

func TestPanel_Apply(t *testing.T) {
	t.Run("クイック配置はアンカーと座標をまとめて更新すること", func(t *testing.T) {
		p := Panel{ID: "p1", Char2Dialogue: "ねえ"}
		quick := AnchorBottomLeft
		p.Apply(PlacementPatch{Speaker: 1, Quick: &quick})

		got := p.Placements()[1]
		if got.Anchor != AnchorBottomLeft || got.XPct != 5 || got.YPct != 70 {
			t.Errorf("クイック配置の結果が誤っています: %+v", got)
		}
	})

	t.Run("部分更新は指定フィールドのみを変更すること", func(t *testing.T) {
		p := Panel{Char1Dialogue: "前"}
		x := 33.0
		p.Apply(PlacementPatch{Speaker: 0, XPct: &x})

		got := p.Placements()[0]
		if got.XPct != 33 {
			t.Errorf("XPct が更新されていません: %v", got.XPct)
		}
		if got.Text != "前" || got.YPct != 5 {
			t.Errorf("無関係なフィールドが変化しました: %+v", got)
		}
	})
}

func TestPanel_JSONFieldNames(t *testing.T) {
	// 外部インターフェースのフィールド名（camelCase）が維持されること
	x := 55.0
	p := Panel{
		ID:            "abc",
		Index:         2,
		ImageURL:      "data:image/png;base64,xxxx",
		Char1Dialogue: "hello",
		Char1BubbleX:  &x,
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal に失敗しました: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal に失敗しました: %v", err)
	}

	for _, key := range []string{"id", "index", "imageUrl", "char1Dialogue", "char1BubbleX"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("JSONキー %q が見つかりません", key)
		}
	}
	if _, ok := fields["char2Dialogue"]; ok {
		t.Error("空の char2Dialogue が省略されていません")
	}
}

func TestComic_Normalize(t *testing.T) {
	c := Comic{Panels: []Panel{{ID: "a", Index: 9}, {ID: "b"}}}
	c.Normalize()

	if c.Panels[0].Index != 0 || c.Panels[1].Index != 1 {
		t.Errorf("Index の補正が行われていません: %+v", c.Panels)
	}
	if c.PanelCount != 2 {
		t.Errorf("PanelCount の補正が行われていません: %d", c.PanelCount)
	}
	if c.FindPanel("b") == nil {
		t.Error("FindPanel が既存のパネルを見つけられません")
	}
	c2 := Comic{Panels: []Panel{{}, {ID: "keep"}}}
	c2.Normalize()
	if c2.Panels[0].ID != "panel_1" || c2.Panels[1].ID != "keep" {
		t.Errorf("ID の補完が行われていません: %+v", c2.Panels)
	}
	if c.FindPanel("zzz") != nil {
		t.Error("FindPanel が存在しないパネルを返しました")
	}
}
