package domain

import "fmt"

// Character は漫画に登場するキャラクターの定義を保持します。
// コンポジタはキャラクターの同一性を既定配置の選択にのみ使用します。
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// String はキャラクターの情報を文字列で返します。
func (c Character) String() string {
	if c.Description == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Description)
}

// Comic は台本生成サービスから受け取る台本全体の構造です。
// 1つの Comic が複数の Panel を持ち、各 Panel が最大2つの吹き出しを持ちます。
type Comic struct {
	Title      string      `json:"title"`
	Style      string      `json:"style,omitempty"`
	Characters []Character `json:"characters,omitempty"`
	PanelCount int         `json:"panelCount,omitempty"`
	Panels     []Panel     `json:"panels"`
}

// Normalize は ID・Index の欠落やパネル数フィールドの不整合を読み取り時に補正します。
func (c *Comic) Normalize() {
	for i := range c.Panels {
		c.Panels[i].Index = i
		if c.Panels[i].ID == "" {
			c.Panels[i].ID = fmt.Sprintf("panel_%d", i+1)
		}
	}
	c.PanelCount = len(c.Panels)
}

// FindPanel は ID に一致するパネルを返します。見つからない場合は nil です。
func (c *Comic) FindPanel(id string) *Panel {
	for i := range c.Panels {
		if c.Panels[i].ID == id {
			return &c.Panels[i]
		}
	}
	return nil
}
