package parser

import "regexp"

var (
	// TitleRegex は "# タイトル" 形式のタイトル行をキャプチャします。
	TitleRegex = regexp.MustCompile(`^#\s+(.+)`)

	// PanelRegex は "## Panel" で始まるパネル区切り行を特定し、
	// 続く画像参照（省略可能）をキャプチャします。
	PanelRegex = regexp.MustCompile(`^##\s+Panel(?:\s+(\S+))?`)

	// FieldRegex は "- key: value" 形式のフィールド行をキャプチャします。
	FieldRegex = regexp.MustCompile(`^\s*-\s*([a-zA-Z][a-zA-Z0-9_]*):\s*(.+)`)
)
