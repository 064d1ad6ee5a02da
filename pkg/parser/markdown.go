package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Faustp1633/Delay-comix/pkg/domain"
)

const (
	fieldKeySetting    = "setting"
	fieldKeyChar1      = "char1"
	fieldKeyChar1Pos   = "char1_pos"
	fieldKeyChar1Shape = "char1_shape"
	fieldKeyChar2      = "char2"
	fieldKeyChar2Pos   = "char2_pos"
	fieldKeyChar2Shape = "char2_shape"
)

// MarkdownScriptParser はMarkdown形式の台本を解析し、構造化データに変換する構造体です。
// "## Panel <画像参照>" でパネルを区切り、"- key: value" 行で各フィールドを指定します。
type MarkdownScriptParser struct {
}

// NewMarkdownScriptParser は MarkdownScriptParser を初期化するのだ。
func NewMarkdownScriptParser() *MarkdownScriptParser {
	return &MarkdownScriptParser{}
}

// Parse は指定された scriptURL を基に画像の参照パスを解決し、
// Markdown テキストを解析して domain.Comic 構造体に変換します。
func (p *MarkdownScriptParser) Parse(scriptURL string, input string) (*domain.Comic, error) {
	// その時の scriptURL に基づいてベースURLを算出する
	baseURL := resolveBaseURL(scriptURL)

	comic := &domain.Comic{}
	lines := strings.Split(input, "\n")
	var currentPanel *domain.Panel

	// 前のパネルを確定して追加するヘルパー関数
	addPreviousPanel := func() {
		if currentPanel != nil && hasContent(currentPanel) {
			comic.Panels = append(comic.Panels, *currentPanel)
		}
	}

	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue
		}

		if m := PanelRegex.FindStringSubmatch(trimmedLine); m != nil {
			addPreviousPanel()

			var refPath string
			if len(m) > 1 {
				refPath = strings.TrimSpace(m[1])
			}

			currentPanel = &domain.Panel{
				ImageURL: resolveFullPath(baseURL, refPath),
			}
			continue
		}

		if m := TitleRegex.FindStringSubmatch(trimmedLine); m != nil {
			comic.Title = strings.TrimSpace(m[1])
			continue
		}

		// フィールド行 (- key: value) の解析
		if currentPanel == nil {
			continue
		}
		if m := FieldRegex.FindStringSubmatch(trimmedLine); m != nil {
			key, val := strings.ToLower(m[1]), strings.TrimSpace(m[2])
			switch key {
			case fieldKeySetting:
				currentPanel.Setting = val
			case fieldKeyChar1:
				currentPanel.Char1Dialogue = val
			case fieldKeyChar1Pos:
				currentPanel.Char1BubblePos = val
			case fieldKeyChar1Shape:
				currentPanel.Char1BubbleShape = val
			case fieldKeyChar2:
				currentPanel.Char2Dialogue = val
			case fieldKeyChar2Pos:
				currentPanel.Char2BubblePos = val
			case fieldKeyChar2Shape:
				currentPanel.Char2BubbleShape = val
			default:
				slog.Debug("Markdown内に未知のフィールドキーが見つかりました", "key", key)
			}
		}
	}

	// 最後のパネルの追加
	addPreviousPanel()

	if len(comic.Panels) == 0 {
		return nil, fmt.Errorf("有効なパネル情報が見つかりませんでした")
	}

	comic.Normalize()
	return comic, nil
}

// hasContent はパネルに有効な情報が含まれているか判定します。
func hasContent(panel *domain.Panel) bool {
	return panel.ImageURL != "" || panel.Setting != "" ||
		panel.Char1Dialogue != "" || panel.Char2Dialogue != ""
}
