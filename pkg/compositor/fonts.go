package compositor

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// FontLibrary は1つのフォントソースとサイズ別フェイスの生成を担います。
// text.Face は並行利用に安全なため、複数パネルの同時ラスタライズでも
// ライブラリを共有できます。
type FontLibrary struct {
	source *text.FontSource
}

// NewFontLibrary は指定パスのフォントを読み込みます。パスが空、または
// 読み込みに失敗した場合は警告を出して組み込みの Go Regular へ縮退します。
// フォントの読み込み失敗がレンダリングを中断することはありません。
func NewFontLibrary(path string) (*FontLibrary, error) {
	if path != "" {
		source, err := text.NewFontSourceFromFile(path)
		if err == nil {
			return &FontLibrary{source: source}, nil
		}
		slog.Warn("フォントの読み込みに失敗したため、組み込みフォントへ縮退します",
			"path", path, "error", err)
	}

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("組み込みフォントの解析に失敗しました: %w", err)
	}
	return &FontLibrary{source: source}, nil
}

// Face は指定サイズ（px）のフォントフェイスを返します。
func (l *FontLibrary) Face(size float64) text.Face {
	return l.source.Face(size)
}
