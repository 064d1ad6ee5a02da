package publisher

import (
	"fmt"
	"strings"

	"github.com/Faustp1633/Delay-comix/pkg/domain"
)

const placeholderImage = "placeholder.png"

// buildMarkdown はコミック全体の閲覧用 Markdown を構築します。
// imagePaths はパネル配列と添字が揃っている前提で、空の要素は
// プレースホルダー画像で表示します。吹き出しは画像へ合成済みのため、
// セリフは検索性のための引用として併記します。
func buildMarkdown(comic *domain.Comic, imagePaths []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", comic.Title))

	for i, panel := range comic.Panels {
		img := placeholderImage
		if i < len(imagePaths) && imagePaths[i] != "" {
			img = imagePaths[i]
		}

		sb.WriteString(fmt.Sprintf("## Panel %d\n\n", i+1))
		sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", altText(panel, i), img))

		if panel.Setting != "" {
			sb.WriteString(fmt.Sprintf("*%s*\n\n", panel.Setting))
		}
		for _, dialogue := range []string{panel.Char1Dialogue, panel.Char2Dialogue} {
			if strings.TrimSpace(dialogue) != "" {
				sb.WriteString(fmt.Sprintf("> %s\n", strings.TrimSpace(dialogue)))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// altText は画像の代替テキストを返します。構成の説明があればそれを優先します。
func altText(panel domain.Panel, index int) string {
	if panel.Setting != "" {
		return panel.Setting
	}
	return fmt.Sprintf("Panel %d", index+1)
}
