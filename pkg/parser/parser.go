package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/Faustp1633/Delay-comix/pkg/domain"
)

// Parser は台本を解析するためのインターフェースを定義します。
type Parser interface {
	ParseFromPath(ctx context.Context, fullPath string) (*domain.Comic, error)
}

// ComicScriptParser は JSON 形式のコミック台本を解析する構造体です。
type ComicScriptParser struct {
	reader remoteio.InputReader
}

// NewComicScriptParser は新しい ComicScriptParser インスタンスを生成します。
func NewComicScriptParser(r remoteio.InputReader) *ComicScriptParser {
	return &ComicScriptParser{reader: r}
}

// ParseFromPath は指定された GCS URIやローカルファイルパスなどから
// コンテンツを読み込み、解析して domain.Comic を返します。
func (p *ComicScriptParser) ParseFromPath(ctx context.Context, scriptFile string) (*domain.Comic, error) {
	slog.InfoContext(ctx, "台本ファイルを読み込んでいます", "path", scriptFile)
	rc, err := p.reader.Open(ctx, scriptFile)
	if err != nil {
		return nil, fmt.Errorf("台本ファイルのオープンに失敗しました (%s): %w", scriptFile, err)
	}
	defer rc.Close()

	comic := &domain.Comic{}
	if err := json.NewDecoder(rc).Decode(comic); err != nil {
		return nil, fmt.Errorf("台本JSONのパースに失敗しました: %w", err)
	}

	if len(comic.Panels) == 0 {
		return nil, fmt.Errorf("台本にパネルが含まれていません (%s)", scriptFile)
	}

	comic.Normalize()
	return comic, nil
}
