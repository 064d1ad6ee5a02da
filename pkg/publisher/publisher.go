package publisher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	imagedom "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/gemini-image-kit/imgutil"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-text-format/pkg/md2htmlrunner"

	"github.com/Faustp1633/Delay-comix/pkg/asset"
	"github.com/Faustp1633/Delay-comix/pkg/domain"
)

// ImageFormat は保存する画像フォーマットです。
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// DefaultJPEGQuality は JPEG 出力時のデフォルト品質です。
const DefaultJPEGQuality = 85

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir   string
	Format      ImageFormat // 省略時は PNG
	JPEGQuality int         // Format が jpeg の場合のみ有効
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string   // 生成された comic.md のパス
	HTMLPath     string   // 生成された HTML のパス
	ImagePaths   []string // 保存された全パネル画像のパスリスト
}

// ComicPublisher は合成済みパネルの永続化とフォーマット変換を担います。
type ComicPublisher struct {
	writer     remoteio.OutputWriter
	htmlRunner md2htmlrunner.Runner
}

// NewComicPublisher は指定の writer と HTML runner を持つ ComicPublisher を生成します。
// htmlRunner が nil の場合、HTML 変換はスキップされます。
func NewComicPublisher(writer remoteio.OutputWriter, htmlRunner md2htmlrunner.Runner) *ComicPublisher {
	return &ComicPublisher{
		writer:     writer,
		htmlRunner: htmlRunner,
	}
}

// Publish は画像の保存、Markdownの構築、HTML変換を一括して実行し、生成されたファイル情報を返却するのだ！
func (p *ComicPublisher) Publish(ctx context.Context, comic *domain.Comic, images []*imagedom.ImageResponse, opts Options) (PublishResult, error) {
	result := PublishResult{}

	markdown, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultComicName)
	if err != nil {
		return result, err
	}
	result.MarkdownPath = markdown

	imgDir, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultImageDir)
	if err != nil {
		return result, err
	}

	savedPaths, err := p.saveImages(ctx, images, imgDir, opts)
	if err != nil {
		return result, fmt.Errorf("画像の書き込みに失敗しました: %w", err)
	}
	// savedPaths はパネル位置と添字が揃っている（欠番は空文字列）。
	// ImagePaths には実際に書き出したファイルだけを載せる
	for _, pathStr := range savedPaths {
		if pathStr != "" {
			result.ImagePaths = append(result.ImagePaths, pathStr)
		}
	}

	// Markdown からは images/ 配下の相対パスで参照する。欠番は空のまま残し、
	// buildMarkdown 側でプレースホルダーへ倒す
	relativePaths := make([]string, len(savedPaths))
	for i, pathStr := range savedPaths {
		if pathStr != "" {
			relativePaths[i] = path.Join(asset.DefaultImageDir, filepath.Base(pathStr))
		}
	}

	content := buildMarkdown(comic, relativePaths)

	if err := p.writer.Write(ctx, markdown, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}

	if p.htmlRunner != nil {
		slog.InfoContext(ctx, "HTMLビューアへ変換しています", "title", comic.Title)
		htmlBuffer, err := p.htmlRunner.Run(ctx, comic.Title, []byte(content))
		if err != nil {
			return result, fmt.Errorf("HTMLの変換に失敗しました: %w", err)
		}

		htmlPath := strings.TrimSuffix(markdown, filepath.Ext(markdown)) + ".html"
		if err := p.writer.Write(ctx, htmlPath, htmlBuffer, "text/html; charset=utf-8"); err != nil {
			return result, fmt.Errorf("HTMLファイルの書き込みに失敗しました: %w", err)
		}
		result.HTMLPath = htmlPath
	}

	return result, nil
}

// saveImages は合成済みパネル画像を保存し、保存先パスのリストを返します。
// 返り値は images と添字が揃っており、画像のないパネルの位置には
// 空文字列が入ります。Format が jpeg の場合は保存前に JPEG へ再圧縮します。
func (p *ComicPublisher) saveImages(ctx context.Context, images []*imagedom.ImageResponse, baseDir string, opts Options) ([]string, error) {
	paths := make([]string, len(images))
	for i, img := range images {
		if img == nil || len(img.Data) == 0 {
			continue
		}

		data := img.Data
		mime := "image/png"
		ext := ".png"
		if opts.Format == FormatJPEG {
			quality := opts.JPEGQuality
			if quality <= 0 {
				quality = DefaultJPEGQuality
			}
			compressed, err := imgutil.CompressToJPEG(img.Data, quality)
			if err != nil {
				return nil, fmt.Errorf("JPEG圧縮に失敗しました (panel %d): %w", i+1, err)
			}
			data = compressed
			mime = "image/jpeg"
			ext = ".jpg"
		}

		name := fmt.Sprintf("panel_%d%s", i+1, ext)
		fullPath, err := asset.ResolveOutputPath(baseDir, name)
		if err != nil {
			return nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}

		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), mime); err != nil {
			return nil, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
		}
		paths[i] = fullPath
	}
	return paths, nil
}
