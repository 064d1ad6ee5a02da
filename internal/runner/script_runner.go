package runner

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/Faustp1633/Delay-comix/pkg/director"
	"github.com/Faustp1633/Delay-comix/pkg/domain"
	"github.com/Faustp1633/Delay-comix/pkg/parser"
)

// ScriptRunner は、コミック台本を読み込んで構造化データを返すためのインターフェースなのだ。
type ScriptRunner interface {
	// Run は台本の読み込みと解析を実行し、構造化されたコミックデータを返すのだ。
	Run(ctx context.Context) (*domain.Comic, error)
}

// ComicScriptRunner は、JSON/Markdown 形式の台本を読み込む核となる構造体なのだ。
// 拡張子 .md / .markdown は Markdown として、それ以外は JSON として解釈するのだ。
type ComicScriptRunner struct {
	scriptFile string                       // 台本のパス（ローカル、GCS URI、URL）
	jsonParser parser.Parser                // JSON 台本のパーサー
	mdParser   *parser.MarkdownScriptParser // Markdown 台本のパーサー
	director   *director.Director           // 未指定の配置と形状を補う演出器
	reader     remoteio.InputReader         // ローカルやGCSのファイルを読み込むリーダー
}

// NewComicScriptRunner は、ComicScriptRunnerの新しいインスタンスを生成して返すのだ。
func NewComicScriptRunner(scriptFile string, reader remoteio.InputReader) *ComicScriptRunner {
	return &ComicScriptRunner{
		scriptFile: scriptFile,
		jsonParser: parser.NewComicScriptParser(reader),
		mdParser:   parser.NewMarkdownScriptParser(),
		director:   director.New(),
		reader:     reader,
	}
}

// Run は、台本の形式を拡張子で判別して適切なパーサーへ委譲し、
// 演出規則を適用した状態のコミックを返すのだ。
func (sr *ComicScriptRunner) Run(ctx context.Context) (*domain.Comic, error) {
	comic, err := sr.parse(ctx)
	if err != nil {
		return nil, err
	}

	sr.director.Apply(comic)
	return comic, nil
}

func (sr *ComicScriptRunner) parse(ctx context.Context) (*domain.Comic, error) {
	ext := strings.ToLower(filepath.Ext(sr.scriptFile))
	if ext == ".md" || ext == ".markdown" {
		rc, err := sr.reader.Open(ctx, sr.scriptFile)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		return sr.mdParser.Parse(sr.scriptFile, string(content))
	}

	return sr.jsonParser.ParseFromPath(ctx, sr.scriptFile)
}
