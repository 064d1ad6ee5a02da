package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-text-format/pkg/builder"
	"golang.org/x/time/rate"

	"github.com/Faustp1633/Delay-comix/internal/config"
	"github.com/Faustp1633/Delay-comix/internal/runner"
	"github.com/Faustp1633/Delay-comix/pkg/asset"
	"github.com/Faustp1633/Delay-comix/pkg/compositor"
	"github.com/Faustp1633/Delay-comix/pkg/publisher"
)

// BuildScriptRunner は台本の読み込みと解析を担当する Runner を構築します。
func BuildScriptRunner(ctx context.Context, appCtx *AppContext) (runner.ScriptRunner, error) {
	if appCtx.Reader == nil {
		return nil, fmt.Errorf("台本の読み込みに使うリーダーが初期化されていません")
	}
	return runner.NewComicScriptRunner(appCtx.Options.ScriptFile, appCtx.Reader), nil
}

// BuildExportRunner はパネルの画像解決と吹き出し合成を担当する Runner を構築します。
func BuildExportRunner(ctx context.Context, appCtx *AppContext) (runner.ExportRunner, error) {
	comp, err := compositor.New(compositor.Options{
		FontPath:         appCtx.Config.FontPath,
		WatermarkText:    appCtx.Config.WatermarkText,
		WatermarkOpacity: appCtx.Config.WatermarkOpacity,
	})
	if err != nil {
		return nil, fmt.Errorf("コンポジタの初期化に失敗したのだ: %w", err)
	}

	// リモート画像の取得間隔を制限するのだ。Burst 2 により開始直後は2件まで同時に走れるのだ
	limiter := rate.NewLimiter(rate.Every(config.DefaultRateLimit), 2)
	resolver := asset.NewImageResolver(appCtx.httpClient, appCtx.Reader, limiter)

	return runner.NewPanelExportRunner(
		resolver,
		comp,
		appCtx.Options.PanelLimit,
	), nil
}

// BuildPublisherRunner はコンテンツ保存と変換を行う Runner を構築します。
func BuildPublisherRunner(ctx context.Context, appCtx *AppContext) (runner.PublisherRunner, error) {
	htmlCfg := builder.BuilderConfig{
		EnableHardWraps: true,
		Mode:            "webtoon",
	}
	appBuilder, err := builder.NewBuilder(htmlCfg)
	if err != nil {
		return nil, fmt.Errorf("アプリケーションビルダーの初期化に失敗しました: %w", err)
	}

	md2htmlRunner, err := appBuilder.BuildRunner()
	if err != nil {
		return nil, fmt.Errorf("MarkdownToHtmlRunnerの初期化に失敗しました: %w", err)
	}

	pub := publisher.NewComicPublisher(appCtx.Writer, md2htmlRunner)
	return runner.NewDefaultPublisherRunner(appCtx.Options, pub), nil
}
