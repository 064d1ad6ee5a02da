package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	imagedom "github.com/shouni/gemini-image-kit/ports"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"

	"github.com/Faustp1633/Delay-comix/internal/builder"
	"github.com/Faustp1633/Delay-comix/internal/config"
	"github.com/Faustp1633/Delay-comix/internal/server"
	"github.com/Faustp1633/Delay-comix/pkg/domain"
)

// ExecuteExport は、台本の読み込み、吹き出し合成、公開処理を一気に実行するのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Phase 1: Script Phase (台本の読み込み) ---
	comic, err := runScriptStep(ctx, appCtx)
	if err != nil {
		return err
	}

	// --- Phase 2: Composite Phase (吹き出し合成) ---
	images, err := runExportStep(ctx, appCtx, comic)
	if err != nil {
		return err
	}

	// --- Phase 3: Publish Phase (公開/保存) ---
	if err := runPublishStep(ctx, appCtx, comic, images); err != nil {
		return err
	}

	slog.Info("吹き出し合成と公開処理が完了したのだ！")
	return nil
}

// ExecutePreview は、台本を読み込んでインタラクティブな編集サーバを起動するのだ。
// サーバは ctx のキャンセルまで走り続けるのだ。
func ExecutePreview(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	comic, err := runScriptStep(ctx, appCtx)
	if err != nil {
		return err
	}

	exportRunner, err := builder.BuildExportRunner(ctx, appCtx)
	if err != nil {
		return fmt.Errorf("ExportRunnerの構築に失敗したのだ: %w", err)
	}

	srv, err := server.New(comic, exportRunner, cfg.Options.Addr)
	if err != nil {
		return fmt.Errorf("プレビューサーバの構築に失敗したのだ: %w", err)
	}

	slog.Info("プレビューサーバを起動するのだ", "addr", cfg.Options.Addr)
	return srv.ListenAndServe(ctx)
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// 初期化中にエラーが発生した場合は、AppContext のポインタとエラーを返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	timeout := cfg.Options.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.InputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, reader, writer)
	return &appCtx, nil
}

// runScriptStep は ScriptRunner を使って台本を構造化データへ変換するのだ
func runScriptStep(ctx context.Context, appCtx *builder.AppContext) (*domain.Comic, error) {
	slog.Info("Phase 1: 台本の読み込みを開始するのだ...", "script", appCtx.Options.ScriptFile)
	scriptRunner, err := builder.BuildScriptRunner(ctx, appCtx)
	if err != nil {
		return nil, fmt.Errorf("ScriptRunnerの構築に失敗したのだ: %w", err)
	}

	comic, err := scriptRunner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("台本の読み込みに失敗したのだ: %w", err)
	}
	return comic, nil
}

// runExportStep は PanelExportRunner を使ってパネルを並列合成するのだ
func runExportStep(ctx context.Context, appCtx *builder.AppContext, comic *domain.Comic) ([]*imagedom.ImageResponse, error) {
	slog.Info("Phase 2: 吹き出し合成を開始するのだ...", "panels", len(comic.Panels))
	exportRunner, err := builder.BuildExportRunner(ctx, appCtx)
	if err != nil {
		return nil, fmt.Errorf("ExportRunnerの構築に失敗したのだ: %w", err)
	}

	images, err := exportRunner.Run(ctx, comic)
	if err != nil {
		return nil, fmt.Errorf("吹き出し合成に失敗したのだ: %w", err)
	}
	return images, nil
}

// runPublishStep は PublisherRunner を使って最終成果物を保存するのだ
func runPublishStep(ctx context.Context, appCtx *builder.AppContext, comic *domain.Comic, images []*imagedom.ImageResponse) error {
	slog.Info("Phase 3: 公開処理を開始するのだ...")
	publishRunner, err := builder.BuildPublisherRunner(ctx, appCtx)
	if err != nil {
		return fmt.Errorf("PublishRunnerの構築に失敗したのだ: %w", err)
	}

	result, err := publishRunner.Run(ctx, comic, images)
	if err != nil {
		return fmt.Errorf("公開処理に失敗したのだ: %w", err)
	}

	slog.Info("成果物を保存したのだ", "markdown", result.MarkdownPath, "html", result.HTMLPath, "images", len(result.ImagePaths))
	return nil
}
