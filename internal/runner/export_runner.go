package runner

import (
	"context"
	"fmt"
	"log/slog"

	imagedom "github.com/shouni/gemini-image-kit/ports"
	"golang.org/x/sync/errgroup"

	"github.com/Faustp1633/Delay-comix/pkg/asset"
	"github.com/Faustp1633/Delay-comix/pkg/compositor"
	"github.com/Faustp1633/Delay-comix/pkg/domain"
	"github.com/Faustp1633/Delay-comix/pkg/geometry"
)

// ExportRunner は、台本データを基に吹き出し合成済みのパネル画像を作るためのインターフェース。
type ExportRunner interface {
	// Run は台本の全パネルに対して合成を実行し、結果のリストを返す。
	Run(ctx context.Context, comic *domain.Comic) ([]*imagedom.ImageResponse, error)
	// RenderPanel は単一パネルの合成を実行する。プレビューのラスタ確認用。
	RenderPanel(ctx context.Context, panel domain.Panel) (*imagedom.ImageResponse, error)
}

// PanelExportRunner は、パネルごとの画像解決と合成を並列で行う実体。
// 出力解像度はベース画像の実寸に従う。
type PanelExportRunner struct {
	resolver   *asset.ImageResolver   // パネル画像参照の解決器
	compositor *compositor.Compositor // 吹き出しと透かしのラスタ合成器
	limit      int                    // 処理する最大パネル数の制限
}

// NewPanelExportRunner は、PanelExportRunnerの新しいインスタンスを生成して返す。
func NewPanelExportRunner(resolver *asset.ImageResolver, comp *compositor.Compositor, limit int) *PanelExportRunner {
	return &PanelExportRunner{
		resolver:   resolver,
		compositor: comp,
		limit:      limit,
	}
}

// Run は並列処理を用いて、各パネルの吹き出し合成を実行するメインロジックなのだ。
func (er *PanelExportRunner) Run(ctx context.Context, comic *domain.Comic) ([]*imagedom.ImageResponse, error) {
	panels := comic.Panels
	// 指定があれば、処理するパネル数を制限するのだ（テスト用などに便利！）
	if er.limit > 0 && len(panels) > er.limit {
		slog.Info("パネル数に制限を適用したのだ", "limit", er.limit, "total", len(panels))
		panels = panels[:er.limit]
	}

	images := make([]*imagedom.ImageResponse, len(panels))
	eg, egCtx := errgroup.WithContext(ctx)

	slog.Info("並列パネル合成を開始するのだ", "count", len(panels))

	for i, panel := range panels {
		i, panel := i, panel // ゴルーチンのクロージャ対策なのだ

		eg.Go(func() error {
			if panel.ImageURL == "" {
				slog.Warn("画像参照のないパネルをスキップするのだ", "panel", panel.ID)
				return nil
			}

			resp, err := er.RenderPanel(egCtx, panel)
			if err != nil {
				return err
			}

			images[i] = resp
			slog.Info("パネル合成に成功したのだ", "panel", panel.ID, "index", i+1)
			return nil
		})
	}

	// すべての並列処理が完了するのを待つのだ
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("すべてのパネルが正常に合成されたのだ", "total", len(images))
	return images, nil
}

// RenderPanel は単一パネルの画像解決・デコード・合成を実行するのだ。
func (er *PanelExportRunner) RenderPanel(ctx context.Context, panel domain.Panel) (*imagedom.ImageResponse, error) {
	// 1. 画像参照を実データへ解決するのだ
	resolved, err := er.resolver.Resolve(ctx, panel.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("パネル画像の解決に失敗しました (%s): %w", panel.ID, err)
	}

	// 2. ベース画像をデコードするのだ
	base, err := compositor.Decode(resolved.Data)
	if err != nil {
		return nil, fmt.Errorf("パネル画像のデコードに失敗しました (%s): %w", panel.ID, err)
	}

	// 3. 画像の実寸に応じたスケール係数で吹き出しを合成するのだ
	sc := geometry.NewScaleContext(float64(base.Bounds().Dx()))
	placements := panel.Placements()
	data, err := er.compositor.RenderPNG(base, placements[:], sc)
	if err != nil {
		return nil, fmt.Errorf("パネルの合成に失敗しました (%s): %w", panel.ID, err)
	}

	return &imagedom.ImageResponse{Data: data, MimeType: "image/png"}, nil
}
