package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Faustp1633/Delay-comix/internal/config"
	"github.com/Faustp1633/Delay-comix/internal/pipeline"
)

// exportCmd は、台本を読み込んで吹き出しを合成し、成果物を保存するサブコマンドなのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "台本からパネル画像へ吹き出しを合成して保存するのだ。",
	Long: `コミック台本（JSON または Markdown）を読み込み、各パネル画像へ
吹き出し・しっぽ・透かしをラスタ合成して保存するのだ。
合成結果に加えて、閲覧用の Markdown と HTML も出力するのだよ。`,
	RunE: exportCommand,
}

// init は、export コマンド固有のフラグを定義するのだ。
func init() {
	exportCmd.Flags().StringVar(&opts.Format, "format", "png", "保存する画像形式（png または jpeg）なのだ。")
	exportCmd.Flags().IntVar(&opts.JPEGQuality, "jpeg-quality", config.DefaultJPEGQuality, "--format jpeg 時の品質（1-100）なのだ。")
}

// exportCommand は、export サブコマンドの実行ロジック本体なのだ。
func exportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.Format != "png" && opts.Format != "jpeg" {
		return fmt.Errorf("未対応の画像形式なのだ: %s（png か jpeg を指定してほしいのだ）", opts.Format)
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	slog.Info("書き出しモードを起動するのだ！",
		"script", cfg.Options.ScriptFile,
		"output_dir", cfg.Options.OutputDir,
		"format", cfg.Options.Format)

	// 3. パイプライン実行
	return pipeline.ExecuteExport(ctx, cfg)
}
