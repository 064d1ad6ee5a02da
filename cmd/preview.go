package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Faustp1633/Delay-comix/internal/config"
	"github.com/Faustp1633/Delay-comix/internal/pipeline"
)

// previewCmd は、ブラウザ上で吹き出し配置を調整するプレビューサーバを起動するのだ。
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "吹き出し配置を調整するプレビューサーバを起動するのだ。",
	Long: `台本を読み込み、パネルの上にオーバーレイ表示された吹き出しを
ブラウザから編集できるプレビューサーバを起動するのだ。
オーバーレイとラスタ合成は同じ計算を共有しているから、見たままが書き出されるのだよ。`,
	RunE: previewCommand,
}

// init は、preview コマンド固有のフラグを定義するのだ。
func init() {
	previewCmd.Flags().StringVar(&opts.Addr, "addr", config.DefaultPreviewAddr, "プレビューサーバの待受アドレスなのだ。")
}

// previewCommand は、preview サブコマンドの実行ロジック本体なのだ。
func previewCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("プレビューモードを起動するのだ！",
		"script", cfg.Options.ScriptFile,
		"addr", cfg.Options.Addr)

	return pipeline.ExecutePreview(ctx, cfg)
}
