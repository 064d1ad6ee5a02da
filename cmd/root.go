package cmd

import (
	"fmt"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/Faustp1633/Delay-comix/internal/config"
)

// opts は、コマンドラインフラグの値を集約する実行時オプションなのだ。
var opts config.ExportOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ScriptFile, "script-file", "f", config.DefaultScriptFile, "コミック台本のパス（JSON または Markdown、ローカル or gs://...）なのだ。")

	// --- 出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "成果物の保存先ディレクトリ（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().IntVarP(&opts.PanelLimit, "panel-limit", "p", config.DefaultPanelLimit, "処理する漫画パネルの最大数を指定するのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "リモート画像取得のタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前に共通の必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if opts.ScriptFile == "" {
		return fmt.Errorf("エラー: 読み込む台本（--script-file）を指定してほしいのだ")
	}
	if opts.PanelLimit < 0 {
		return fmt.Errorf("エラー: --panel-limit は0以上で指定してほしいのだ")
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"delay-comix",
		addAppFlags,
		preRunAppE,
		exportCmd,
		previewCmd,
	)
}
