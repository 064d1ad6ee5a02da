package builder

import (
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/Faustp1633/Delay-comix/internal/config"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（フォントパス、透かし設定など）。
	Options    config.ExportOptions    // Optionsは、コマンドラインから渡された実行時の設定です（台本パス、出力先、形式など）。
	Reader     remoteio.InputReader    // Readerは、台本やパネル画像の読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter   // Writerは、合成結果を保存するための出力先です。
	httpClient httpkit.HTTPClient // httpClient はリモート画像の取得に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.HTTPClient,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		httpClient: httpClient,
		Reader:     reader,
		Writer:     writer,
	}
}
