package config

import (
	"strconv"
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultPanelLimit       = 10
	DefaultRateLimit        = 500 * time.Millisecond
	DefaultScriptFile       = "examples/comic_script.json" // 同梱サンプル台本のパスなのだ
	DefaultOutputDir        = "output"                     // パブリッシャーで使用するデフォルト保存先なのだ
	DefaultPreviewAddr      = ":8080"
	DefaultWatermarkText    = "Delay-comix"
	DefaultWatermarkOpacity = 0.6
	DefaultJPEGQuality      = 85
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	FontPath         string
	WatermarkText    string
	WatermarkOpacity float64

	Options ExportOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		FontPath:         envutil.GetEnv("COMIC_FONT_PATH", ""),
		WatermarkText:    envutil.GetEnv("COMIC_WATERMARK_TEXT", DefaultWatermarkText),
		WatermarkOpacity: getEnvFloat("COMIC_WATERMARK_OPACITY", DefaultWatermarkOpacity),
	}
	return cfg
}

// getEnvFloat は数値として解釈できない値をデフォルトへ倒すのだ
func getEnvFloat(key string, def float64) float64 {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// ExportOptions は CLI フラグから渡される実行時のパラメータなのだ。
type ExportOptions struct {
	// ソース入力関連
	ScriptFile string // --script-file
	OutputDir  string // --output-dir
	PanelLimit int    // --panel-limit

	// 書き出し関連（解像度はベース画像の実寸に従う）
	Format      string // --format: png または jpeg
	JPEGQuality int    // --jpeg-quality

	// プレビュー関連
	Addr string // --addr: プレビューサーバの待受アドレス

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
}
