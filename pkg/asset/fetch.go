package asset

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	imagedom "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = 1 * time.Hour
)

// ImageResolver は台本中の画像参照を実データへ解決します。
// 参照は data URL、HTTP(S) URL、GCS URI やローカルパスのいずれかを受け付けます。
// HTTP 取得はキャッシュと singleflight により同一 URL への重複リクエストを集約します。
type ImageResolver struct {
	httpClient httpkit.HTTPClient
	reader     remoteio.InputReader
	limiter    *rate.Limiter
	cache      *cache.Cache
	group      singleflight.Group
}

// NewImageResolver は新しい ImageResolver を生成します。limiter は nil を許容します。
func NewImageResolver(httpClient httpkit.HTTPClient, reader remoteio.InputReader, limiter *rate.Limiter) *ImageResolver {
	return &ImageResolver{
		httpClient: httpClient,
		reader:     reader,
		limiter:    limiter,
		cache:      cache.New(defaultCacheExpiration, cacheCleanupInterval),
	}
}

// Resolve は参照文字列をスキームで判別し、画像データとして解決します。
func (r *ImageResolver) Resolve(ctx context.Context, ref string) (*imagedom.ImageResponse, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return r.fetchHTTP(ctx, ref)
	default:
		return r.readRemote(ctx, ref)
	}
}

// fetchHTTP は HTTP(S) から画像を取得します。同じ URL への同時要求は
// singleflight で1回にまとめ、結果は有効期限付きキャッシュへ保存します。
func (r *ImageResolver) fetchHTTP(ctx context.Context, rawURL string) (*imagedom.ImageResponse, error) {
	if val, ok := r.cache.Get(rawURL); ok {
		if resp, ok := val.(*imagedom.ImageResponse); ok {
			return resp, nil
		}
	}

	val, err, _ := r.group.Do(rawURL, func() (interface{}, error) {
		// singleflight で待機中に他のゴルーチンが取得を完了させている可能性があるため再確認
		if cached, ok := r.cache.Get(rawURL); ok {
			return cached, nil
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("レートリミッタの待機に失敗しました: %w", err)
			}
		}

		data, err := r.httpClient.FetchBytes(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("画像の取得に失敗しました (%s): %w", rawURL, err)
		}

		resp := &imagedom.ImageResponse{Data: data, MimeType: http.DetectContentType(data)}
		r.cache.Set(rawURL, resp, cache.DefaultExpiration)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	resp, ok := val.(*imagedom.ImageResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return resp, nil
}

// readRemote は GCS URI やローカルパスからリーダー経由で画像を読み込みます。
func (r *ImageResolver) readRemote(ctx context.Context, path string) (*imagedom.ImageResponse, error) {
	rc, err := r.reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("画像のオープンに失敗しました (%s): %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("画像の読み込みに失敗しました (%s): %w", path, err)
	}

	return &imagedom.ImageResponse{Data: data, MimeType: http.DetectContentType(data)}, nil
}

// decodeDataURL は data:image/png;base64,... 形式の参照をデコードします。
func decodeDataURL(ref string) (*imagedom.ImageResponse, error) {
	meta, payload, ok := strings.Cut(ref, ",")
	if !ok {
		return nil, fmt.Errorf("data URL の形式が不正です")
	}

	meta = strings.TrimPrefix(meta, "data:")
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("base64 以外の data URL には対応していません")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data URL のデコードに失敗しました: %w", err)
	}

	return &imagedom.ImageResponse{Data: data, MimeType: mimeType}, nil
}
