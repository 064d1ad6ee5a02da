package runner

import (
	"context"

	imagedom "github.com/shouni/gemini-image-kit/ports"

	"github.com/Faustp1633/Delay-comix/internal/config"
	"github.com/Faustp1633/Delay-comix/pkg/domain"
	"github.com/Faustp1633/Delay-comix/pkg/publisher"
)

// PublisherRunner はパブリッシュ処理のインターフェースです。
type PublisherRunner interface {
	Run(ctx context.Context, comic *domain.Comic, images []*imagedom.ImageResponse) (publisher.PublishResult, error)
}

// DefaultPublisherRunner は pkg/publisher を利用した標準実装です。
type DefaultPublisherRunner struct {
	options   config.ExportOptions
	publisher *publisher.ComicPublisher
}

func NewDefaultPublisherRunner(options config.ExportOptions, pub *publisher.ComicPublisher) *DefaultPublisherRunner {
	return &DefaultPublisherRunner{
		options:   options,
		publisher: pub,
	}
}

func (pr *DefaultPublisherRunner) Run(ctx context.Context, comic *domain.Comic, images []*imagedom.ImageResponse) (publisher.PublishResult, error) {
	// internal/config の値を pkg/publisher 用の構造体に詰め替えます。
	opts := publisher.Options{
		OutputDir:   pr.options.OutputDir,
		Format:      publisher.ImageFormat(pr.options.Format),
		JPEGQuality: pr.options.JPEGQuality,
	}

	return pr.publisher.Publish(ctx, comic, images, opts)
}
