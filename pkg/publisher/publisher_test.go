package publisher

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faustp1633/Delay-comix/pkg/domain"

	imagedom "github.com/shouni/gemini-image-kit/ports"
)

// mockWriter は remoteio.OutputWriter を実装し、書き込み内容を記録するのだ。
type mockWriter struct {
	files map[string][]byte
	mimes map[string]string
	err   error
}

func newMockWriter() *mockWriter {
	return &mockWriter{files: map[string][]byte{}, mimes: map[string]string{}}
}

func (m *mockWriter) Write(ctx context.Context, path string, data io.Reader, mimeType string) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.files[path] = b
	m.mimes[path] = mimeType
	return nil
}

// mockHTMLRunner は md2htmlrunner.Runner を実装するのだ。
type mockHTMLRunner struct {
	lastTitle string
	err       error
}

func (m *mockHTMLRunner) Run(ctx context.Context, title string, content []byte) (io.Reader, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastTitle = title
	return strings.NewReader("<html>" + title + "</html>"), nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func sampleComic() *domain.Comic {
	c := &domain.Comic{
		Title: "放課後の屋上",
		Panels: []domain.Panel{
			{Setting: "屋上、夕暮れ", Char1Dialogue: "やっと見つけた！"},
			{Char2Dialogue: "……逃げてないよ"},
		},
	}
	c.Normalize()
	return c
}

func TestPublish_PNG(t *testing.T) {
	writer := newMockWriter()
	runner := &mockHTMLRunner{}
	p := NewComicPublisher(writer, runner)

	data := pngBytes(t)
	images := []*imagedom.ImageResponse{
		{Data: data, MimeType: "image/png"},
		{Data: data, MimeType: "image/png"},
	}

	result, err := p.Publish(context.Background(), sampleComic(), images, Options{OutputDir: "output"})
	require.NoError(t, err)

	require.Len(t, result.ImagePaths, 2)
	assert.Contains(t, result.ImagePaths[0], "panel_1.png")
	assert.Contains(t, result.ImagePaths[1], "panel_2.png")
	assert.Equal(t, "image/png", writer.mimes[result.ImagePaths[0]])

	// Markdown には相対パスとセリフが含まれること
	md := string(writer.files[result.MarkdownPath])
	assert.Contains(t, md, "# 放課後の屋上")
	assert.Contains(t, md, "images/panel_1.png")
	assert.Contains(t, md, "> やっと見つけた！")
	assert.Contains(t, md, "*屋上、夕暮れ*")

	// HTML も出力されること
	assert.NotEmpty(t, result.HTMLPath)
	assert.Contains(t, string(writer.files[result.HTMLPath]), "放課後の屋上")
	assert.Equal(t, "放課後の屋上", runner.lastTitle)
}

func TestPublish_JPEG(t *testing.T) {
	writer := newMockWriter()
	p := NewComicPublisher(writer, nil)

	images := []*imagedom.ImageResponse{{Data: pngBytes(t), MimeType: "image/png"}}

	result, err := p.Publish(context.Background(), sampleComic(), images,
		Options{OutputDir: "output", Format: FormatJPEG, JPEGQuality: 70})
	require.NoError(t, err)

	require.Len(t, result.ImagePaths, 1)
	assert.Contains(t, result.ImagePaths[0], "panel_1.jpg")
	assert.Equal(t, "image/jpeg", writer.mimes[result.ImagePaths[0]])
	// JPEG マジックナンバーで始まること
	saved := writer.files[result.ImagePaths[0]]
	require.True(t, len(saved) > 2)
	assert.Equal(t, []byte{0xff, 0xd8}, saved[:2])
}

func TestPublish_SkipsEmptyImagesAndHTMLRunner(t *testing.T) {
	writer := newMockWriter()
	p := NewComicPublisher(writer, nil)

	images := []*imagedom.ImageResponse{nil, {Data: pngBytes(t), MimeType: "image/png"}, {}}

	result, err := p.Publish(context.Background(), sampleComic(), images, Options{OutputDir: "out"})
	require.NoError(t, err)

	// nil と空データはスキップされること
	assert.Len(t, result.ImagePaths, 1)
	// runner が nil の場合は HTML を生成しないこと
	assert.Empty(t, result.HTMLPath)

	// 足りないパネルはプレースホルダーで参照されること
	md := string(writer.files[result.MarkdownPath])
	assert.Contains(t, md, placeholderImage)
}

func TestPublish_MissingMiddleImageKeepsAlignment(t *testing.T) {
	writer := newMockWriter()
	p := NewComicPublisher(writer, nil)

	comic := &domain.Comic{
		Title: "欠番テスト",
		Panels: []domain.Panel{
			{Char1Dialogue: "いち"},
			{Char1Dialogue: "に"},
			{Char1Dialogue: "さん"},
		},
	}
	comic.Normalize()

	data := pngBytes(t)
	images := []*imagedom.ImageResponse{
		{Data: data, MimeType: "image/png"},
		nil,
		{Data: data, MimeType: "image/png"},
	}

	result, err := p.Publish(context.Background(), comic, images, Options{OutputDir: "out"})
	require.NoError(t, err)

	// 書き出されるのは元の位置に対応した名前の2枚だけであること
	require.Len(t, result.ImagePaths, 2)
	assert.Contains(t, result.ImagePaths[0], "panel_1.png")
	assert.Contains(t, result.ImagePaths[1], "panel_3.png")

	// 欠番のパネル2が後続の画像を横取りしないこと
	md := string(writer.files[result.MarkdownPath])
	sections := strings.Split(md, "## Panel ")
	require.Len(t, sections, 4)
	assert.Contains(t, sections[1], "images/panel_1.png")
	assert.Contains(t, sections[2], placeholderImage)
	assert.NotContains(t, sections[2], "panel_3.png")
	assert.Contains(t, sections[3], "images/panel_3.png")
}

func TestPublish_WriterError(t *testing.T) {
	writer := newMockWriter()
	writer.err = errors.New("disk full")
	p := NewComicPublisher(writer, nil)

	_, err := p.Publish(context.Background(), sampleComic(),
		[]*imagedom.ImageResponse{{Data: pngBytes(t), MimeType: "image/png"}}, Options{OutputDir: "out"})
	assert.Error(t, err)
}

func TestPublish_HTMLRunnerError(t *testing.T) {
	writer := newMockWriter()
	p := NewComicPublisher(writer, &mockHTMLRunner{err: errors.New("render failed")})

	_, err := p.Publish(context.Background(), sampleComic(),
		[]*imagedom.ImageResponse{{Data: pngBytes(t), MimeType: "image/png"}}, Options{OutputDir: "out"})
	assert.Error(t, err)
}
