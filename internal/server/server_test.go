package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faustp1633/Delay-comix/pkg/domain"

	imagedom "github.com/shouni/gemini-image-kit/ports"
)

// fakeExporter は runner.ExportRunner を実装するのだ。
type fakeExporter struct {
	lastPanel domain.Panel
}

func (f *fakeExporter) Run(ctx context.Context, comic *domain.Comic) ([]*imagedom.ImageResponse, error) {
	return nil, nil
}

func (f *fakeExporter) RenderPanel(ctx context.Context, panel domain.Panel) (*imagedom.ImageResponse, error) {
	f.lastPanel = panel
	return &imagedom.ImageResponse{Data: []byte("png-bytes"), MimeType: "image/png"}, nil
}

func newTestServer(t *testing.T) (*Server, *fakeExporter) {
	t.Helper()
	comic := &domain.Comic{
		Title: "テスト用コミック",
		Panels: []domain.Panel{
			{
				Setting:       "教室",
				ImageURL:      "https://example.com/p1.png",
				Char1Dialogue: "おはよう！",
			},
			{Char2Dialogue: "……ねむい"},
		},
	}
	comic.Normalize()

	exporter := &fakeExporter{}
	s, err := New(comic, exporter, ":0")
	require.NoError(t, err)
	return s, exporter
}

func TestHandleIndex(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "テスト用コミック")
	assert.Contains(t, body, "おはよう！")
	// 吹き出しのオーバーレイ要素が埋め込まれていること
	assert.Contains(t, body, "bubble bubble--rounded speaker-1")
	assert.Contains(t, body, `data-panel="panel_1"`)

	// 座標スライダーが既定値解決済みの位置で初期化されていること
	assert.Contains(t, body, `<input type="range" name="x" min="0" max="100" value="5">`)
	assert.Contains(t, body, `<input type="range" name="y" min="0" max="100" value="5">`)
	assert.Contains(t, body, `<input type="range" name="x" min="0" max="100" value="55">`)
}

func TestHandleUpdate(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Handler()

	post := func(t *testing.T, panelID string, payload string) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/panels/"+panelID, bytes.NewReader([]byte(payload)))
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("セリフと形状を更新できること", func(t *testing.T) {
		rec := post(t, "panel_1", `{"speaker":0,"text":"やあ","shape":"thought"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["html"], "bubble--thought")
		assert.Contains(t, resp["html"], "やあ")

		panel := s.comic.FindPanel("panel_1")
		assert.Equal(t, "やあ", panel.Char1Dialogue)
		assert.Equal(t, "thought", panel.Char1BubbleShape)
	})

	t.Run("クイック位置はアンカーと座標をまとめて更新すること", func(t *testing.T) {
		rec := post(t, "panel_1", `{"speaker":0,"quick":"bottom-right"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		panel := s.comic.FindPanel("panel_1")
		assert.Equal(t, "bottom-right", panel.Char1BubblePos)
		require.NotNil(t, panel.Char1BubbleX)
		assert.Equal(t, 55.0, *panel.Char1BubbleX)
		require.NotNil(t, panel.Char1BubbleY)
		assert.Equal(t, 70.0, *panel.Char1BubbleY)
	})

	t.Run("スライダーからの座標指定が反映されること", func(t *testing.T) {
		rec := post(t, "panel_2", `{"speaker":1,"x":40,"y":60}`)
		require.Equal(t, http.StatusOK, rec.Code)

		panel := s.comic.FindPanel("panel_2")
		require.NotNil(t, panel.Char2BubbleX)
		assert.Equal(t, 40.0, *panel.Char2BubbleX)
		require.NotNil(t, panel.Char2BubbleY)
		assert.Equal(t, 60.0, *panel.Char2BubbleY)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["html"], "left: 40%")
		assert.Contains(t, resp["html"], "top: 60%")
	})

	t.Run("未知の形状は400になること", func(t *testing.T) {
		rec := post(t, "panel_1", `{"speaker":0,"shape":"star"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("不正な話者番号は400になること", func(t *testing.T) {
		rec := post(t, "panel_1", `{"speaker":2,"text":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("存在しないパネルは404になること", func(t *testing.T) {
		rec := post(t, "no-such-panel", `{"speaker":0,"text":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleComic(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/comic", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var comic domain.Comic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comic))
	assert.Equal(t, "テスト用コミック", comic.Title)
	assert.Len(t, comic.Panels, 2)
}

func TestHandleRaster(t *testing.T) {
	s, exporter := newTestServer(t)
	handler := s.Handler()

	t.Run("合成結果をそのまま返すこと", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/panels/panel_1/image.png", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "png-bytes", rec.Body.String())
		assert.Equal(t, "panel_1", exporter.lastPanel.ID)
	})

	t.Run("画像参照のないパネルは422になること", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/panels/panel_2/image.png", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("存在しないパネルは404になること", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/panels/zzz/image.png", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
