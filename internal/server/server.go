// Package server は吹き出し配置をブラウザ上で調整するための
// プレビューサーバなのだ。オーバーレイ表示とラスタ合成は同じ幾何・
// レイアウト計算を共有しているため、画面上の見た目がそのまま
// 書き出し結果になるのだ。
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Faustp1633/Delay-comix/internal/runner"
	"github.com/Faustp1633/Delay-comix/pkg/domain"
	"github.com/Faustp1633/Delay-comix/pkg/overlay"
)

//go:embed index.html.tmpl
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

// Server は編集中のコミック状態を所有し、HTTP 経由の閲覧と更新を仲介するのだ。
type Server struct {
	mu       sync.RWMutex
	comic    *domain.Comic
	renderer *overlay.Renderer
	exporter runner.ExportRunner
	addr     string
	tmpl     *template.Template
}

// New はプレビューサーバを構築するのだ。exporter はラスタ確認用で nil を許容するのだ。
func New(comic *domain.Comic, exporter runner.ExportRunner, addr string) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("テンプレートの読み込みに失敗したのだ: %w", err)
	}

	s := &Server{
		comic:    comic,
		exporter: exporter,
		addr:     addr,
		tmpl:     tmpl,
	}
	// 状態の変更は必ずこのコールバック経由で行われるのだ
	s.renderer = overlay.NewRenderer(s.applyPatch)
	return s, nil
}

// applyPatch は domain.UpdateFunc として登録され、パネル状態を更新するのだ。
func (s *Server) applyPatch(panelID string, patch domain.PlacementPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	panel := s.comic.FindPanel(panelID)
	if panel == nil {
		slog.Warn("存在しないパネルへの更新を無視するのだ", "panel", panelID)
		return
	}
	panel.Apply(patch)
}

// Handler はルーティング済みの http.Handler を返すのだ。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/comic", s.handleComic)
	mux.HandleFunc("POST /api/panels/{id}", s.handleUpdate)
	mux.HandleFunc("GET /api/panels/{id}/image.png", s.handleRaster)
	return mux
}

// ListenAndServe は ctx がキャンセルされるまでサーバを走らせるのだ。
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// panelView はテンプレートへ渡す1パネル分の表示データなのだ。
// X/Y は既定値解決済みのパーセント座標で、スライダーの初期位置に使うのだ。
type panelView struct {
	ID          string
	Number      int
	Setting     string
	ImageURL    string
	Char1Text   string
	Char1X      float64
	Char1Y      float64
	Char2Text   string
	Char2X      float64
	Char2Y      float64
	OverlayHTML template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	view := struct {
		Title  string
		Panels []panelView
	}{Title: s.comic.Title}

	for _, panel := range s.comic.Panels {
		elems := s.renderer.RenderPanel(panel, overlay.Options{})
		placements := panel.Placements()
		view.Panels = append(view.Panels, panelView{
			ID:          panel.ID,
			Number:      panel.Index + 1,
			Setting:     panel.Setting,
			ImageURL:    panel.ImageURL,
			Char1Text:   panel.Char1Dialogue,
			Char1X:      placements[0].XPct,
			Char1Y:      placements[0].YPct,
			Char2Text:   panel.Char2Dialogue,
			Char2X:      placements[1].XPct,
			Char2Y:      placements[1].YPct,
			OverlayHTML: template.HTML(overlay.HTML(elems)),
		})
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, view); err != nil {
		slog.Error("テンプレートの描画に失敗したのだ", "error", err)
	}
}

func (s *Server) handleComic(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(s.comic); err != nil {
		slog.Error("状態のエンコードに失敗したのだ", "error", err)
	}
}

// patchRequest は配置更新 API のリクエストボディなのだ。nil のフィールドは変更しないのだ。
type patchRequest struct {
	Speaker int      `json:"speaker"`
	Text    *string  `json:"text,omitempty"`
	Shape   *string  `json:"shape,omitempty"`
	Anchor  *string  `json:"anchor,omitempty"`
	XPct    *float64 `json:"x,omitempty"`
	YPct    *float64 `json:"y,omitempty"`
	Quick   *string  `json:"quick,omitempty"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	panelID := r.PathValue("id")

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストボディの解析に失敗したのだ")
		return
	}
	if req.Speaker < 0 || req.Speaker > 1 {
		writeError(w, http.StatusBadRequest, "speaker は 0 か 1 なのだ")
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.RLock()
	exists := s.comic.FindPanel(panelID) != nil
	s.mu.RUnlock()
	if !exists {
		writeError(w, http.StatusNotFound, "パネルが見つからないのだ")
		return
	}

	// 更新はオーバーレイレンダラーの Update 経路を通すのだ
	s.renderer.Update(panelID, patch)

	// 更新後のオーバーレイを返し、クライアント側で差し替えられるようにするのだ
	s.mu.RLock()
	panel := s.comic.FindPanel(panelID)
	elems := s.renderer.RenderPanel(*panel, overlay.Options{Animate: true})
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"html": overlay.HTML(elems),
	})
}

func (s *Server) handleRaster(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "ラスタ合成器が設定されていないのだ")
		return
	}

	panelID := r.PathValue("id")
	s.mu.RLock()
	found := s.comic.FindPanel(panelID)
	var panel domain.Panel
	if found != nil {
		panel = *found
	}
	s.mu.RUnlock()

	if found == nil {
		writeError(w, http.StatusNotFound, "パネルが見つからないのだ")
		return
	}
	if panel.ImageURL == "" {
		writeError(w, http.StatusUnprocessableEntity, "パネルに画像参照がないのだ")
		return
	}

	resp, err := s.exporter.RenderPanel(r.Context(), panel)
	if err != nil {
		slog.Error("パネルのラスタ合成に失敗したのだ", "panel", panelID, "error", err)
		writeError(w, http.StatusBadGateway, "パネルの合成に失敗したのだ")
		return
	}

	w.Header().Set("Content-Type", resp.MimeType)
	_, _ = w.Write(resp.Data)
}

// toPatch は文字列ベースのリクエストをドメインのパッチへ変換するのだ。
func (r patchRequest) toPatch() (domain.PlacementPatch, error) {
	patch := domain.PlacementPatch{
		Speaker: r.Speaker,
		Text:    r.Text,
		XPct:    r.XPct,
		YPct:    r.YPct,
	}

	if r.Shape != nil {
		shape := domain.BubbleShape(*r.Shape)
		switch shape {
		case domain.ShapeRounded, domain.ShapeSquare, domain.ShapeThought:
			patch.Shape = &shape
		default:
			return patch, fmt.Errorf("未知の形状なのだ: %s", *r.Shape)
		}
	}
	if r.Anchor != nil {
		anchor, err := parseAnchor(*r.Anchor)
		if err != nil {
			return patch, err
		}
		patch.Anchor = &anchor
	}
	if r.Quick != nil {
		anchor, err := parseAnchor(*r.Quick)
		if err != nil {
			return patch, err
		}
		patch.Quick = &anchor
	}
	return patch, nil
}

func parseAnchor(raw string) (domain.BubbleAnchor, error) {
	anchor := domain.BubbleAnchor(raw)
	switch anchor {
	case domain.AnchorTopLeft, domain.AnchorTopRight, domain.AnchorBottomLeft, domain.AnchorBottomRight:
		return anchor, nil
	}
	return "", fmt.Errorf("未知のアンカーなのだ: %s", raw)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
