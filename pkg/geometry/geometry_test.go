package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faustp1633/Delay-comix/pkg/domain"
)

func TestScaleContext_Factor(t *testing.T) {
	sc := NewScaleContext(1024)
	assert.InDelta(t, 3.2, sc.Factor(), 1e-9)

	// 基準幅0のゼロ値はスケール1として扱う
	assert.Equal(t, 1.0, ScaleContext{}.Factor())
}

func TestRadius_PerShape(t *testing.T) {
	assert.Equal(t, 2.0, Radius(domain.ShapeSquare, 1))
	assert.Equal(t, 32.0, Radius(domain.ShapeThought, 1))
	assert.Equal(t, 12.0, Radius(domain.ShapeRounded, 1))
	// 未知の形状は rounded と同じ扱い
	assert.Equal(t, 12.0, Radius(domain.BubbleShape("unknown"), 1))
	// スケールは半径へ正確に乗る
	assert.Equal(t, 12.0*3.2, Radius(domain.ShapeRounded, 3.2))
}

func TestDashed(t *testing.T) {
	assert.True(t, Dashed(domain.ShapeThought))
	assert.False(t, Dashed(domain.ShapeRounded))
	assert.False(t, Dashed(domain.ShapeSquare))
}

// 左右アンカーのしっぽ基部は、吹き出しの水平中心を挟んで鏡映になること。
func TestResolveTail_MirrorSymmetry(t *testing.T) {
	box := Rect{X: 100, Y: 50, W: 200, H: 80}
	center := box.X + box.W/2

	left := ResolveTail(domain.ShapeRounded, domain.AnchorTopLeft, 1)
	right := ResolveTail(domain.ShapeRounded, domain.AnchorTopRight, 1)

	lp := left.PointerAbs(box)
	rp := right.PointerAbs(box)
	require.Len(t, lp, 3)
	require.Len(t, rp, 3)

	for i := range lp {
		mirrored := 2*center - lp[i].X
		assert.InDeltaf(t, mirrored, rp[i].X, 1e-9, "頂点 %d のXが鏡映になっていません", i)
		assert.InDeltaf(t, lp[i].Y, rp[i].Y, 1e-9, "頂点 %d のYが一致していません", i)
	}

	// 継ぎ目マスクも同様に鏡映になる
	lc := left.CoverAbs(box)
	rc := right.CoverAbs(box)
	assert.InDelta(t, 2*center-(lc.X+lc.W), rc.X, 1e-9)
	assert.InDelta(t, lc.W, rc.W, 1e-9)
}

func TestResolveTail_VerticalOrientation(t *testing.T) {
	box := Rect{X: 0, Y: 0, W: 100, H: 40}

	t.Run("上アンカーは下辺から下向きに出ること", func(t *testing.T) {
		tail := ResolveTail(domain.ShapeRounded, domain.AnchorTopLeft, 1)
		pts := tail.PointerAbs(box)
		assert.Equal(t, box.Y+box.H, pts[0].Y)
		assert.Equal(t, box.Y+box.H, pts[1].Y)
		assert.Greater(t, pts[2].Y, box.Y+box.H, "先端が下側を向いていません")
	})

	t.Run("下アンカーは上辺から上向きに出ること", func(t *testing.T) {
		tail := ResolveTail(domain.ShapeRounded, domain.AnchorBottomLeft, 1)
		pts := tail.PointerAbs(box)
		assert.Equal(t, box.Y, pts[0].Y)
		assert.Less(t, pts[2].Y, box.Y, "先端が上側を向いていません")
	})
}

// 思考形は三角形のしっぽを返さず、常にドット列を返すこと。
func TestResolveTail_ThoughtSuppressesPointer(t *testing.T) {
	for _, anchor := range []domain.BubbleAnchor{
		domain.AnchorTopLeft, domain.AnchorTopRight,
		domain.AnchorBottomLeft, domain.AnchorBottomRight,
	} {
		tail := ResolveTail(domain.ShapeThought, anchor, 1)
		assert.Equalf(t, TailDots, tail.Kind, "アンカー %s", anchor)
		assert.Emptyf(t, tail.Pointer, "アンカー %s で三角形ポリゴンが返されました", anchor)
		require.Lenf(t, tail.Dots, 2, "アンカー %s", anchor)

		// 近い方のドットが大きい
		assert.Greater(t, tail.Dots[0].Radius, tail.Dots[1].Radius)
		// 遠い方のドットほど外側に離れる
		assert.Greater(t, tail.Dots[1].Center.Y, tail.Dots[0].Center.Y)
	}
}

func TestResolveTail_ThoughtDotsDirection(t *testing.T) {
	box := Rect{X: 0, Y: 100, W: 100, H: 50}

	top := ResolveTail(domain.ShapeThought, domain.AnchorTopLeft, 1).DotsAbs(box)
	for _, d := range top {
		assert.Greater(t, d.Center.Y, box.Y+box.H, "上アンカーのドットは吹き出しの下に出るべきです")
	}

	bottom := ResolveTail(domain.ShapeThought, domain.AnchorBottomLeft, 1).DotsAbs(box)
	for _, d := range bottom {
		assert.Less(t, d.Center.Y, box.Y, "下アンカーのドットは吹き出しの上に出るべきです")
	}
}

// スケール k での解決結果は、スケール1の結果のちょうど k 倍になること。
func TestResolveTail_ScaleInvariance(t *testing.T) {
	const k = 3.2

	unit := ResolveTail(domain.ShapeRounded, domain.AnchorTopLeft, 1)
	scaled := ResolveTail(domain.ShapeRounded, domain.AnchorTopLeft, k)

	require.Len(t, scaled.Pointer, len(unit.Pointer))
	for i := range unit.Pointer {
		assert.InDelta(t, unit.Pointer[i].X*k, scaled.Pointer[i].X, 1e-9)
		assert.InDelta(t, unit.Pointer[i].Y*k, scaled.Pointer[i].Y, 1e-9)
	}

	unitDots := ResolveTail(domain.ShapeThought, domain.AnchorTopLeft, 1).Dots
	scaledDots := ResolveTail(domain.ShapeThought, domain.AnchorTopLeft, k).Dots
	for i := range unitDots {
		assert.InDelta(t, unitDots[i].Radius*k, scaledDots[i].Radius, 1e-9)
		assert.InDelta(t, unitDots[i].Center.Y*k, scaledDots[i].Center.Y, 1e-9)
	}
}

// 継ぎ目マスクは枠線を覆い切り、かつしっぽの基部幅を越えないこと。
func TestResolveTail_CoverBounds(t *testing.T) {
	tail := ResolveTail(domain.ShapeRounded, domain.AnchorTopLeft, 2)

	base := tail.Pointer[1].X - tail.Pointer[0].X
	assert.Less(t, tail.Cover.W, base)
	assert.Greater(t, tail.Cover.W, 0.0)

	// 接続辺（v=0）を跨いで両側に BorderWidth 分ずつ広がる
	assert.InDelta(t, -BorderWidth*2, tail.Cover.Y, 1e-9)
	assert.InDelta(t, 2*BorderWidth*2, tail.Cover.H, 1e-9)
	assert.True(t, tail.Cover.X > tail.Pointer[0].X && tail.Cover.X+tail.Cover.W < tail.Pointer[1].X)
}

func TestNormalizedRect(t *testing.T) {
	r := normalizedRect(Point{X: 10, Y: 20}, Point{X: 4, Y: 2})
	assert.Equal(t, Rect{X: 4, Y: 2, W: 6, H: 18}, r)
	assert.False(t, math.Signbit(r.W))
}
