package geometry

import "github.com/Faustp1633/Delay-comix/pkg/domain"

// TailKind はしっぽの描画種別です。
type TailKind int

const (
	// TailPointer は標準的な三角形のしっぽです。
	TailPointer TailKind = iota
	// TailDots は思考形で使う、徐々に小さくなる2つのドットです。
	TailDots
)

// Tail は吹き出しに付くしっぽと継ぎ目マスクの幾何です。
//
// 座標は辺ローカルの (u, v) で表します。u は基準となる側辺（NearRight が
// false なら左辺、true なら右辺）から吹き出し中心方向への距離、v は接続辺
// （AtBottom が true なら下辺、false なら上辺）から外側への距離です。
// 右基準では u が鏡映されるため、左右対称性が構成的に保証されます。
type Tail struct {
	Kind      TailKind
	NearRight bool
	AtBottom  bool

	// Pointer は TailPointer のときの三角形ポリゴンです。
	Pointer []Point
	// Cover はしっぽと枠線の継ぎ目を隠す背景色の矩形です。
	Cover Rect
	// Dots は TailDots のときの円列です。近い方が先頭で、半径も大きくなります。
	Dots []Circle
}

// ResolveTail は形状・アンカー・スケールからしっぽの幾何を解決します。
// テキスト計測は一切行いません。
func ResolveTail(shape domain.BubbleShape, anchor domain.BubbleAnchor, scale float64) Tail {
	t := Tail{
		NearRight: !anchor.Left(),
		AtBottom:  anchor.Top(), // 上アンカー＝話者が下に居るため、しっぽは下辺から出る
	}

	size := TailSize * scale
	inset := tailInset * scale
	border := BorderWidth * scale

	if shape == domain.ShapeThought {
		// 思考形は尖ったしっぽを描かず、外側へ離れながら小さくなるドット列を使う
		t.Kind = TailDots
		center := inset + size*dotCenterFactor
		t.Dots = []Circle{
			{Center: Point{X: center, Y: size * dotNearOffsetFactor}, Radius: size * dotNearRadiusFactor},
			{Center: Point{X: center - size*dotDriftFactor, Y: size * dotFarOffsetFactor}, Radius: size * dotFarRadiusFactor},
		}
		return t
	}

	t.Kind = TailPointer
	base := size * tailBaseFactor
	t.Pointer = []Point{
		{X: inset, Y: 0},
		{X: inset + base, Y: 0},
		{X: inset + size*tailLeanFactor, Y: size * tailLengthFactor},
	}
	// マスクは枠線を完全に覆いつつ、しっぽの基部より狭く収める
	t.Cover = Rect{
		X: inset + border,
		Y: -border,
		W: base - 2*border,
		H: 2 * border,
	}
	return t
}

// abs は辺ローカル座標 (u, v) を吹き出しボックス基準の絶対座標へ変換します。
func (t Tail) abs(box Rect, p Point) Point {
	x := box.X + p.X
	if t.NearRight {
		x = box.X + box.W - p.X
	}
	y := box.Y - p.Y
	if t.AtBottom {
		y = box.Y + box.H + p.Y
	}
	return Point{X: x, Y: y}
}

// PointerAbs は三角形しっぽの絶対座標ポリゴンを返します。
func (t Tail) PointerAbs(box Rect) []Point {
	pts := make([]Point, len(t.Pointer))
	for i, p := range t.Pointer {
		pts[i] = t.abs(box, p)
	}
	return pts
}

// CoverAbs は継ぎ目マスク矩形の絶対座標を返します。
func (t Tail) CoverAbs(box Rect) Rect {
	p1 := t.abs(box, Point{X: t.Cover.X, Y: t.Cover.Y})
	p2 := t.abs(box, Point{X: t.Cover.X + t.Cover.W, Y: t.Cover.Y + t.Cover.H})
	return normalizedRect(p1, p2)
}

// DotsAbs はドットしっぽの絶対座標の円列を返します。
func (t Tail) DotsAbs(box Rect) []Circle {
	dots := make([]Circle, len(t.Dots))
	for i, d := range t.Dots {
		dots[i] = Circle{Center: t.abs(box, d.Center), Radius: d.Radius}
	}
	return dots
}

// normalizedRect は2つの対角点から正の幅・高さを持つ矩形を作ります。
func normalizedRect(a, b Point) Rect {
	x, y := a.X, a.Y
	if b.X < x {
		x = b.X
	}
	if b.Y < y {
		y = b.Y
	}
	w := a.X - b.X
	if w < 0 {
		w = -w
	}
	h := a.Y - b.Y
	if h < 0 {
		h = -h
	}
	return Rect{X: x, Y: y, W: w, H: h}
}
