// Package sweep 基于覆盖型线段树实现扫描线面积计算。
// x 坐标经 indexspace 压缩为区段叶子，按 y 递增处理矩形的进入/离开事件，
// 相邻事件之间的面积等于当前被覆盖宽度乘以 y 方向高度差。
package sweep

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/lazyseg/algorithm/indexspace"
	"github.com/wyfcoding/lazyseg/algorithm/segtree"
)

// Rect 是左下角 (X1, Y1)、右上角 (X2, Y2) 的轴对齐矩形。
type Rect struct {
	X1, Y1, X2, Y2 int64
}

// Square 是左下角 (X, Y)、边长 Side 的正方形。
type Square struct {
	X, Y, Side int64
}

// Rect 返回正方形对应的矩形。
func (s Square) Rect() Rect {
	return Rect{X1: s.X, Y1: s.Y, X2: s.X + s.Side, Y2: s.Y + s.Side}
}

type event struct {
	y     int64
	delta int64
	l, r  int
}

// Strip 是扫描过程中一段被覆盖宽度不变的水平条带。
type Strip struct {
	Y1, Y2 int64
	Width  int64 // 条带内被覆盖的 x 总宽度
}

// Area 返回条带面积。
func (s Strip) Area() decimal.Decimal {
	return decimal.NewFromInt(s.Width).Mul(decimal.NewFromInt(s.Y2 - s.Y1))
}

// Strips 按 y 递增返回所有被覆盖宽度为正的条带。
// 退化矩形（宽或高不为正）会被忽略。
func Strips(rects []Rect) ([]Strip, error) {
	xs := make([]int64, 0, 2*len(rects))
	for _, r := range rects {
		if r.X1 < r.X2 && r.Y1 < r.Y2 {
			xs = append(xs, r.X1, r.X2)
		}
	}
	space := indexspace.New(xs)
	if space.Len() < 2 {
		return nil, nil
	}

	events := make([]event, 0, len(xs))
	for _, r := range rects {
		if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			continue
		}
		l, rr, ok := space.Span(r.X1, r.X2)
		if !ok {
			continue
		}
		events = append(events,
			event{y: r.Y1, delta: 1, l: l, r: rr},
			event{y: r.Y2, delta: -1, l: l, r: rr},
		)
	}
	slices.SortFunc(events, func(a, b event) int { return cmp.Compare(a.y, b.y) })

	tree, err := segtree.NewCoverage(space.Gaps())
	if err != nil {
		return nil, err
	}

	var strips []Strip
	for i := 0; i < len(events); {
		y := events[i].y
		for ; i < len(events) && events[i].y == y; i++ {
			tree.RangeUpdate(events[i].l, events[i].r, events[i].delta)
		}
		if i == len(events) {
			break
		}
		if width := tree.All().Covered; width > 0 {
			strips = append(strips, Strip{Y1: y, Y2: events[i].y, Width: width})
		}
	}
	return strips, nil
}

// UnionArea 返回所有矩形并集的面积。
func UnionArea(rects []Rect) (decimal.Decimal, error) {
	strips, err := Strips(rects)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, s := range strips {
		total = total.Add(s.Area())
	}
	return total, nil
}

// SeparateSquares 返回最小的水平线 y，使线下方与上方被正方形覆盖的面积相等（重叠部分只计一次）。
// 没有正方形或覆盖面积为 0 时返回 0。
func SeparateSquares(squares []Square) (decimal.Decimal, error) {
	rects := make([]Rect, len(squares))
	for i, s := range squares {
		rects[i] = s.Rect()
	}
	strips, err := Strips(rects)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, s := range strips {
		total = total.Add(s.Area())
	}
	if total.IsZero() {
		return decimal.Zero, nil
	}

	half := total.Div(decimal.NewFromInt(2))
	below := decimal.Zero
	for _, s := range strips {
		area := s.Area()
		if below.Add(area).GreaterThanOrEqual(half) {
			need := half.Sub(below)
			return decimal.NewFromInt(s.Y1).Add(need.Div(decimal.NewFromInt(s.Width))), nil
		}
		below = below.Add(area)
	}
	last := strips[len(strips)-1]
	return decimal.NewFromInt(last.Y2), nil
}
