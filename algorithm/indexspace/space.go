// Package indexspace 把稀疏、取值很大的坐标集合压缩为线段树使用的稠密叶子下标 0..n-1。
package indexspace

import (
	"slices"
)

// Space 是排序去重后的坐标表。
// 作为点集使用时叶子 i 对应坐标 coords[i]；
// 作为区段使用时叶子 i 对应半开区间 [coords[i], coords[i+1])，共 Len()-1 个叶子。
type Space struct {
	coords []int64
}

// New 对坐标排序去重并返回坐标表，输入切片不会被修改。
func New(coords []int64) *Space {
	c := slices.Clone(coords)
	slices.Sort(c)
	return &Space{coords: slices.Compact(c)}
}

// Len 返回不同坐标的个数。
func (s *Space) Len() int {
	return len(s.coords)
}

// Coord 返回下标 i 处的坐标。
func (s *Space) Coord(i int) int64 {
	return s.coords[i]
}

// Coords 返回坐标表的副本。
func (s *Space) Coords() []int64 {
	return slices.Clone(s.coords)
}

// Index 返回坐标 x 的下标；x 不在表中时返回 (-1, false)。
func (s *Space) Index(x int64) (int, bool) {
	i, ok := slices.BinarySearch(s.coords, x)
	if !ok {
		return -1, false
	}
	return i, true
}

// Lower 返回第一个坐标不小于 x 的下标，所有坐标都小于 x 时返回 Len()。
func (s *Space) Lower(x int64) int {
	i, _ := slices.BinarySearch(s.coords, x)
	return i
}

// Gaps 返回相邻坐标之间的宽度，可直接作为覆盖型线段树的叶子长度。
// 坐标少于两个时返回 nil。
func (s *Space) Gaps() []int64 {
	if len(s.coords) < 2 {
		return nil
	}
	gaps := make([]int64, len(s.coords)-1)
	for i := range gaps {
		gaps[i] = s.coords[i+1] - s.coords[i]
	}
	return gaps
}

// Span 返回半开区间 [x1, x2) 所覆盖的区段叶子范围 [l, r]。
// 区间为空或落在坐标表之外时 ok 为 false。
func (s *Space) Span(x1, x2 int64) (l, r int, ok bool) {
	if x1 >= x2 {
		return 0, -1, false
	}
	l = s.Lower(x1)
	r = s.Lower(x2) - 1
	if r > len(s.coords)-2 {
		r = len(s.coords) - 2
	}
	if l > r {
		return 0, -1, false
	}
	return l, r, true
}
