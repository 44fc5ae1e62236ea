// Package segtree 实现带懒标记的线段树引擎。
// 节点按扁平数组存放，根节点下标为 1，节点 i 的左右子节点为 2i 与 2i+1。
// 每棵树在构建时固定一种聚合策略（加法型 min/max/sum 或覆盖计数型），
// 支持区间增量更新、区间聚合查询以及基于聚合边界剪枝的下降查找。
// 单棵树只能由一个调用方顺序使用；相互独立的多棵树可以并行处理。
package segtree

import "math"

// Node 表示一个连续叶子区间 [lo, hi] 的聚合状态。
type Node struct {
	Min     int64 // 区间最小叶子值（加法型）
	Max     int64 // 区间最大叶子值（加法型）
	Sum     int64 // 区间叶子值之和（加法型）
	Covered int64 // 计数大于 0 的子区间总长度（覆盖型）
	Active  int64 // 完整覆盖本区间的 +1/-1 净次数（覆盖型）
	Pending int64 // 尚未下推给子节点的统一增量（加法型）
	Length  int64 // 区间长度：加法型为叶子数，覆盖型为叶子长度之和
}

// Aggregate 是区间查询的结果，也是下降查找时交给谓词判断的节点边界。
type Aggregate struct {
	Min     int64
	Max     int64
	Sum     int64
	Covered int64
	Length  int64
}

// Empty 报告聚合是否为单位元（即没有覆盖任何叶子）。
func (a Aggregate) Empty() bool {
	return a.Length == 0
}

// Uncovered 返回区间内未被覆盖的长度。
func (a Aggregate) Uncovered() int64 {
	return a.Length - a.Covered
}

func additiveNeutral() Aggregate {
	return Aggregate{Min: math.MaxInt64, Max: math.MinInt64}
}
