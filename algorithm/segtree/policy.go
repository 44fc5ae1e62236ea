package segtree

import (
	"fmt"

	"github.com/wyfcoding/lazyseg/xerrors"
)

// Kind 标识聚合策略。
type Kind int

const (
	KindAdditive Kind = iota // 区间加法，维护 min/max/sum
	KindCoverage             // 区间覆盖计数，维护被覆盖长度
)

// String 返回策略名称。
func (k Kind) String() string {
	switch k {
	case KindAdditive:
		return "additive"
	case KindCoverage:
		return "coverage"
	default:
		return "unknown"
	}
}

// Policy 决定节点如何初始化、如何接收增量以及如何合并子节点。
// 策略在构建时选定且不可替换；两种策略的下推语义互不兼容，不能混用在同一棵树上。
type Policy interface {
	Kind() Kind
	String() string

	initLeaf(n *Node, v int64) error
	// apply 把 delta 作用到节点 i 自身的聚合上。
	apply(nodes []Node, i int, delta int64, leaf bool)
	pushDown(nodes []Node, i int, leftLeaf, rightLeaf bool)
	pullUp(nodes []Node, i int)
	// view 返回节点在祖先累计量 carry 下的有效聚合。
	view(n *Node, carry int64) Aggregate
	// carry 返回传给子节点的祖先累计量。
	carry(n *Node, carry int64) int64
	neutral() Aggregate
	merge(a, b Aggregate) Aggregate
	check(nodes []Node, i int, leaf bool) error
}

var (
	// Additive 是区间加法策略：叶子值统一加 delta，节点维护 min/max/sum。
	Additive Policy = additive{}
	// Coverage 是覆盖计数策略：区间计数 +1/-1，节点维护计数大于 0 的长度。
	Coverage Policy = coverage{}
)

type additive struct{}

func (additive) Kind() Kind     { return KindAdditive }
func (additive) String() string { return KindAdditive.String() }

func (additive) initLeaf(n *Node, v int64) error {
	*n = Node{Min: v, Max: v, Sum: v, Length: 1}
	return nil
}

func (additive) apply(nodes []Node, i int, delta int64, leaf bool) {
	n := &nodes[i]
	n.Min += delta
	n.Max += delta
	n.Sum += delta * n.Length
	if !leaf {
		n.Pending += delta
	}
}

func (p additive) pushDown(nodes []Node, i int, leftLeaf, rightLeaf bool) {
	d := nodes[i].Pending
	if d == 0 {
		return
	}
	p.apply(nodes, 2*i, d, leftLeaf)
	p.apply(nodes, 2*i+1, d, rightLeaf)
	nodes[i].Pending = 0
}

func (additive) pullUp(nodes []Node, i int) {
	l, r := &nodes[2*i], &nodes[2*i+1]
	n := &nodes[i]
	n.Min = min(l.Min, r.Min) + n.Pending
	n.Max = max(l.Max, r.Max) + n.Pending
	n.Sum = l.Sum + r.Sum + n.Pending*n.Length
}

func (additive) view(n *Node, _ int64) Aggregate {
	return Aggregate{Min: n.Min, Max: n.Max, Sum: n.Sum, Length: n.Length}
}

func (additive) carry(_ *Node, _ int64) int64 { return 0 }

func (additive) neutral() Aggregate { return additiveNeutral() }

func (additive) merge(a, b Aggregate) Aggregate {
	return Aggregate{
		Min:    min(a.Min, b.Min),
		Max:    max(a.Max, b.Max),
		Sum:    a.Sum + b.Sum,
		Length: a.Length + b.Length,
	}
}

func (additive) check(nodes []Node, i int, leaf bool) error {
	n := nodes[i]
	if leaf {
		if n.Min != n.Max || n.Min != n.Sum || n.Pending != 0 || n.Length != 1 {
			return fmt.Errorf("leaf node %d: %+v", i, n)
		}
		return nil
	}
	l, r := nodes[2*i], nodes[2*i+1]
	switch {
	case n.Length != l.Length+r.Length:
		return fmt.Errorf("node %d length %d != %d+%d", i, n.Length, l.Length, r.Length)
	case n.Min != min(l.Min, r.Min)+n.Pending:
		return fmt.Errorf("node %d min %d disagrees with children", i, n.Min)
	case n.Max != max(l.Max, r.Max)+n.Pending:
		return fmt.Errorf("node %d max %d disagrees with children", i, n.Max)
	case n.Sum != l.Sum+r.Sum+n.Pending*n.Length:
		return fmt.Errorf("node %d sum %d disagrees with children", i, n.Sum)
	}
	return nil
}

// coverage 的 Active 计数从不下推：被某个 +1 完整覆盖的节点自身记录计数，
// 查询与下降时沿路径累加祖先计数来判断子区间是否已被整体覆盖。
// 调用方需保证每个 -1 都对应先前同一区间上的 +1（扫描线的成对事件）。
type coverage struct{}

func (coverage) Kind() Kind     { return KindCoverage }
func (coverage) String() string { return KindCoverage.String() }

func (coverage) initLeaf(n *Node, v int64) error {
	if v <= 0 {
		return xerrors.ErrInvalidLength.With("length", v)
	}
	*n = Node{Length: v}
	return nil
}

func (p coverage) apply(nodes []Node, i int, delta int64, leaf bool) {
	nodes[i].Active += delta
	p.recompute(nodes, i, leaf)
}

func (coverage) recompute(nodes []Node, i int, leaf bool) {
	n := &nodes[i]
	switch {
	case n.Active > 0:
		n.Covered = n.Length
	case leaf:
		n.Covered = 0
	default:
		n.Covered = nodes[2*i].Covered + nodes[2*i+1].Covered
	}
}

func (coverage) pushDown(_ []Node, _ int, _, _ bool) {}

func (p coverage) pullUp(nodes []Node, i int) {
	p.recompute(nodes, i, false)
}

func (coverage) view(n *Node, carry int64) Aggregate {
	a := Aggregate{Covered: n.Covered, Length: n.Length}
	if carry > 0 {
		a.Covered = n.Length
	}
	return a
}

func (coverage) carry(n *Node, carry int64) int64 { return carry + n.Active }

func (coverage) neutral() Aggregate { return Aggregate{} }

func (coverage) merge(a, b Aggregate) Aggregate {
	return Aggregate{Covered: a.Covered + b.Covered, Length: a.Length + b.Length}
}

func (coverage) check(nodes []Node, i int, leaf bool) error {
	n := nodes[i]
	if n.Pending != 0 {
		return fmt.Errorf("coverage node %d carries pending delta %d", i, n.Pending)
	}
	want := int64(0)
	switch {
	case n.Active > 0:
		want = n.Length
	case !leaf:
		want = nodes[2*i].Covered + nodes[2*i+1].Covered
	}
	if n.Covered != want {
		return fmt.Errorf("node %d covered %d, want %d", i, n.Covered, want)
	}
	if !leaf && n.Length != nodes[2*i].Length+nodes[2*i+1].Length {
		return fmt.Errorf("node %d length %d disagrees with children", i, n.Length)
	}
	return nil
}
