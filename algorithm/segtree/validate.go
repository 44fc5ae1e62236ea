package segtree

import (
	"github.com/wyfcoding/lazyseg/xerrors"
)

// Stats 汇总树的规模与操作计数。
type Stats struct {
	Kind    Kind
	Leaves  int
	Nodes   int   // 实际使用的节点数（2n-1）
	Height  int   // ⌈log2 n⌉
	Updates int64 // 非空区间更新次数
	Queries int64 // 非空区间查询次数
	Locates int64 // 下降查找次数
	Visited int64 // 下降查找累计访问的节点数
}

// Stats 返回当前统计信息。
func (t *Tree) Stats() Stats {
	return Stats{
		Kind:    t.policy.Kind(),
		Leaves:  t.n,
		Nodes:   2*t.n - 1,
		Height:  t.Height(),
		Updates: t.stats.updates,
		Queries: t.stats.queries,
		Locates: t.stats.locates,
		Visited: t.stats.visited,
	}
}

// Validate 自底向上检查每个节点的聚合是否与子节点及自身懒标记一致。
// 它不修改任何节点，可在任意操作序列之后调用。
func (t *Tree) Validate() error {
	return t.validate(1, 0, t.n-1)
}

func (t *Tree) validate(i, lo, hi int) error {
	if lo != hi {
		mid := lo + (hi-lo)/2
		if err := t.validate(2*i, lo, mid); err != nil {
			return err
		}
		if err := t.validate(2*i+1, mid+1, hi); err != nil {
			return err
		}
	}
	if err := t.policy.check(t.nodes, i, lo == hi); err != nil {
		return xerrors.ErrInvariant.WithCause(err).
			WithContext("node", i).
			WithContext("range", [2]int{lo, hi}).
			WithContext("policy", t.policy.String())
	}
	return nil
}
