package segtree

import "github.com/wyfcoding/lazyseg/xerrors"

// RangeUpdate 对 [l, r] 内所有叶子统一施加 delta。
// 加法型：叶子值加 delta；覆盖型：区间覆盖计数加 delta（通常为 +1 或 -1）。
// 越界部分会被截断，截断后为空区间时不做任何修改。
func (t *Tree) RangeUpdate(l, r int, delta int64) {
	l, r = t.clip(l, r)
	if l > r {
		return
	}
	t.stats.updates++
	t.update(1, 0, t.n-1, l, r, delta)
}

// update 是 RangeUpdate 的递归辅助函数。
// 完全覆盖时直接作用到当前节点并返回，部分重叠时先下推、再递归、最后上推。
func (t *Tree) update(i, lo, hi, l, r int, delta int64) {
	if r < lo || hi < l {
		return
	}
	if l <= lo && hi <= r {
		t.policy.apply(t.nodes, i, delta, lo == hi)
		return
	}
	t.pushDown(i, lo, hi)
	mid := lo + (hi-lo)/2
	t.update(2*i, lo, mid, l, r, delta)
	t.update(2*i+1, mid+1, hi, l, r, delta)
	t.pullUp(i)
}

// Add 对单个叶子施加 delta。
func (t *Tree) Add(idx int, delta int64) {
	t.RangeUpdate(idx, idx, delta)
}

// Get 返回单个叶子的当前值：加法型为叶子值，覆盖型为该叶子被覆盖的长度。
func (t *Tree) Get(idx int) int64 {
	a := t.Query(idx, idx)
	if t.policy.Kind() == KindCoverage {
		return a.Covered
	}
	return a.Min
}

// Set 把加法型树中单个叶子设置为 val。
// 覆盖型树的叶子没有可直接赋值的数值，返回 ErrPolicyMismatch。
func (t *Tree) Set(idx int, val int64) error {
	if t.policy.Kind() != KindAdditive {
		return xerrors.ErrPolicyMismatch.With("policy", t.policy.String())
	}
	if idx < 0 || idx >= t.n {
		return xerrors.ErrInvalidInput.With("index", idx)
	}
	t.RangeUpdate(idx, idx, val-t.Get(idx))
	return nil
}
