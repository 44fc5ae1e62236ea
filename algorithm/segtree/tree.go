package segtree

import (
	"math/bits"

	"github.com/wyfcoding/lazyseg/xerrors"
)

// Tree 是带懒标记的线段树。
// 节点存放在扁平数组 nodes 中，根为 1，子节点为 2i 与 2i+1，不为单个节点分配堆内存。
// 更新、查询、下降查找的时间复杂度均为 O(log N)。
// Tree 不是并发安全的：查询同样会下推懒标记，调用方需保证对同一棵树的操作严格串行。
type Tree struct {
	nodes  []Node
	n      int
	policy Policy
	stats  counters
}

type counters struct {
	updates int64
	queries int64
	locates int64
	visited int64
}

// New 使用指定策略构建线段树。
// initial 对加法型是叶子初值，对覆盖型是各叶子的长度（必须为正，初始覆盖计数为 0）。
func New(policy Policy, initial []int64) (*Tree, error) {
	if policy == nil {
		return nil, xerrors.ErrNilPolicy
	}
	if len(initial) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	t := &Tree{
		nodes:  make([]Node, 4*len(initial)),
		n:      len(initial),
		policy: policy,
	}
	if err := t.build(1, 0, t.n-1, initial); err != nil {
		return nil, err
	}
	return t, nil
}

// NewAdditive 以给定叶子值构建加法型线段树。
func NewAdditive(values []int64) (*Tree, error) {
	return New(Additive, values)
}

// NewCoverage 以给定叶子长度构建覆盖型线段树。
func NewCoverage(lengths []int64) (*Tree, error) {
	return New(Coverage, lengths)
}

// NewZero 构建 n 个叶子全为 0 的加法型线段树。
func NewZero(n int) (*Tree, error) {
	if n < 1 {
		return nil, xerrors.ErrEmptyData
	}
	return New(Additive, make([]int64, n))
}

// NewUnit 构建 n 个长度为 1 的覆盖型线段树。
func NewUnit(n int) (*Tree, error) {
	if n < 1 {
		return nil, xerrors.ErrEmptyData
	}
	lengths := make([]int64, n)
	for i := range lengths {
		lengths[i] = 1
	}
	return New(Coverage, lengths)
}

// build 递归二分区间，叶子复制输入，内部节点按策略合并子节点。
func (t *Tree) build(i, lo, hi int, initial []int64) error {
	if lo == hi {
		if err := t.policy.initLeaf(&t.nodes[i], initial[lo]); err != nil {
			if e, ok := xerrors.FromError(err); ok {
				return e.WithContext("index", lo)
			}
			return err
		}
		return nil
	}
	mid := lo + (hi-lo)/2
	if err := t.build(2*i, lo, mid, initial); err != nil {
		return err
	}
	if err := t.build(2*i+1, mid+1, hi, initial); err != nil {
		return err
	}
	t.nodes[i].Length = t.nodes[2*i].Length + t.nodes[2*i+1].Length
	t.policy.pullUp(t.nodes, i)
	return nil
}

// Len 返回叶子数。
func (t *Tree) Len() int {
	return t.n
}

// Kind 返回树的聚合策略。
func (t *Tree) Kind() Kind {
	return t.policy.Kind()
}

// Height 返回树高 ⌈log2 n⌉。
func (t *Tree) Height() int {
	return bits.Len(uint(t.n - 1))
}

// pushDown 在读取节点 i 的子节点之前下推其懒标记。
func (t *Tree) pushDown(i, lo, hi int) {
	mid := lo + (hi-lo)/2
	t.policy.pushDown(t.nodes, i, lo == mid, mid+1 == hi)
}

// pullUp 根据子节点重新计算节点 i 的聚合。
func (t *Tree) pullUp(i int) {
	t.policy.pullUp(t.nodes, i)
}

// clip 把 [l, r] 截断到 [0, n-1]，截断后 l > r 表示空区间。
func (t *Tree) clip(l, r int) (int, int) {
	return max(l, 0), min(r, t.n-1)
}
