package segtree

// Predicate 判断一个聚合边界内“可能存在”满足条件的叶子。
// 对内部节点它只用于剪枝，必须是保守的：返回 false 意味着子树中一定没有目标叶子；
// 对叶子节点，边界即叶子的确切值，返回值即为最终判定。
type Predicate func(Aggregate) bool

// Direction 决定下降查找优先走哪一侧。
type Direction int

const (
	Leftmost Direction = iota
	Rightmost
)

// String 返回方向名称。
func (d Direction) String() string {
	if d == Rightmost {
		return "rightmost"
	}
	return "leftmost"
}

// ValueEquals 匹配值等于 v 的叶子：子树的 [Min, Max] 必须包含 v。
func ValueEquals(v int64) Predicate {
	return func(a Aggregate) bool {
		return a.Length > 0 && a.Min <= v && v <= a.Max
	}
}

// ValueAtMost 匹配值不大于 v 的叶子。
func ValueAtMost(v int64) Predicate {
	return func(a Aggregate) bool {
		return a.Length > 0 && a.Min <= v
	}
}

// ValueAtLeast 匹配值不小于 v 的叶子。
func ValueAtLeast(v int64) Predicate {
	return func(a Aggregate) bool {
		return a.Length > 0 && a.Max >= v
	}
}

// AnyCovered 匹配被覆盖的叶子（覆盖型）。
func AnyCovered() Predicate {
	return func(a Aggregate) bool {
		return a.Covered > 0
	}
}

// AnyUncovered 匹配未被覆盖的叶子（覆盖型）。
func AnyUncovered() Predicate {
	return func(a Aggregate) bool {
		return a.Covered < a.Length
	}
}

// Locate 在 [l, r] 中按 dir 查找第一个满足 pred 的叶子下标。
// 下降时先检查子树的聚合边界，边界不可能包含目标的子树整体剪掉，
// 因此在谓词能准确反映子树内容时单次查找为 O(log N)。
// 没有满足条件的叶子时返回 (-1, false)。
func (t *Tree) Locate(pred Predicate, l, r int, dir Direction) (int, bool) {
	l, r = t.clip(l, r)
	if l > r || pred == nil {
		return -1, false
	}
	t.stats.locates++
	return t.locate(1, 0, t.n-1, l, r, 0, pred, dir)
}

// First 是 Locate(pred, l, r, Leftmost) 的简写。
func (t *Tree) First(pred Predicate, l, r int) (int, bool) {
	return t.Locate(pred, l, r, Leftmost)
}

// Last 是 Locate(pred, l, r, Rightmost) 的简写。
func (t *Tree) Last(pred Predicate, l, r int) (int, bool) {
	return t.Locate(pred, l, r, Rightmost)
}

func (t *Tree) locate(i, lo, hi, l, r int, carry int64, pred Predicate, dir Direction) (int, bool) {
	if r < lo || hi < l {
		return -1, false
	}
	t.stats.visited++
	if !pred(t.policy.view(&t.nodes[i], carry)) {
		return -1, false
	}
	if lo == hi {
		return lo, true
	}
	t.pushDown(i, lo, hi)
	carry = t.policy.carry(&t.nodes[i], carry)
	mid := lo + (hi-lo)/2
	if dir == Rightmost {
		if idx, ok := t.locate(2*i+1, mid+1, hi, l, r, carry, pred, dir); ok {
			return idx, true
		}
		return t.locate(2*i, lo, mid, l, r, carry, pred, dir)
	}
	if idx, ok := t.locate(2*i, lo, mid, l, r, carry, pred, dir); ok {
		return idx, true
	}
	return t.locate(2*i+1, mid+1, hi, l, r, carry, pred, dir)
}
