package segtree

// Query 返回 [l, r] 上的聚合。
// 加法型返回 {Min, Max, Sum, Length}，覆盖型返回 {Covered, Length}；
// 空区间返回策略的单位元（加法型 Min=+∞、Max=-∞，覆盖型全 0）。
func (t *Tree) Query(l, r int) Aggregate {
	l, r = t.clip(l, r)
	if l > r {
		return t.policy.neutral()
	}
	t.stats.queries++
	return t.query(1, 0, t.n-1, l, r, 0)
}

// All 返回整棵树的聚合。
func (t *Tree) All() Aggregate {
	return t.Query(0, t.n-1)
}

// query 是 Query 的递归辅助函数，carry 为祖先传下来的累计量。
func (t *Tree) query(i, lo, hi, l, r int, carry int64) Aggregate {
	if r < lo || hi < l {
		return t.policy.neutral()
	}
	if l <= lo && hi <= r {
		return t.policy.view(&t.nodes[i], carry)
	}
	t.pushDown(i, lo, hi)
	carry = t.policy.carry(&t.nodes[i], carry)
	mid := lo + (hi-lo)/2
	left := t.query(2*i, lo, mid, l, r, carry)
	right := t.query(2*i+1, mid+1, hi, l, r, carry)
	return t.policy.merge(left, right)
}
