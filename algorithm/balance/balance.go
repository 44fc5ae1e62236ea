// Package balance 求“奇偶平衡”的最长子数组：子数组中不同奇数值的个数等于不同偶数值的个数。
package balance

import (
	"github.com/wyfcoding/lazyseg/algorithm/segtree"
)

func parity(v int) int64 {
	if v&1 == 1 {
		return 1
	}
	return -1
}

// LongestBalanced 返回最长平衡子数组的长度，不存在时返回 0。
//
// 固定左端点 left 后，叶子 r 保存子数组 nums[left..r] 的（不同奇数 - 不同偶数），
// 答案即 [left, n-1] 中最右侧的 0。左端点右移时，nums[left] 只对下一次出现之前的
// 右端点失去贡献，对应一次区间加法。整体复杂度 O(n log n)。
func LongestBalanced(nums []int) int {
	n := len(nums)
	if n < 2 {
		return 0
	}

	// next[i] 为 nums[i] 下一次出现的位置，不存在时为 n
	next := make([]int, n)
	last := make(map[int]int, n)
	for i := n - 1; i >= 0; i-- {
		if j, ok := last[nums[i]]; ok {
			next[i] = j
		} else {
			next[i] = n
		}
		last[nums[i]] = i
	}

	diff := make([]int64, n)
	seen := make(map[int]struct{}, n)
	var bal int64
	for i, v := range nums {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			bal += parity(v)
		}
		diff[i] = bal
	}
	if bal == 0 {
		return n
	}

	tree, err := segtree.NewAdditive(diff)
	if err != nil {
		return 0
	}

	best := 0
	zero := segtree.ValueEquals(0)
	for left := 0; left < n; left++ {
		if right, ok := tree.Last(zero, left, n-1); ok {
			best = max(best, right-left+1)
		}
		if best >= n-left-1 {
			break
		}
		tree.RangeUpdate(left+1, next[left]-1, -parity(nums[left]))
	}
	return best
}
