// Package primesplit 处理“拆分后不同质数个数最大化”的在线查询。
//
// 把数组在 k (1 <= k < n) 处拆成前缀与后缀，得分为前缀中不同质数的个数加后缀中不同质数的个数。
// 对每个质数 p，若其首次出现 f 与末次出现 l 满足 f < k <= l，则 p 被计入两次，
// 因此得分 = 不同质数总数 + 覆盖 k 的 [f+1, l] 区间个数。
// 用加法型线段树维护每个拆分点被覆盖的次数，整树最大值即为最优拆分。
package primesplit

import (
	"slices"

	"github.com/wyfcoding/lazyseg/algorithm/segtree"
)

// Query 把 nums[Index] 修改为 Value。
type Query struct {
	Index int
	Value int
}

// Solver 维护数组、各质数出现位置以及拆分点线段树。
type Solver struct {
	nums      []int
	isPrime   []bool
	positions map[int][]int
	tree      *segtree.Tree
}

// NewSolver 以 nums 初始化求解器。limit 为可能出现的最大数值，用于筛质数。
func NewSolver(nums []int, limit int) (*Solver, error) {
	s := &Solver{
		nums:      slices.Clone(nums),
		isPrime:   sieve(limit),
		positions: make(map[int][]int),
	}
	if len(nums) < 2 {
		return s, nil
	}
	tree, err := segtree.NewZero(len(nums) - 1)
	if err != nil {
		return nil, err
	}
	s.tree = tree
	for i, v := range s.nums {
		if s.prime(v) {
			s.positions[v] = append(s.positions[v], i)
		}
	}
	for _, pos := range s.positions {
		s.mark(pos, 1)
	}
	return s, nil
}

func (s *Solver) prime(v int) bool {
	return v >= 0 && v < len(s.isPrime) && s.isPrime[v]
}

// mark 对质数出现位置 pos 对应的拆分点区间施加 delta。
// 拆分点 k 存放在叶子 k-1，区间 [f+1, l] 即叶子 [f, l-1]。
func (s *Solver) mark(pos []int, delta int64) {
	if len(pos) < 2 {
		return
	}
	s.tree.RangeUpdate(pos[0], pos[len(pos)-1]-1, delta)
}

// Best 返回当前数组的最优拆分得分。
func (s *Solver) Best() int {
	if s.tree == nil {
		return 0
	}
	return len(s.positions) + int(s.tree.All().Max)
}

// Apply 执行一次修改并返回修改后的最优得分。
func (s *Solver) Apply(q Query) int {
	if s.tree == nil || q.Index < 0 || q.Index >= len(s.nums) {
		return s.Best()
	}
	old := s.nums[q.Index]
	if old == q.Value {
		return s.Best()
	}

	if pos, ok := s.positions[old]; ok {
		s.mark(pos, -1)
		if i, found := slices.BinarySearch(pos, q.Index); found {
			pos = slices.Delete(pos, i, i+1)
		}
		if len(pos) == 0 {
			delete(s.positions, old)
		} else {
			s.positions[old] = pos
			s.mark(pos, 1)
		}
	}

	s.nums[q.Index] = q.Value

	if s.prime(q.Value) {
		pos := s.positions[q.Value]
		s.mark(pos, -1)
		i, _ := slices.BinarySearch(pos, q.Index)
		pos = slices.Insert(pos, i, q.Index)
		s.positions[q.Value] = pos
		s.mark(pos, 1)
	}
	return s.Best()
}

// MaximumCount 依次执行 queries，返回每次修改后的最优得分。
func MaximumCount(nums []int, queries []Query) []int {
	limit := 1
	for _, v := range nums {
		limit = max(limit, v)
	}
	for _, q := range queries {
		limit = max(limit, q.Value)
	}
	s, err := NewSolver(nums, limit)
	if err != nil {
		return make([]int, len(queries))
	}
	out := make([]int, len(queries))
	for i, q := range queries {
		out[i] = s.Apply(q)
	}
	return out
}

// sieve 返回 [0, limit] 的质数表。
func sieve(limit int) []bool {
	if limit < 2 {
		return make([]bool, max(limit+1, 0))
	}
	isPrime := make([]bool, limit+1)
	for i := 2; i <= limit; i++ {
		isPrime[i] = true
	}
	for i := 2; i*i <= limit; i++ {
		if !isPrime[i] {
			continue
		}
		for j := i * i; j <= limit; j += i {
			isPrime[j] = false
		}
	}
	return isPrime
}
