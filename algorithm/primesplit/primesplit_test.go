package primesplit

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestMaximumCount(t *testing.T) {
	tests := []struct {
		name    string
		nums    []int
		queries []Query
		want    []int
	}{
		{"example one", []int{2, 1, 3, 1, 2}, []Query{{1, 2}, {3, 3}}, []int{3, 4}},
		{"example two", []int{2, 1, 4}, []Query{{0, 1}}, []int{0}},
		{"single prime", []int{2, 2}, []Query{{0, 3}}, []int{2}},
		{"no primes", []int{1, 4, 6, 8}, []Query{{0, 1}, {1, 1}}, []int{0, 0}},
		{"all same prime", []int{2, 2, 2, 2}, []Query{{1, 3}}, []int{3}},
		{"multiple updates", []int{2, 3, 5}, []Query{{1, 7}, {1, 3}, {1, 2}}, []int{3, 3, 3}},
		{"two elements", []int{2, 3}, []Query{{0, 3}, {1, 2}}, []int{2, 2}},
		{"too short", []int{5}, []Query{{0, 7}}, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaximumCount(tt.nums, tt.queries); !slices.Equal(got, tt.want) {
				t.Errorf("MaximumCount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func bruteBest(nums []int, isPrime []bool) int {
	best := 0
	for k := 1; k < len(nums); k++ {
		pre, suf := map[int]bool{}, map[int]bool{}
		for i, v := range nums {
			if !isPrime[v] {
				continue
			}
			if i < k {
				pre[v] = true
			} else {
				suf[v] = true
			}
		}
		best = max(best, len(pre)+len(suf))
	}
	return best
}

func TestSolverMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 13))
	isPrime := sieve(30)
	for round := 0; round < 50; round++ {
		nums := make([]int, 2+rng.IntN(12))
		for i := range nums {
			nums[i] = rng.IntN(31)
		}
		s, err := NewSolver(nums, 30)
		if err != nil {
			t.Fatalf("NewSolver: %v", err)
		}
		if got, want := s.Best(), bruteBest(nums, isPrime); got != want {
			t.Fatalf("round %d: initial Best() = %d, want %d", round, got, want)
		}
		for op := 0; op < 20; op++ {
			q := Query{Index: rng.IntN(len(nums)), Value: rng.IntN(31)}
			nums[q.Index] = q.Value
			if got, want := s.Apply(q), bruteBest(nums, isPrime); got != want {
				t.Fatalf("round %d op %d: Apply(%+v) = %d, want %d", round, op, q, got, want)
			}
		}
	}
}

func TestSieve(t *testing.T) {
	p := sieve(20)
	var got []int
	for i, ok := range p {
		if ok {
			got = append(got, i)
		}
	}
	if want := []int{2, 3, 5, 7, 11, 13, 17, 19}; !slices.Equal(got, want) {
		t.Errorf("sieve(20) = %v, want %v", got, want)
	}
	if len(sieve(0)) != 1 || len(sieve(-3)) != 0 {
		t.Errorf("unexpected small sieve sizes")
	}
}
