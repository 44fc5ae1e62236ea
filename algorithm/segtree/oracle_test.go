package segtree

import (
	"math"
	"math/rand/v2"
	"testing"
)

// reference 是逐元素维护的朴素数组，用作差分校验的基准。
type reference []int64

func (ref reference) add(l, r int, d int64) {
	for i := max(l, 0); i <= min(r, len(ref)-1); i++ {
		ref[i] += d
	}
}

func (ref reference) aggregate(l, r int) Aggregate {
	a := Aggregate{Min: math.MaxInt64, Max: math.MinInt64}
	for i := max(l, 0); i <= min(r, len(ref)-1); i++ {
		a.Min = min(a.Min, ref[i])
		a.Max = max(a.Max, ref[i])
		a.Sum += ref[i]
		a.Length++
	}
	return a
}

func (ref reference) scan(match func(int64) bool, l, r int, dir Direction) (int, bool) {
	l, r = max(l, 0), min(r, len(ref)-1)
	if dir == Leftmost {
		for i := l; i <= r; i++ {
			if match(ref[i]) {
				return i, true
			}
		}
		return -1, false
	}
	for i := r; i >= l; i-- {
		if match(ref[i]) {
			return i, true
		}
	}
	return -1, false
}

func TestAdditiveMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 60; round++ {
		n := 1 + rng.IntN(48)
		ref := make(reference, n)
		for i := range ref {
			ref[i] = int64(rng.IntN(7) - 3)
		}
		st, err := NewAdditive(append([]int64(nil), ref...))
		if err != nil {
			t.Fatalf("NewAdditive: %v", err)
		}

		for op := 0; op < 200; op++ {
			l, r := rng.IntN(n+4)-2, rng.IntN(n+4)-2
			switch rng.IntN(3) {
			case 0:
				d := int64(rng.IntN(5) - 2)
				st.RangeUpdate(l, r, d)
				if l <= r {
					ref.add(l, r, d)
				}
			case 1:
				got, want := st.Query(l, r), ref.aggregate(l, r)
				if got != want {
					t.Fatalf("round %d op %d: Query(%d, %d) = %+v, want %+v", round, op, l, r, got, want)
				}
			default:
				v := int64(rng.IntN(5) - 2)
				dir := Direction(rng.IntN(2))
				cases := []struct {
					name  string
					pred  Predicate
					match func(int64) bool
				}{
					{"equals", ValueEquals(v), func(x int64) bool { return x == v }},
					{"at most", ValueAtMost(v), func(x int64) bool { return x <= v }},
					{"at least", ValueAtLeast(v), func(x int64) bool { return x >= v }},
				}
				for _, c := range cases {
					gi, gok := st.Locate(c.pred, l, r, dir)
					wi, wok := ref.scan(c.match, l, r, dir)
					if gi != wi || gok != wok {
						t.Fatalf("round %d op %d: Locate(%s %d, [%d,%d], %s) = (%d, %v), want (%d, %v)",
							round, op, c.name, v, l, r, dir, gi, gok, wi, wok)
					}
				}
			}
		}
		if err := st.Validate(); err != nil {
			t.Fatalf("round %d: Validate: %v", round, err)
		}
	}
}

type interval struct{ l, r int }

func TestCoverageMatchesIntervalUnion(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 60; round++ {
		n := 1 + rng.IntN(40)
		lengths := make([]int64, n)
		for i := range lengths {
			lengths[i] = int64(1 + rng.IntN(5))
		}
		st, err := NewCoverage(lengths)
		if err != nil {
			t.Fatalf("NewCoverage: %v", err)
		}

		var active []interval
		counts := func() []int {
			c := make([]int, n)
			for _, iv := range active {
				for i := iv.l; i <= iv.r; i++ {
					c[i]++
				}
			}
			return c
		}

		for op := 0; op < 150; op++ {
			switch k := rng.IntN(4); {
			case k == 0 && len(active) > 0:
				j := rng.IntN(len(active))
				iv := active[j]
				active = append(active[:j], active[j+1:]...)
				st.RangeUpdate(iv.l, iv.r, -1)
			case k <= 1:
				l := rng.IntN(n)
				r := l + rng.IntN(n-l)
				active = append(active, interval{l, r})
				st.RangeUpdate(l, r, 1)
			case k == 2:
				l, r := rng.IntN(n), rng.IntN(n)
				c := counts()
				var want Aggregate
				for i := l; i <= r; i++ {
					want.Length += lengths[i]
					if c[i] > 0 {
						want.Covered += lengths[i]
					}
				}
				if got := st.Query(l, r); got != want {
					t.Fatalf("round %d op %d: Query(%d, %d) = %+v, want %+v", round, op, l, r, got, want)
				}
			default:
				l, r := rng.IntN(n), rng.IntN(n)
				dir := Direction(rng.IntN(2))
				c := counts()
				ref := make(reference, n)
				for i := range ref {
					ref[i] = int64(c[i])
				}
				gi, gok := st.Locate(AnyCovered(), l, r, dir)
				wi, wok := ref.scan(func(x int64) bool { return x > 0 }, l, r, dir)
				if gi != wi || gok != wok {
					t.Fatalf("round %d op %d: covered Locate([%d,%d], %s) = (%d, %v), want (%d, %v)",
						round, op, l, r, dir, gi, gok, wi, wok)
				}
				gi, gok = st.Locate(AnyUncovered(), l, r, dir)
				wi, wok = ref.scan(func(x int64) bool { return x == 0 }, l, r, dir)
				if gi != wi || gok != wok {
					t.Fatalf("round %d op %d: uncovered Locate([%d,%d], %s) = (%d, %v), want (%d, %v)",
						round, op, l, r, dir, gi, gok, wi, wok)
				}
			}
		}

		// 整棵树的被覆盖长度等于所有活动区间并集的长度
		c := counts()
		var union int64
		for i := range c {
			if c[i] > 0 {
				union += lengths[i]
			}
		}
		if got := st.All().Covered; got != union {
			t.Fatalf("round %d: covered = %d, union = %d", round, got, union)
		}
		if err := st.Validate(); err != nil {
			t.Fatalf("round %d: Validate: %v", round, err)
		}
	}
}
