package segtree

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/wyfcoding/lazyseg/xerrors"
)

func TestAdditiveScenario(t *testing.T) {
	st, err := NewZero(8)
	if err != nil {
		t.Fatalf("NewZero: %v", err)
	}
	st.RangeUpdate(2, 5, 1)

	got := st.Query(0, 7)
	if got.Min != 0 || got.Max != 1 {
		t.Errorf("Query(0, 7) = {min %d, max %d}, want {0, 1}", got.Min, got.Max)
	}
	if got.Sum != 4 {
		t.Errorf("Query(0, 7).Sum = %d, want 4", got.Sum)
	}

	if idx, ok := st.Locate(ValueEquals(0), 0, 7, Leftmost); !ok || idx != 0 {
		t.Errorf("leftmost zero in [0,7] = (%d, %v), want (0, true)", idx, ok)
	}
	if idx, ok := st.Locate(ValueEquals(0), 2, 7, Leftmost); !ok || idx != 6 {
		t.Errorf("leftmost zero in [2,7] = (%d, %v), want (6, true)", idx, ok)
	}
	if idx, ok := st.Locate(ValueEquals(0), 0, 5, Rightmost); !ok || idx != 1 {
		t.Errorf("rightmost zero in [0,5] = (%d, %v), want (1, true)", idx, ok)
	}
	if _, ok := st.Locate(ValueEquals(0), 2, 5, Leftmost); ok {
		t.Errorf("expected no zero in [2,5]")
	}
	if err := st.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestCoverageScenario(t *testing.T) {
	st, err := NewUnit(10)
	if err != nil {
		t.Fatalf("NewUnit: %v", err)
	}
	st.RangeUpdate(0, 4, 1)
	st.RangeUpdate(3, 7, 1)

	if got := st.Query(0, 9).Covered; got != 8 {
		t.Errorf("covered = %d, want 8", got)
	}
	if got := st.Query(2, 5).Covered; got != 4 {
		t.Errorf("covered in [2,5] = %d, want 4", got)
	}
	if idx, ok := st.First(AnyUncovered(), 0, 9); !ok || idx != 8 {
		t.Errorf("first uncovered = (%d, %v), want (8, true)", idx, ok)
	}

	st.RangeUpdate(0, 4, -1)
	if got := st.All().Covered; got != 5 {
		t.Errorf("covered after removal = %d, want 5", got)
	}
	if idx, ok := st.First(AnyCovered(), 0, 9); !ok || idx != 3 {
		t.Errorf("first covered = (%d, %v), want (3, true)", idx, ok)
	}
	if idx, ok := st.Last(AnyCovered(), 0, 9); !ok || idx != 7 {
		t.Errorf("last covered = (%d, %v), want (7, true)", idx, ok)
	}
	if err := st.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestCoverageWeightedLeaves(t *testing.T) {
	// 叶子 i 表示 [x_i, x_{i+1}) 的区段，长度为区段宽度
	st, err := NewCoverage([]int64{2, 3, 5, 1})
	if err != nil {
		t.Fatalf("NewCoverage: %v", err)
	}
	st.RangeUpdate(1, 2, 1)
	if got := st.All(); got.Covered != 8 || got.Length != 11 {
		t.Errorf("All() = %+v, want covered 8 of 11", got)
	}
	if got := st.Get(2); got != 5 {
		t.Errorf("Get(2) = %d, want 5", got)
	}
	if got := st.Get(3); got != 0 {
		t.Errorf("Get(3) = %d, want 0", got)
	}
}

func TestEmptyRangeIsNoOp(t *testing.T) {
	for _, policy := range []Policy{Additive, Coverage} {
		st, err := New(policy, []int64{1, 2, 3, 4, 5, 6, 7})
		if err != nil {
			t.Fatalf("New(%s): %v", policy, err)
		}
		st.RangeUpdate(1, 5, 1)
		before := slices.Clone(st.nodes)

		st.RangeUpdate(5, 3, 9)
		st.RangeUpdate(-4, -1, 9)
		st.RangeUpdate(7, 20, 9)

		if !slices.Equal(before, st.nodes) {
			t.Errorf("%s: empty range update modified the node store", policy)
		}
		if st.Stats().Updates != 1 {
			t.Errorf("%s: updates = %d, want 1", policy, st.Stats().Updates)
		}
	}
}

func TestEmptyQueryReturnsNeutral(t *testing.T) {
	st, _ := NewZero(4)
	got := st.Query(3, 1)
	if !got.Empty() || got.Min != math.MaxInt64 || got.Max != math.MinInt64 {
		t.Errorf("Query(3, 1) = %+v, want additive neutral element", got)
	}

	cov, _ := NewUnit(4)
	if got := cov.Query(9, 12); got != (Aggregate{}) {
		t.Errorf("coverage Query(9, 12) = %+v, want zero", got)
	}
}

func TestPushDownPullUpIdempotent(t *testing.T) {
	st, err := NewAdditive([]int64{4, -2, 7, 0, 3, 3, -8, 1, 5})
	if err != nil {
		t.Fatalf("NewAdditive: %v", err)
	}
	st.RangeUpdate(0, 8, 2)
	st.RangeUpdate(2, 6, -3)
	st.RangeUpdate(4, 4, 10)

	var walk func(i, lo, hi int)
	walk = func(i, lo, hi int) {
		if lo == hi {
			return
		}
		before := st.nodes[i]
		before.Pending = 0
		st.pushDown(i, lo, hi)
		st.pullUp(i)
		after := st.nodes[i]
		if after != before {
			t.Errorf("node %d [%d,%d]: %+v became %+v", i, lo, hi, before, after)
		}
		mid := lo + (hi-lo)/2
		walk(2*i, lo, mid)
		walk(2*i+1, mid+1, hi)
	}
	walk(1, 0, st.Len()-1)

	if err := st.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSetAndGet(t *testing.T) {
	st, _ := NewAdditive([]int64{5, 1, 9})
	st.RangeUpdate(0, 2, 10)
	if err := st.Set(1, -4); err != nil {
		t.Fatalf("Set: %v", err)
	}
	want := []int64{15, -4, 19}
	for i, w := range want {
		if got := st.Get(i); got != w {
			t.Errorf("Get(%d) = %d, want %d", i, got, w)
		}
	}
	st.Add(2, 1)
	if got := st.All().Max; got != 20 {
		t.Errorf("max = %d, want 20", got)
	}

	if err := st.Set(3, 0); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Errorf("Set out of range: got %v", err)
	}
	cov, _ := NewUnit(3)
	if err := cov.Set(0, 1); !errors.Is(err, xerrors.ErrPolicyMismatch) {
		t.Errorf("Set on coverage tree: got %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		initial []int64
		want    error
	}{
		{"nil policy", nil, []int64{1}, xerrors.ErrNilPolicy},
		{"empty additive", Additive, nil, xerrors.ErrEmptyData},
		{"empty coverage", Coverage, []int64{}, xerrors.ErrEmptyData},
		{"zero length", Coverage, []int64{1, 0, 2}, xerrors.ErrInvalidLength},
		{"negative length", Coverage, []int64{-3}, xerrors.ErrInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.policy, tt.initial)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := NewZero(0); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("NewZero(0) error = %v", err)
	}
	if _, err := NewUnit(-1); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("NewUnit(-1) error = %v", err)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	st, _ := NewAdditive([]int64{1, 2, 3, 4})
	st.nodes[2].Min = 100
	err := st.Validate()
	if !errors.Is(err, xerrors.ErrInvariant) {
		t.Fatalf("Validate() = %v, want ErrInvariant", err)
	}
	e, _ := xerrors.FromError(err)
	if e.Context["policy"] != "additive" {
		t.Errorf("context = %v", e.Context)
	}

	cov, _ := NewUnit(4)
	cov.nodes[1].Covered = 3
	if err := cov.Validate(); !errors.Is(err, xerrors.ErrInvariant) {
		t.Errorf("coverage Validate() = %v, want ErrInvariant", err)
	}
}

func TestSingleLeaf(t *testing.T) {
	st, _ := NewAdditive([]int64{-3})
	st.RangeUpdate(0, 0, 3)
	if idx, ok := st.Last(ValueEquals(0), 0, 0); !ok || idx != 0 {
		t.Errorf("Last = (%d, %v), want (0, true)", idx, ok)
	}
	s := st.Stats()
	if s.Leaves != 1 || s.Nodes != 1 || s.Height != 0 || s.Kind != KindAdditive {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestLocateNilPredicate(t *testing.T) {
	st, _ := NewZero(3)
	if idx, ok := st.Locate(nil, 0, 2, Leftmost); ok || idx != -1 {
		t.Errorf("Locate(nil) = (%d, %v)", idx, ok)
	}
}

func TestStatsCounters(t *testing.T) {
	st, _ := NewZero(16)
	st.RangeUpdate(0, 7, 1)
	st.Query(0, 15)
	st.Query(4, 3)
	st.First(ValueEquals(1), 0, 15)
	s := st.Stats()
	if s.Updates != 1 || s.Queries != 1 || s.Locates != 1 {
		t.Errorf("Stats() = %+v", s)
	}
	if s.Visited == 0 || s.Visited > int64(4*s.Height+2) {
		t.Errorf("visited %d nodes, height %d", s.Visited, s.Height)
	}
	if KindCoverage.String() != "coverage" || Rightmost.String() != "rightmost" {
		t.Errorf("unexpected names")
	}
}
