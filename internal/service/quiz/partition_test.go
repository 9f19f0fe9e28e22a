package quiz

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
)

func roster(n int) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = fmt.Sprintf("s%02d", i)
	}
	return res
}

func TestPartitionCoverage(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for n := 0; n <= 23; n++ {
		for g := 1; g <= 25; g++ {
			r := roster(n)
			groups, err := Partition(r, g, rnd)
			if err != nil {
				t.Fatalf("Partition(%d, %d) error %v", n, g, err)
			}
			seen := make(map[string]int)
			minSize, maxSize := n+1, -1
			for _, group := range groups {
				if len(group) < minSize {
					minSize = len(group)
				}
				if len(group) > maxSize {
					maxSize = len(group)
				}
				for _, s := range group {
					seen[s]++
				}
			}
			if len(seen) != n {
				t.Errorf("n=%d g=%d: covered %d members, want %d", n, g, len(seen), n)
			}
			for s, c := range seen {
				if c != 1 {
					t.Errorf("n=%d g=%d: %s appears %d times", n, g, s, c)
				}
			}
			if n == 0 {
				if len(groups) != 0 {
					t.Errorf("empty roster gave %d groups", len(groups))
				}
				continue
			}
			wantGroups := (n + g - 1) / g
			if len(groups) != wantGroups {
				t.Errorf("n=%d g=%d: %d groups, want %d", n, g, len(groups), wantGroups)
			}
			if maxSize-minSize > 1 {
				t.Errorf("n=%d g=%d: sizes range %d..%d", n, g, minSize, maxSize)
			}
			if maxSize > g {
				t.Errorf("n=%d g=%d: group of %d exceeds group size", n, g, maxSize)
			}
		}
	}
}

func TestPartitionLargerGroupCount(t *testing.T) {
	cases := []struct {
		n, g       int
		wantSizes  []int
		wantGroups int
	}{
		{10, 3, []int{3, 3, 2, 2}, 4},
		{7, 3, []int{3, 2, 2}, 3},
		{9, 3, []int{3, 3, 3}, 3},
		{5, 10, []int{5}, 1},
		{5, 5, []int{5}, 1},
		{1, 1, []int{1}, 1},
		{12, 5, []int{4, 4, 4}, 3},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("n%d_g%d", c.n, c.g), func(t *testing.T) {
			groups, err := Partition(roster(c.n), c.g, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatal(err)
			}
			if len(groups) != c.wantGroups {
				t.Fatalf("got %d groups, want %d", len(groups), c.wantGroups)
			}
			sizes := make([]int, len(groups))
			for i, group := range groups {
				sizes[i] = len(group)
			}
			sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
			for i := range sizes {
				if sizes[i] != c.wantSizes[i] {
					t.Errorf("sizes = %v, want %v", sizes, c.wantSizes)
					break
				}
			}
		})
	}
}

func TestPartitionInvalidGroupSize(t *testing.T) {
	for _, g := range []int{0, -1} {
		_, err := Partition(roster(4), g, rand.New(rand.NewSource(1)))
		if !errors.Is(err, serrors.ErrInvalidArgument) {
			t.Errorf("Partition(g=%d) error = %v, want InvalidArgument", g, err)
		}
	}
}

func TestPartitionDoesNotMutateRoster(t *testing.T) {
	r := roster(8)
	orig := append([]string(nil), r...)
	if _, err := Partition(r, 3, rand.New(rand.NewSource(7))); err != nil {
		t.Fatal(err)
	}
	for i := range r {
		if r[i] != orig[i] {
			t.Fatalf("roster mutated: %v", r)
		}
	}
}

func TestPartitionShuffles(t *testing.T) {
	r := roster(20)
	differs := false
	for seed := int64(0); seed < 5 && !differs; seed++ {
		groups, _ := Partition(r, 20, rand.New(rand.NewSource(seed)))
		for i, s := range groups[0] {
			if s != r[i] {
				differs = true
				break
			}
		}
	}
	if !differs {
		t.Errorf("roster order never changed across seeds")
	}
}
