package quiz

import (
	"math/rand"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
)

// Partition 随机打乱名单后按顺序切分为 ceil(n/groupSize) 组。
// 各组人数相差不超过1，前 n mod numGroups 组多一人；名单为空时返回0组。
func Partition(roster []string, groupSize int, rnd *rand.Rand) ([][]string, error) {
	if groupSize <= 0 {
		return nil, serrors.InvalidArgument("group size must be positive, got %d", groupSize)
	}
	n := len(roster)
	if n == 0 {
		return [][]string{}, nil
	}
	shuffled := make([]string, n)
	copy(shuffled, roster)
	// Fisher–Yates
	for i := n - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	numGroups := (n + groupSize - 1) / groupSize
	base := n / numGroups
	larger := n % numGroups
	groups := make([][]string, 0, numGroups)
	start := 0
	for g := 0; g < numGroups; g++ {
		size := base
		if g < larger {
			size++
		}
		groups = append(groups, shuffled[start:start+size:start+size])
		start += size
	}
	return groups, nil
}
