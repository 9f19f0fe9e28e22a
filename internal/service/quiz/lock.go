package quiz

import (
	"sort"
	"sync"
)

// lockSet 按文档ID串行化读改写，同时锁多个ID时按字典序加锁。
type lockSet struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func newLockSet() *lockSet {
	return &lockSet{locks: make(map[string]*keyLock)}
}

// Lock 锁住所有 key，返回解锁函数。
func (s *lockSet) Lock(keys ...string) func() {
	keys = dedupeSorted(keys)
	held := make([]*keyLock, 0, len(keys))
	for _, k := range keys {
		s.mu.Lock()
		l, ok := s.locks[k]
		if !ok {
			l = &keyLock{}
			s.locks[k] = l
		}
		l.refs++
		s.mu.Unlock()
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
			s.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(s.locks, keys[i])
			}
			s.mu.Unlock()
		}
	}
}

func dedupeSorted(keys []string) []string {
	sorted := make([]string, 0, len(keys))
	sorted = append(sorted, keys...)
	sort.Strings(sorted)
	out := make([]string, 0, len(sorted))
	for i, k := range sorted {
		if i > 0 && k == sorted[i-1] {
			continue
		}
		out = append(out, k)
	}
	return out
}

func userKey(id string) string  { return "user:" + id }
func classKey(id string) string { return "class:" + id }
func quizKey(id string) string  { return "quiz:" + id }
func workKey(id string) string  { return "work:" + id }

func submitKey(id string) string { return "submit:" + id }
