package skimcache

import (
	"container/list"
	"sync"

	"github.com/akerscore/aucs/internal/skim"
)

// lru is a small fixed-capacity in-process cache for the hottest skim
// fingerprints, the first tier ahead of Redis.
type lru struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

type lruEntry struct {
	key   string
	entry skim.Entry
}

func newLRU(capacity int) *lru {
	if capacity <= 0 {
		capacity = 10000
	}
	return &lru{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (l *lru) get(key string) (skim.Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	el, ok := l.items[key]
	if !ok {
		return skim.Entry{}, false
	}
	l.order.MoveToFront(el)
	return el.Value.(*lruEntry).entry, true
}

func (l *lru) put(key string, entry skim.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if el, ok := l.items[key]; ok {
		el.Value.(*lruEntry).entry = entry
		l.order.MoveToFront(el)
		return
	}

	el := l.order.PushFront(&lruEntry{key: key, entry: entry})
	l.items[key] = el

	for l.order.Len() > l.capacity {
		oldest := l.order.Back()
		if oldest == nil {
			break
		}
		l.order.Remove(oldest)
		delete(l.items, oldest.Value.(*lruEntry).key)
	}
}
