package oui

import "container/list"

// lookupCache is a bounded, per-session cache of full-MAC -> vendor
// lookups, amortising repeated resolutions against the same prefix map
// probe (spec.md §4.2). Unbounded growth is avoided with a simple LRU
// eviction policy; the corpus has no third-party LRU library, so this is
// built on container/list per the standard-library justification rule.
type lookupCache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type cacheEntry struct {
	mac    string
	vendor string
	found  bool
}

func newLookupCache(capacity int) *lookupCache {
	if capacity <= 0 {
		capacity = 4096
	}
	return &lookupCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (c *lookupCache) get(mac string) (vendor string, found, hit bool) {
	el, ok := c.entries[mac]
	if !ok {
		return "", false, false
	}
	c.order.MoveToFront(el)
	e := el.Value.(*cacheEntry)
	return e.vendor, e.found, true
}

func (c *lookupCache) put(mac, vendor string, found bool) {
	if el, ok := c.entries[mac]; ok {
		c.order.MoveToFront(el)
		el.Value.(*cacheEntry).vendor = vendor
		el.Value.(*cacheEntry).found = found
		return
	}

	el := c.order.PushFront(&cacheEntry{mac: mac, vendor: vendor, found: found})
	c.entries[mac] = el

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).mac)
	}
}
