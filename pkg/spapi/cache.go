package spapi

import (
	"sync"

	"github.com/mitchellh/hashstructure"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
)

// CallCache memoizes responses of identical calls for the lifetime of one sync pass.
// It is bounded and evicts in insertion order. Paginated calls carry a unique token,
// so only repeated first pages ever hit.
type CallCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]*Response
	order    []uint64
	hits     int
}

func NewCallCache(capacity int) *CallCache {
	return &CallCache{
		capacity: max(capacity, 1),
		entries:  make(map[uint64]*Response),
	}
}

func cacheKey(call Call) (uint64, bool) {
	key, err := hashstructure.Hash(struct {
		Method string
		Path   string
		Params map[string][]string
	}{call.method(), call.Path, call.Params}, nil)
	if err != nil {
		logger.Debugf("skipping cache for %s: %s", call.Path, err)
		return 0, false
	}

	return key, true
}

func (c *CallCache) Get(call Call) (*Response, bool) {
	key, ok := cacheKey(call)
	if !ok {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	response, found := c.entries[key]
	if found {
		c.hits++
	}
	return response, found
}

func (c *CallCache) Put(call Call, response *Response) {
	key, ok := cacheKey(call)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.entries[key]; found {
		c.entries[key] = response
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = response
	c.order = append(c.order, key)
}

func (c *CallCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *CallCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
