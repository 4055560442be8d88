package util

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// CacheConfig 用于配置LRU缓存的行为。
type CacheConfig struct {
	// Capacity 是缓存的最大元素数量，必须大于0。
	Capacity int
	// TTL 是元素的存活时间。如果为0，则元素永不过期。
	TTL time.Duration
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	expiration time.Time
}

// LRUCache 是一个支持泛型、带过期时间且线程安全的LRU缓存。
type LRUCache[K comparable, V any] struct {
	config CacheConfig
	ll     *list.List
	cache  map[K]*list.Element
	now    func() time.Time
	lock   sync.Mutex
}

// NewWithConfig 使用指定的配置创建一个LRU缓存实例。
func NewWithConfig[K comparable, V any](config CacheConfig) (*LRUCache[K, V], error) {
	if config.Capacity <= 0 {
		return nil, fmt.Errorf("Capacity 必须大于 0")
	}
	return &LRUCache[K, V]{
		config: config,
		ll:     list.New(),
		cache:  make(map[K]*list.Element),
		now:    time.Now,
	}, nil
}

// Get 根据键获取一个值，过期的元素被动淘汰。
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	e, ok := c.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	c.ll.MoveToFront(e)
	return e.Value.(*entry[K, V]).value, true
}

// Put 添加或更新一个键值对，并刷新其过期时间。
func (c *LRUCache[K, V]) Put(key K, value V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if e, ok := c.cache[key]; ok {
		ent := e.Value.(*entry[K, V])
		ent.value = value
		ent.expiration = c.expiry()
		c.ll.MoveToFront(e)
		return
	}
	c.insert(key, value)
}

// PutIfAbsent 仅在键不存在（或已过期）时写入，返回是否写入。
// 检查与写入在同一把锁内完成。
func (c *LRUCache[K, V]) PutIfAbsent(key K, value V) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if e, ok := c.lookup(key); ok {
		c.ll.MoveToFront(e)
		return false
	}
	c.insert(key, value)
	return true
}

// Len 返回当前缓存中的条目数量（可能包含尚未被动淘汰的过期条目）。
func (c *LRUCache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.ll.Len()
}

// lookup 返回未过期的元素。此方法假设已持有锁。
func (c *LRUCache[K, V]) lookup(key K) (*list.Element, bool) {
	e, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	ent := e.Value.(*entry[K, V])
	if c.config.TTL > 0 && c.now().After(ent.expiration) {
		c.removeElement(e)
		return nil, false
	}
	return e, true
}

// insert 插入新元素并淘汰最久未使用的元素。此方法假设已持有锁。
func (c *LRUCache[K, V]) insert(key K, value V) {
	c.cache[key] = c.ll.PushFront(&entry[K, V]{key: key, value: value, expiration: c.expiry()})
	for c.ll.Len() > c.config.Capacity {
		c.removeElement(c.ll.Back())
	}
}

func (c *LRUCache[K, V]) expiry() time.Time {
	if c.config.TTL <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.config.TTL)
}

func (c *LRUCache[K, V]) removeElement(e *list.Element) {
	c.ll.Remove(e)
	delete(c.cache, e.Value.(*entry[K, V]).key)
}
