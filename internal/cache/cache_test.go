package cache

import (
	"slices"
	"strconv"
	"testing"
)

type evictLog struct {
	keys []string
}

func (l *evictLog) record(k string, _ int) {
	l.keys = append(l.keys, k)
}

func TestLRU_GetPut(t *testing.T) {
	c := New[string, int](2, nil)

	if _, ok := c.Get("a"); ok {
		t.Error("Get() on empty cache should miss")
	}

	c.Put("a", 1)
	c.Put("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if c.Len() != 2 || c.Capacity() != 2 {
		t.Errorf("Len()=%d Capacity()=%d, want 2, 2", c.Len(), c.Capacity())
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	var log evictLog
	c := New[string, int](2, log.record)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // b is now oldest
	c.Put("c", 3)

	if !slices.Equal(log.keys, []string{"b"}) {
		t.Errorf("evicted %v, want [b]", log.keys)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestLRU_PutReplaces(t *testing.T) {
	var log evictLog
	c := New[string, int](2, log.record)

	c.Put("a", 1)
	c.Put("a", 2)

	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if !slices.Equal(log.keys, []string{"a"}) {
		t.Errorf("evicted %v, want the replaced value's key", log.keys)
	}
}

func TestLRU_RemoveAndPurge(t *testing.T) {
	var log evictLog
	c := New[string, int](4, log.record)
	for i := range 4 {
		c.Put(strconv.Itoa(i), i)
	}

	if !c.Remove("1") {
		t.Error("Remove(1) = false")
	}
	if c.Remove("1") {
		t.Error("second Remove(1) = true")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
	if want := []string{"1", "0", "2", "3"}; !slices.Equal(log.keys, want) {
		t.Errorf("evicted %v, want %v", log.keys, want)
	}

	// The cache is usable after Purge.
	c.Put("x", 9)
	if v, ok := c.Get("x"); !ok || v != 9 {
		t.Errorf("Get(x) = %d, %v after Purge", v, ok)
	}
}

func TestLRU_MinimumCapacity(t *testing.T) {
	c := New[int, int](0, nil)
	c.Put(1, 1)
	c.Put(2, 2)
	if c.Len() != 1 || c.Capacity() != 1 {
		t.Errorf("Len()=%d Capacity()=%d, want 1, 1", c.Len(), c.Capacity())
	}
	if _, ok := c.Get(2); !ok {
		t.Error("newest entry should survive")
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	c := New[int, int](64, nil)
	for i := range 64 {
		c.Put(i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i & 63)
	}
}
