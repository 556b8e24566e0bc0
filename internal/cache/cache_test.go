package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v, want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}
	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after update = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // b is now the oldest
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 2 {
		t.Errorf("Stats() = %+v, want 1 eviction and 2 entries", s)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](4)
	calls := 0
	create := func() (int, error) {
		calls++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCreate("k", create)
		if err != nil || v != 7 {
			t.Fatalf("GetOrCreate() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCreate("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrCreate() error = %v, want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed create was cached")
	}

	s := c.Stats()
	if s.Hits < 2 || s.HitRate() <= 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCacheDeleteClear(t *testing.T) {
	c := New[int, int](0)
	if c.Stats().Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Stats().Capacity, DefaultCapacity)
	}
	c.Set(1, 1)
	c.Set(2, 2)
	if !c.Delete(1) || c.Delete(1) {
		t.Error("Delete() should succeed exactly once")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	c.Set(3, 3)
	if v, ok := c.Get(3); !ok || v != 3 {
		t.Error("cache unusable after Clear")
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[string, int](16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				k := strconv.Itoa(i % 32)
				_, _ = c.GetOrCreate(k, func() (int, error) { return i, nil })
				c.Get(k)
			}
		}()
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
