// Package cache provides the bounded LRU cache gridflow uses for compiled
// shader modules.
//
//	c := cache.New[string, []uint32](64)
//	words, err := c.GetOrCreate(src, func() ([]uint32, error) {
//	    return compile(src)
//	})
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
