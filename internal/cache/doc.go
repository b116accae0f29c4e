// Package cache provides a sharded, thread-safe LRU cache.
//
// Sharded splits its keys over a fixed number of shards, each with its own
// lock and LRU list, so concurrent lookups of different keys rarely contend:
//
//	c := cache.NewSharded[string, image.Image](64, cache.StringHasher)
//	img, err := c.GetOrLoad("key", func() (image.Image, error) { ... })
//
// Failed loads are not cached.
package cache
