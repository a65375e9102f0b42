// Package cache provides a byte-capacity LRU cache.
//
// Every entry is charged the size reported by the cache's sizer; least
// recently used entries are evicted until the total fits the capacity.
// Entries larger than the whole capacity are never admitted.
package cache
