package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ClassListVersionKey returns the key of the monotically increasing version
// counter mixed into every class-list cache key. Bumping it on any class
// mutation invalidates all cached listings at once.
func (r *CacheKeyStruct) ClassListVersionKey() string {
	return "classes:list:version"
}

// ClassListKey returns the cache key for a paginated, filtered class listing.
func (r *CacheKeyStruct) ClassListKey(version int64, page, perPage int, category, level string) string {
	return fmt.Sprintf("classes:list:v%d:p%d:n%d:c%s:l%s", version, page, perPage, category, level)
}

// ClassOccupancyChannel returns the Redis PubSub channel carrying booking
// events for a single class. Consumed by the live occupancy WebSocket stream.
func (r *CacheKeyStruct) ClassOccupancyChannel(classID string) string {
	return fmt.Sprintf("class:%s:occupancy", classID)
}

var CacheKey = NewCacheKeyStruct()
