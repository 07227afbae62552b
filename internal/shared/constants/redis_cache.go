package constants

import "fmt"

// Redis cache keys for the storefront read paths.
// Pattern: stagedoor:{module}:{operation}:{identifier}

const (
	cachePrefix = "stagedoor"

	// Invalidation patterns
	ShowCachePattern  = cachePrefix + ":shows:*"
	StatsCachePattern = cachePrefix + ":admin:*"
)

// ShowListKey is the cache key for the upcoming-show listing of one experience.
func ShowListKey(experienceSlug string) string {
	return fmt.Sprintf("%s:shows:upcoming:%s", cachePrefix, experienceSlug)
}

// ShowListAllKey is the cache key for the full upcoming-show listing.
func ShowListAllKey() string {
	return fmt.Sprintf("%s:shows:upcoming:all", cachePrefix)
}

// AdminStatsKey is the cache key for the admin dashboard aggregates.
func AdminStatsKey() string {
	return fmt.Sprintf("%s:admin:stats", cachePrefix)
}
