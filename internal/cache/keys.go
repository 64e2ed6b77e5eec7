package cache

import (
	"fmt"
	"strings"
)

const (
	feedGenerationKey = "feed:generation"
	feedKeyFormat     = "feed:v%d:%s:%d:%d"
	profileKeyPrefix  = "profile:"
)

// FeedKey names one cached feed page under a given generation.
func FeedKey(generation int64, viewerID string, limit, offset int) string {
	return fmt.Sprintf(feedKeyFormat, generation, viewerID, limit, offset)
}

func ProfileKey(username string) string {
	return profileKeyPrefix + strings.ToLower(username)
}
