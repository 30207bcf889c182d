package usecase_test

import (
	"testing"
	"time"

	"docqa-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCache_PutGet(t *testing.T) {
	cache := usecase.NewSessionCache(8, time.Hour)

	cache.Put("s1", usecase.SessionCacheData{
		ContextText: "[Page 12] carburetor heat",
		Pages:       []int{12, 13},
		Question:    "What prevents icing?",
		Answer:      "Carburetor heat.",
	})

	data, ok := cache.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Carburetor heat.", data.Answer)
	assert.Equal(t, []int{12, 13}, data.Pages)
	assert.False(t, data.CreatedAt.IsZero(), "Put stamps CreatedAt")
}

func TestSessionCache_MissAndEmptyKey(t *testing.T) {
	cache := usecase.NewSessionCache(8, time.Hour)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Put("", usecase.SessionCacheData{Answer: "ignored"})
	_, ok = cache.Get("")
	assert.False(t, ok)
}

func TestSessionCache_ExpiredEntryNotReturned(t *testing.T) {
	cache := usecase.NewSessionCache(8, 30*time.Minute)

	// Entry written in the past, past the TTL by the time it is read.
	cache.Put("s1", usecase.SessionCacheData{
		Answer:    "stale",
		CreatedAt: time.Now().Add(-time.Hour),
	})

	_, ok := cache.Get("s1")
	assert.False(t, ok, "read-time TTL check rejects stale entries")
}

func TestSessionCache_OverwriteReplacesSnapshot(t *testing.T) {
	cache := usecase.NewSessionCache(8, time.Hour)

	cache.Put("s1", usecase.SessionCacheData{Answer: "first"})
	cache.Put("s1", usecase.SessionCacheData{Answer: "second"})

	data, ok := cache.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "second", data.Answer)
}
