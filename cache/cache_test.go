package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/source"
)

func query(resultURL, column string) source.Query {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return source.NewQuery(day, resultURL, column, true, false)
}

func TestNewDisabled(t *testing.T) {
	c := New(config.CacheConfig{TTL: 0, MaxEntries: 10})
	assert.Nil(t, c)

	c.Set("k", "v")
	_, hit := c.Get("k")
	assert.False(t, hit)
	assert.Zero(t, c.Len())
}

func TestGetSetAndExpiry(t *testing.T) {
	c := New(config.CacheConfig{TTL: time.Minute, MaxEntries: 10})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "12\n34")
	body, hit := c.Get("k")
	assert.True(t, hit)
	assert.Equal(t, "12\n34", body)

	now = now.Add(2 * time.Minute)
	_, hit = c.Get("k")
	assert.False(t, hit)

	c.evictExpired()
	assert.Zero(t, c.Len())
}

func TestSetEvictsAtCapacity(t *testing.T) {
	c := New(config.CacheConfig{TTL: time.Minute, MaxEntries: 2})

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("b", "2b")
	assert.Equal(t, 2, c.Len())

	c.Set("c", "3")
	assert.Equal(t, 2, c.Len())
	body, hit := c.Get("c")
	assert.True(t, hit)
	assert.Equal(t, "3", body)
}

func TestKey(t *testing.T) {
	base := Key(query("TP. HCM", "V1"), "html")

	assert.Equal(t, base, Key(query("TP. HCM", "V1"), "html"))
	assert.NotEqual(t, base, Key(query("TP. HCM", "V2"), "html"))
	assert.NotEqual(t, base, Key(query("Đồng Nai", "V1"), "html"))
	assert.NotEqual(t, base, Key(query("TP. HCM", "V1"), "text"))
}
