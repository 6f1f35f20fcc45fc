package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListCacheGetSet(t *testing.T) {
	c := NewListCache(time.Minute)

	_, ok := c.Get("org:a:quotation:|50|0")
	assert.False(t, ok)

	c.Set("org:a:quotation:|50|0", "page1")
	v, ok := c.Get("org:a:quotation:|50|0")
	assert.True(t, ok)
	assert.Equal(t, "page1", v)
}

func TestListCacheExpiry(t *testing.T) {
	c := NewListCache(time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("key", "value")

	current = current.Add(30 * time.Second)
	_, ok := c.Get("key")
	assert.True(t, ok)

	current = current.Add(31 * time.Second)
	_, ok = c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestListCacheInvalidatePrefixIsScoped(t *testing.T) {
	c := NewListCache(time.Minute)

	c.Set("org:a:quotation:|50|0", "a-quo")
	c.Set("org:a:quotation:|50|50", "a-quo-2")
	c.Set("org:a:invoice:|50|0", "a-inv")
	c.Set("org:b:quotation:|50|0", "b-quo")

	c.InvalidatePrefix("org:a:quotation:")

	_, ok := c.Get("org:a:quotation:|50|0")
	assert.False(t, ok)
	_, ok = c.Get("org:a:quotation:|50|50")
	assert.False(t, ok)

	// Other kinds and other tenants survive.
	_, ok = c.Get("org:a:invoice:|50|0")
	assert.True(t, ok)
	_, ok = c.Get("org:b:quotation:|50|0")
	assert.True(t, ok)
}
