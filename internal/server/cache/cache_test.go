package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute, time.Minute)

	_, ok := c.Get(Key("a.com", "tags"))
	assert.False(t, ok)

	c.Set(Key("a.com", "tags"), []string{"t1"})
	v, ok := c.Get(Key("a.com", "tags"))
	assert.True(t, ok)
	assert.Equal(t, []string{"t1"}, v)

	c.Delete(Key("a.com", "tags"))
	assert.Equal(t, 0, c.ItemCount())
}

func TestInvalidateDomain(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set(Key("a.com", "tags"), 1)
	c.Set(Key("a.com", "words"), 2)
	c.Set(Key("a.com.evil", "tags"), 3)
	c.Set(Key("b.com", "tags"), 4)

	c.InvalidateDomain("a.com")

	assert.Equal(t, 2, c.ItemCount())
	_, ok := c.Get(Key("a.com.evil", "tags"))
	assert.True(t, ok)
	_, ok = c.Get(Key("b.com", "tags"))
	assert.True(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(10*time.Millisecond, time.Minute)
	c.Set(Key("a.com", "tags"), 1)
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get(Key("a.com", "tags"))
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set(Key("a.com", "tags"), 1)
	c.Set(Key("b.com", "tags"), 1)
	c.Clear()
	assert.Equal(t, 0, c.ItemCount())
}
