package store

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator_SameMillisecond(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	g := newIDGenerator(func() time.Time { return now })

	a, _ := g.next()
	b, _ := g.next()
	assert.Equal(t, "1700000000000", a)
	assert.Equal(t, "1700000000001", b)
}

func TestIDGenerator_ClockGoesBackwards(t *testing.T) {
	times := []time.Time{time.UnixMilli(2000), time.UnixMilli(1000)}
	i := 0
	g := newIDGenerator(func() time.Time { t := times[i]; i++; return t })

	id1, t1 := g.next()
	id2, t2 := g.next()

	n1, err := strconv.ParseInt(id1, 10, 64)
	require.NoError(t, err)
	n2, err := strconv.ParseInt(id2, 10, 64)
	require.NoError(t, err)
	assert.Greater(t, n2, n1)
	assert.False(t, t2.Before(t1))
}

func TestIDGenerator_Observe(t *testing.T) {
	g := newIDGenerator(func() time.Time { return time.UnixMilli(10) })
	g.observe("500")
	g.observe("not-a-number")

	id, _ := g.next()
	assert.Equal(t, "501", id)
}
