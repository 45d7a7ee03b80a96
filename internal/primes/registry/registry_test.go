package registry

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primenum/pkg/platform/sentinel"
)

func TestNew(t *testing.T) {
	t.Run("seeded registry yields the single-digit primes in order", func(t *testing.T) {
		reg, err := New(true)
		require.NoError(t, err)
		assert.Equal(t, []uint64{2, 3, 5, 7}, slices.Collect(reg.All()))
		assert.Equal(t, 4, reg.Len())
	})

	t.Run("unseeded registry is empty", func(t *testing.T) {
		reg, err := New(false)
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Len())
		assert.Empty(t, slices.Collect(reg.All()))
	})

	t.Run("capacity below the seed size fails", func(t *testing.T) {
		_, err := New(true, WithCapacity(3))
		assert.ErrorIs(t, err, sentinel.ErrResourceExhausted)
	})

	t.Run("non-positive capacity means unbounded", func(t *testing.T) {
		reg, err := New(true, WithCapacity(0), WithCapacity(-1))
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Capacity())
	})
}

func TestFirstLast(t *testing.T) {
	t.Run("empty registry reports not ok", func(t *testing.T) {
		reg, err := New(false)
		require.NoError(t, err)

		_, ok := reg.First()
		assert.False(t, ok)
		_, ok = reg.Last()
		assert.False(t, ok)
	})

	t.Run("seeded registry", func(t *testing.T) {
		reg, err := New(true)
		require.NoError(t, err)

		first, ok := reg.First()
		assert.True(t, ok)
		assert.Equal(t, uint64(2), first)
		last, ok := reg.Last()
		assert.True(t, ok)
		assert.Equal(t, uint64(7), last)
	})
}

func TestAppend(t *testing.T) {
	t.Run("returns the index of the new entry", func(t *testing.T) {
		reg, err := New(true)
		require.NoError(t, err)

		idx, err := reg.Append(11)
		require.NoError(t, err)
		assert.Equal(t, 4, idx)
		assert.Equal(t, uint64(11), reg.At(idx))

		last, _ := reg.Last()
		assert.Equal(t, uint64(11), last)
		assert.Equal(t, 5, reg.Len())
	})

	t.Run("full registry rejects appends and keeps its entries", func(t *testing.T) {
		reg, err := New(true, WithCapacity(5))
		require.NoError(t, err)

		_, err = reg.Append(11)
		require.NoError(t, err)
		_, err = reg.Append(13)
		assert.ErrorIs(t, err, sentinel.ErrResourceExhausted)
		assert.Equal(t, []uint64{2, 3, 5, 7, 11}, reg.Values())
	})
}

func TestAll(t *testing.T) {
	reg, err := New(true)
	require.NoError(t, err)

	t.Run("restartable", func(t *testing.T) {
		first := slices.Collect(reg.All())
		second := slices.Collect(reg.All())
		assert.Equal(t, first, second)
	})

	t.Run("early break stops iteration", func(t *testing.T) {
		var seen []uint64
		for v := range reg.All() {
			seen = append(seen, v)
			if v == 3 {
				break
			}
		}
		assert.Equal(t, []uint64{2, 3}, seen)
	})
}

func TestValuesIsACopy(t *testing.T) {
	reg, err := New(true)
	require.NoError(t, err)

	values := reg.Values()
	values[0] = 99

	first, _ := reg.First()
	assert.Equal(t, uint64(2), first)
}
