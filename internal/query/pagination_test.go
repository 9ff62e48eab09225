package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("Clamps page to one", func(t *testing.T) {
		for _, page := range []int{0, -1, -500} {
			assert.Equal(t, 1, Normalize(page, 10).Number)
		}
	})

	t.Run("Clamps size to bounds", func(t *testing.T) {
		assert.Equal(t, 50, Normalize(1, 51).Size)
		assert.Equal(t, 50, Normalize(1, 10_000).Size)
		assert.Equal(t, 1, Normalize(1, 0).Size)
		assert.Equal(t, 1, Normalize(1, -3).Size)
		assert.Equal(t, 25, Normalize(1, 25).Size)
	})

	t.Run("Window arithmetic", func(t *testing.T) {
		p := Normalize(3, 10)
		assert.Equal(t, 20, p.Offset())
		assert.Equal(t, 10, p.Limit())
	})
}

func TestParsePage(t *testing.T) {
	t.Run("Absent values use defaults", func(t *testing.T) {
		p := ParsePage("", "")
		assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, p)
	})

	t.Run("Malformed values are treated as absent", func(t *testing.T) {
		p := ParsePage("abc", "ten")
		assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, p)
	})

	t.Run("Valid values are normalized", func(t *testing.T) {
		assert.Equal(t, Page{Number: 2, Size: 50}, ParsePage("2", "99"))
	})
}
