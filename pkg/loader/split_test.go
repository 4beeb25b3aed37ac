package loader

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/core"
)

func TestTrainTestSplit(t *testing.T) {
	f := core.MustFrame(
		core.Series{Name: "id", Values: []any{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		core.Series{Name: "type", Values: []any{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}},
	)

	t.Run("Should partition rows by ratio", func(t *testing.T) {
		train, test, err := TrainTestSplit(f, 0.3, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		assert.Equal(t, 7, train.Len())
		assert.Equal(t, 3, test.Len())

		trainIDs, _ := train.Column("id")
		testIDs, _ := test.Column("id")
		assert.ElementsMatch(t, []any{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, append(append([]any{}, trainIDs...), testIDs...))
	})

	t.Run("Should keep rows aligned across columns", func(t *testing.T) {
		train, _, err := TrainTestSplit(f, 0.5, nil)
		require.NoError(t, err)
		ids, _ := train.Column("id")
		types, _ := train.Column("type")
		for i := range ids {
			assert.Equal(t, string(rune('a'+ids[i].(int))), types[i])
		}
	})

	t.Run("Should be reproducible for a seed", func(t *testing.T) {
		a, _, err := TrainTestSplit(f, 0.2, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		b, _, err := TrainTestSplit(f, 0.2, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("Should reject ratios outside [0, 1)", func(t *testing.T) {
		_, _, err := TrainTestSplit(f, 1, nil)
		assert.Error(t, err)
		_, _, err = TrainTestSplit(f, -0.1, nil)
		assert.Error(t, err)
	})
}
