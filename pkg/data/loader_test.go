package data

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/core"
)

const callsCSV = `type,color,hour
car,red,7
bike,,13
car,blue,NA
`

func TestReadCSV(t *testing.T) {
	t.Run("Should keep strings and mark missing cells as nil", func(t *testing.T) {
		f, err := ReadCSV(strings.NewReader(callsCSV))
		require.NoError(t, err)

		assert.Equal(t, []string{"type", "color", "hour"}, f.Columns())
		assert.Equal(t, 3, f.Len())
		color, _ := f.Column("color")
		assert.Equal(t, []any{"red", nil, "blue"}, color)
		hour, _ := f.Column("hour")
		assert.Equal(t, []any{"7", "13", nil}, hour)
	})

	t.Run("Should infer numeric columns", func(t *testing.T) {
		f, err := ReadCSV(strings.NewReader(callsCSV), InferNumbers())
		require.NoError(t, err)

		hour, _ := f.Column("hour")
		assert.Equal(t, []any{7.0, 13.0, nil}, hour)
		typ, _ := f.Column("type")
		assert.Equal(t, []any{"car", "bike", "car"}, typ)
	})

	t.Run("Should fail on an empty document", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("Should fail on ragged rows", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("a,b\n1\n"))
		assert.Error(t, err)
	})
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.csv")
	require.NoError(t, os.WriteFile(path, []byte(callsCSV), 0o600))

	f, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestWriteMatrixCSV(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 0, 0, 1})

	t.Run("Should write header and rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteMatrixCSV(&buf, []string{"type_bike", "type_car"}, m))
		assert.Equal(t, "type_bike,type_car\n1,0\n0,1\n", buf.String())
	})

	t.Run("Should reject a header of the wrong width", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, WriteMatrixCSV(&buf, []string{"only"}, m))
	})
}

func TestBatches(t *testing.T) {
	f := core.MustFrame(core.Series{Name: "type", Values: []any{"a", "b", "c", "d", "e"}})

	t.Run("Should split into consecutive batches", func(t *testing.T) {
		batches, err := Batches(f, 2)
		require.NoError(t, err)
		require.Len(t, batches, 3)
		assert.Equal(t, 2, batches[0].Len())
		assert.Equal(t, 1, batches[2].Len())
		last, _ := batches[2].Column("type")
		assert.Equal(t, []any{"e"}, last)
	})

	t.Run("Should reject non-positive sizes", func(t *testing.T) {
		_, err := Batches(f, 0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}
