package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/data"
	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/dataprep"
	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/pipeline"
)

const callsCSV = `id,type,color
1,car,red
2,bike,blue
3,car,blue
4,bike,red
5,car,red
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRootCmd(t *testing.T) {
	t.Run("Should write the encoded CSV", func(t *testing.T) {
		dir := t.TempDir()
		in := writeFile(t, dir, "calls.csv", callsCSV)
		out := filepath.Join(dir, "encoded.csv")

		cmd := newRootCmd(&bytes.Buffer{})
		cmd.SetArgs([]string{"--input", in, "--output", out, "--features", "type,color", "--batch-size", "2"})
		require.NoError(t, cmd.Execute())

		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "type_bike,type_car,color_blue,color_red\n"+
			"0,1,0,1\n"+
			"1,0,1,0\n"+
			"0,1,1,0\n"+
			"1,0,0,1\n"+
			"0,1,0,1\n", string(got))
	})

	t.Run("Should preview to stdout with a config file", func(t *testing.T) {
		dir := t.TempDir()
		in := writeFile(t, dir, "calls.csv", callsCSV)
		cfg := writeFile(t, dir, "onehot.yaml", `
features: [type]
encoder:
  categories:
    - column: type
      values: [car, bike]
input:
  path: `+in+`
log:
  level: error
`)
		var stdout bytes.Buffer
		cmd := newRootCmd(&stdout)
		cmd.SetArgs([]string{"--config", cfg, "--preview", "2"})
		require.NoError(t, cmd.Execute())

		assert.Contains(t, stdout.String(), "type_car")
		assert.Contains(t, stdout.String(), "type_bike")
		assert.Len(t, bytes.Split(bytes.TrimSpace(stdout.Bytes()), []byte("\n")), 3)
	})

	t.Run("Should fit on the train split and encode every row", func(t *testing.T) {
		dir := t.TempDir()
		in := writeFile(t, dir, "calls.csv", callsCSV)
		cfg := writeFile(t, dir, "onehot.yaml", "features: [type, color]\nencoder:\n  handle_unknown: ignore\n")
		out := filepath.Join(dir, "encoded.csv")

		cmd := newRootCmd(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config", cfg, "--input", in, "--output", out, "--test-ratio", "0.4"})
		require.NoError(t, cmd.Execute())

		got, err := os.ReadFile(out)
		require.NoError(t, err)
		lines := bytes.Split(bytes.TrimSpace(got), []byte("\n"))
		assert.Len(t, lines, 6)
	})

	t.Run("Should fail on a missing column", func(t *testing.T) {
		dir := t.TempDir()
		in := writeFile(t, dir, "calls.csv", callsCSV)

		cmd := newRootCmd(&bytes.Buffer{})
		cmd.SetArgs([]string{"--input", in, "--features", "speed"})
		cmd.SetErr(&bytes.Buffer{})
		assert.Error(t, cmd.Execute())
	})

	t.Run("Should fail without features", func(t *testing.T) {
		dir := t.TempDir()
		in := writeFile(t, dir, "calls.csv", callsCSV)

		cmd := newRootCmd(&bytes.Buffer{})
		cmd.SetArgs([]string{"--input", in})
		cmd.SetErr(&bytes.Buffer{})
		assert.Error(t, cmd.Execute())
	})
}

func TestTransform_Batches(t *testing.T) {
	table, err := data.ReadCSV(bytes.NewBufferString(callsCSV))
	require.NoError(t, err)
	enc := dataprep.NewCategoricalEncoder()
	p := pipeline.New[*mat.Dense](enc, dataprep.NewColumnSelector([]string{"type", "color"}))
	require.NoError(t, p.Fit(table))
	schema, err := pipeline.SchemaOf(enc)
	require.NoError(t, err)

	whole, err := transform(p, table, schema.Width(), 0)
	require.NoError(t, err)

	for _, size := range []int{1, 2, 3, 5, 10} {
		batched, err := transform(p, table, schema.Width(), size)
		require.NoError(t, err)
		assert.True(t, mat.Equal(whole, batched), "batch size %d", size)
	}

	_, err = transform(p, table, schema.Width()+1, 2)
	assert.Error(t, err)
}
