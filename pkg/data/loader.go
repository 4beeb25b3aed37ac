package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cast"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/core"
)

var ErrInvalidBatchSize = xerrors.New("batch size must be positive")

type readOptions struct {
	inferNumbers bool
}

type ReadOption func(*readOptions)

// InferNumbers turns columns whose every non-missing cell parses as a number
// into float64 columns.
func InferNumbers() ReadOption {
	return func(o *readOptions) { o.inferNumbers = true }
}

func isMissing(s string) bool {
	return s == "" || s == "NA" || s == "NaN"
}

// ReadCSV reads a headed CSV into a Frame. Missing cells become nil.
func ReadCSV(r io.Reader, opts ...ReadOption) (*core.Frame, error) {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(bufio.NewReader(r))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, xerrors.Errorf("unable to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, xerrors.New("CSV has no header row")
	}

	headers := records[0]
	rows := records[1:]
	series := make([]core.Series, len(headers))
	for c, h := range headers {
		vals := make([]any, len(rows))
		for r, rec := range rows {
			if !isMissing(rec[c]) {
				vals[r] = rec[c]
			}
		}
		if o.inferNumbers {
			vals = toNumbers(vals)
		}
		series[c] = core.Series{Name: h, Values: vals}
	}
	return core.NewFrame(series...)
}

// toNumbers returns col parsed as float64, or col unchanged if any cell is
// not numeric.
func toNumbers(col []any) []any {
	out := make([]any, len(col))
	for i, v := range col {
		if v == nil {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return col
		}
		out[i] = f
	}
	return out
}

func LoadCSV(path string, opts ...ReadOption) (*core.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("unable to open %s: %w", path, err)
	}
	defer file.Close()
	return ReadCSV(file, opts...)
}

// WriteMatrixCSV writes header followed by the rows of m.
func WriteMatrixCSV(w io.Writer, header []string, m mat.Matrix) error {
	r, c := m.Dims()
	if header != nil && len(header) != c {
		return xerrors.Errorf("header has %d names for %d columns", len(header), c)
	}

	writer := csv.NewWriter(w)
	if header != nil {
		if err := writer.Write(header); err != nil {
			return xerrors.Errorf("unable to write header: %w", err)
		}
	}
	row := make([]string, c)
	for i := range r {
		for j := range c {
			row[j] = strconv.FormatFloat(m.At(i, j), 'f', -1, 64)
		}
		if err := writer.Write(row); err != nil {
			return xerrors.Errorf("unable to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Batches splits t into consecutive tables of at most size rows.
func Batches(t core.Table, size int) ([]core.Table, error) {
	if size <= 0 {
		return nil, ErrInvalidBatchSize
	}
	var out []core.Table
	for start := 0; start < t.Len(); start += size {
		b, err := core.Slice(t, start, min(start+size, t.Len()))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
