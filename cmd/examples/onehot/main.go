package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/config"
	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/core"
	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/data"
	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/dataprep"
	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/loader"
	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/pipeline"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --config     : YAML config (features, encoder, input, output, log). MOTOPREP_* env overrides it
// --input      : Path to input CSV file (overrides input.path)
// --output     : Path to save encoded CSV; empty previews to stdout (overrides output.path)
// --features   : Comma separated columns to select (overrides features)
// --test-ratio : Fit on a random share of 1-ratio rows, then transform every row (overrides input.test_ratio)
// --batch-size : Transform in batches of N rows after fitting on the whole file (overrides output.batch_size)
// --preview    : Number of rows to preview in console
//
// Example:
//   go run ./cmd/examples/onehot --config calls.yaml --input calls.csv --output encoded.csv
//
// ---------------------------------------------------------------------
//

type flags struct {
	configPath string
	input      string
	output     string
	features   []string
	batchSize  int
	testRatio  float64
	preview    int
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "onehot",
		Short:        "Select categorical columns from a CSV and one-hot encode them",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			lgr, err := cfg.Log.Logger()
			if err != nil {
				return err
			}
			defer func() { _ = lgr.Sync() }()
			return run(cfg, lgr, stdout, f.preview)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to YAML config")
	cmd.Flags().StringVar(&f.input, "input", "", "Path to input CSV file")
	cmd.Flags().StringVar(&f.output, "output", "", "Path to save encoded CSV")
	cmd.Flags().StringSliceVar(&f.features, "features", nil, "Columns to select and encode")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "Rows per transform batch (0 = whole file)")
	cmd.Flags().Float64Var(&f.testRatio, "test-ratio", 0, "Share of rows held out from fitting")
	cmd.Flags().IntVar(&f.preview, "preview", 5, "Number of rows to preview in console")
	cmd.SetOut(stdout)
	return cmd
}

// loadConfig applies explicitly set flags on top of the loaded config.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg, err := config.Read(f.configPath)
	if err != nil {
		return nil, err
	}
	fs := cmd.Flags()
	if fs.Changed("features") {
		cfg.Features = f.features
	}
	if fs.Changed("input") {
		cfg.Input.Path = f.input
	}
	if fs.Changed("output") {
		cfg.Output.Path = f.output
	}
	if fs.Changed("test-ratio") {
		cfg.Input.TestRatio = f.testRatio
	}
	if fs.Changed("batch-size") {
		cfg.Output.BatchSize = f.batchSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Input.Path == "" {
		return nil, xerrors.New("no input CSV given")
	}
	return cfg, nil
}

func run(cfg *config.Config, lgr *zap.Logger, stdout io.Writer, preview int) error {
	var readOpts []data.ReadOption
	if cfg.Input.InferNumbers {
		readOpts = append(readOpts, data.InferNumbers())
	}
	table, err := data.LoadCSV(cfg.Input.Path, readOpts...)
	if err != nil {
		return err
	}
	lgr.Info("loaded raw data", zap.String("path", cfg.Input.Path), zap.Int("rows", table.Len()), zap.Int("columns", len(table.Columns())))

	encOpts, err := cfg.EncoderOptions(lgr)
	if err != nil {
		return err
	}
	enc := dataprep.NewCategoricalEncoder(encOpts...)
	p := pipeline.New[*mat.Dense](enc, dataprep.NewColumnSelector(cfg.Features, dataprep.WithLogger(lgr)))
	fitTable := core.Table(table)
	if cfg.Input.TestRatio > 0 {
		train, test, err := loader.TrainTestSplit(table, cfg.Input.TestRatio, rand.New(rand.NewSource(cfg.Input.Seed)))
		if err != nil {
			return err
		}
		lgr.Info("fitting on train split", zap.Int("train", train.Len()), zap.Int("held_out", test.Len()))
		fitTable = train
	}
	if err := p.Fit(fitTable); err != nil {
		return xerrors.Errorf("unable to fit: %w", err)
	}
	schema, err := pipeline.SchemaOf(enc)
	if err != nil {
		return err
	}

	encoded, err := transform(p, table, schema.Width(), cfg.Output.BatchSize)
	if err != nil {
		return xerrors.Errorf("unable to transform: %w", err)
	}
	r, c := encoded.Dims()
	lgr.Info("encoded", zap.Int("rows", r), zap.Int("features", c))

	if cfg.Output.Path == "" {
		previewData(stdout, schema.FeatureNames, encoded, preview)
		return nil
	}
	out, err := os.Create(cfg.Output.Path)
	if err != nil {
		return xerrors.Errorf("unable to create output file: %w", err)
	}
	defer out.Close()
	if err := data.WriteMatrixCSV(out, schema.FeatureNames, encoded); err != nil {
		return err
	}
	lgr.Info("encoded data saved", zap.String("path", cfg.Output.Path))
	return nil
}

// transform runs the fitted pipeline over the whole table, or over row
// batches copied into one preallocated matrix.
func transform(p *pipeline.Pipeline[*mat.Dense], table core.Table, width, batchSize int) (*mat.Dense, error) {
	if batchSize <= 0 {
		return p.Transform(table)
	}
	batches, err := data.Batches(table, batchSize)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(table.Len(), width, nil)
	row := 0
	for i, b := range batches {
		m, err := p.Transform(b)
		if err != nil {
			return nil, xerrors.Errorf("batch %d: %w", i, err)
		}
		r, c := m.Dims()
		if c != width {
			return nil, xerrors.Errorf("batch %d has %d columns, expected %d", i, c, width)
		}
		out.Slice(row, row+r, 0, width).(*mat.Dense).Copy(m)
		row += r
	}
	return out, nil
}

// previewData prints the first n rows with headers.
func previewData(w io.Writer, headers []string, m mat.Matrix, n int) {
	r, c := m.Dims()
	n = min(n, r)
	for _, h := range headers {
		fmt.Fprintf(w, "%-15s", h)
	}
	fmt.Fprintln(w)
	for i := range n {
		for j := range c {
			fmt.Fprintf(w, "%-15.1f", m.At(i, j))
		}
		fmt.Fprintln(w)
	}
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
