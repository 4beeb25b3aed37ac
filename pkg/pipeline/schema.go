package pipeline

// Schema describes the structure of a dataset.
type Schema struct {
	FeatureNames []string
}

// FeatureNamer is a fitted stage that can name its output columns.
type FeatureNamer interface {
	FeatureNames() ([]string, error)
}

func SchemaOf(n FeatureNamer) (Schema, error) {
	names, err := n.FeatureNames()
	if err != nil {
		return Schema{}, err
	}
	return Schema{FeatureNames: names}, nil
}

// Width is the number of output columns.
func (s Schema) Width() int { return len(s.FeatureNames) }
