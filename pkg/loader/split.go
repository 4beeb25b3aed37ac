package loader

import (
	"math/rand"

	"golang.org/x/xerrors"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/core"
)

// TrainTestSplit splits the rows of t into train and test tables by ratio.
// Rows are shuffled with rng; a nil rng is seeded with 0.
func TrainTestSplit(t core.Table, testRatio float64, rng *rand.Rand) (train, test *core.Frame, err error) {
	if testRatio < 0 || testRatio >= 1 {
		return nil, nil, xerrors.Errorf("test ratio %v outside [0, 1)", testRatio)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	n := t.Len()
	indices := rng.Perm(n)
	nTest := int(float64(n) * testRatio)
	if test, err = core.Take(t, indices[:nTest]); err != nil {
		return nil, nil, err
	}
	if train, err = core.Take(t, indices[nTest:]); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
