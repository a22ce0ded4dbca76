package study

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/hepfarm/studyctl/internal/model"
)

// memorySafetyFactor scales the largest input file's size into the
// per-task memory floor, covering in-memory expansion during
// processing. Tunable, not a contract.
const memorySafetyFactor = 1.4

// listInputs returns the analysis's candidate input files in sorted
// order, truncated to the first N when first > 0.
func listInputs(a model.AnalysisConfig, glob string, first int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(a.InputDir, glob))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", a.InputDir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", model.ErrNoInputFiles, glob, a.InputDir)
	}
	sort.Strings(matches)
	if first > 0 && first < len(matches) {
		matches = matches[:first]
	}
	return matches, nil
}

// memoryFloorMB computes the per-task memory floor from the largest
// input file.
func memoryFloorMB(files []string) (int, error) {
	var maxSize int64
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil {
			return 0, fmt.Errorf("stat %s: %w", f, err)
		}
		if fi.Size() > maxSize {
			maxSize = fi.Size()
		}
	}

	mb := float64(maxSize) / (1 << 20)
	floor := int(math.Ceil(mb * memorySafetyFactor))
	if floor < 1 {
		floor = 1
	}
	return floor, nil
}
