package profiler

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/kscope-ml/kscope/internal/tensor"
)

// CheckComputationForErrors scans a kernel output for numeric corruption.
//
// It returns true iff dtype is a floating-point type and at least one value
// is NaN or not finite. Non-float dtypes return false immediately without
// scanning, since only floating-point results can encode NaN/Infinity.
// The first bad value is reported as a warning naming the kernel that
// produced it; scanning stops at that first hit. Corruption is a diagnostic
// concern, never an error: callers keep running.
func CheckComputationForErrors(vals []float64, dtype tensor.DataType, name string) bool {
	if !dtype.IsFloat() {
		// Only floating point values can be NaN or Inf.
		return false
	}

	for _, num := range vals {
		if math.IsNaN(num) || math.IsInf(num, 0) {
			logrus.Warnf("found %v in the result of kernel %q", num, name)
			return true
		}
	}

	return false
}
