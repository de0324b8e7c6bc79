package annotate

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidFrequencyError reports an alternate frequency that cannot be
// computed from the observation counts.
type InvalidFrequencyError struct {
	AO     string
	DP     string
	Reason string
}

func (e *InvalidFrequencyError) Error() string {
	return fmt.Sprintf("invalid alternate frequency (ao=%q, dp=%q): %s", e.AO, e.DP, e.Reason)
}

// AlternateFrequency computes sum(ao) / dp. ao may list one count per
// alternate allele, comma-separated. Counts and depth are non-negative
// integers and depth must be positive.
func AlternateFrequency(ao, dp string) (float64, error) {
	depth, err := strconv.ParseInt(strings.TrimSpace(dp), 10, 64)
	if err != nil {
		return 0, &InvalidFrequencyError{AO: ao, DP: dp, Reason: "non-integer depth"}
	}
	if depth <= 0 {
		return 0, &InvalidFrequencyError{AO: ao, DP: dp, Reason: "non-positive depth"}
	}

	var sum int64
	for _, c := range strings.Split(ao, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(c), 10, 64)
		if err != nil {
			return 0, &InvalidFrequencyError{AO: ao, DP: dp, Reason: "non-integer alternate count"}
		}
		if n < 0 {
			return 0, &InvalidFrequencyError{AO: ao, DP: dp, Reason: "negative alternate count"}
		}
		sum += n
	}
	return float64(sum) / float64(depth), nil
}

// FormatFrequency renders a frequency with the shortest exact decimal
// representation, keeping a trailing ".0" for whole numbers.
func FormatFrequency(af float64) string {
	s := strconv.FormatFloat(af, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// CladeDefining returns "True" when af exceeds threshold and "False"
// otherwise. Single-genome runs yield "n/a".
func CladeDefining(af, threshold float64, sampleSize string) string {
	if sampleSize == "1" {
		return NotAvailable
	}
	if af > threshold {
		return "True"
	}
	return "False"
}
