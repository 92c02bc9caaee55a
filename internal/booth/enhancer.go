package booth

import "fmt"

// Enhancer rewrites a photo in place with the booth's fixed adjustments.
type Enhancer interface {
	Enhance(path string) error
}

// FailurePolicy decides what a finish run does when one photo cannot be enhanced.
type FailurePolicy string

const (
	// FailAbort stops the finish run and returns the error.
	FailAbort FailurePolicy = "abort"
	// FailSkip records the failure and leaves the photo out of the upload.
	FailSkip FailurePolicy = "skip"
)

// ParseFailurePolicy maps a config value to a FailurePolicy. Empty means abort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", FailAbort:
		return FailAbort, nil
	case FailSkip:
		return FailSkip, nil
	default:
		return "", fmt.Errorf("unknown failure policy: %q", s)
	}
}
