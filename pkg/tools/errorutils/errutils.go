package errorutils

import "fmt"

// ProtocolIOError indicates an inconsistent or incomplete protocol file.
// It should not be used for general IO errors.
type ProtocolIOError struct {
	Path   string
	Reason string
}

func (e *ProtocolIOError) Error() string {
	return fmt.Sprintf("protocol file %s: %s", e.Path, e.Reason)
}

// InsufficientProtocolError indicates that the protocol contains
// insufficient information for fitting a specific model, for example a
// missing column or not enough shells.
type InsufficientProtocolError struct {
	ModelName string
	Missing   string
}

func (e *InsufficientProtocolError) Error() string {
	return fmt.Sprintf("protocol insufficient for model %s: missing %s", e.ModelName, e.Missing)
}

// NoiseStdEstimationNotPossibleError is reported by a noise std estimator
// when the estimation routine cannot produce a value. Callers should treat
// it as a recoverable condition, not as a fatal error.
type NoiseStdEstimationNotPossibleError struct {
	Reason string
}

func (e *NoiseStdEstimationNotPossibleError) Error() string {
	return "noise std estimation not possible: " + e.Reason
}

// NoSuitableProfileError indicates that no registered batch profile could
// load subjects from the given directory.
type NoSuitableProfileError struct {
	Dir string
}

func (e *NoSuitableProfileError) Error() string {
	return "no suitable batch profile found for directory " + e.Dir
}

// SubjectNotFoundError indicates that a subject id used in a selection does
// not occur in the discovered subject list.
type SubjectNotFoundError struct {
	SubjectID string
}

func (e *SubjectNotFoundError) Error() string {
	return "subject not found: " + e.SubjectID
}

// CyclicCascadeError indicates that a cascade model directly or indirectly
// lists itself as a sub model.
type CyclicCascadeError struct {
	ModelName string
}

func (e *CyclicCascadeError) Error() string {
	return "cyclic cascade definition detected at model " + e.ModelName
}

// UnknownModelError indicates a model name that is not present in the
// model registry.
type UnknownModelError struct {
	ModelName string
}

func (e *UnknownModelError) Error() string {
	return "unknown model: " + e.ModelName
}
