package enrich

import "fmt"

// ValidationError reports an input that violates a schema precondition
// (empty catalog or universe, probability out of range, bad threshold).
// It is fatal to the run; no partial result is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IntegrationError reports an overlapping gene that could not be resolved
// against the supplied DEG table. It means the query set and the evidence
// source table have drifted out of sync, which is a caller bug, so the
// whole run fails rather than silently dropping the gene.
type IntegrationError struct {
	SetID  string
	GeneID string
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration: overlapping gene %s of set %s not found in DEG table", e.GeneID, e.SetID)
}
