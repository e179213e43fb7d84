package entities

type OutcomeKind string

const (
	OutcomeSingle  OutcomeKind = "single"
	OutcomeArchive OutcomeKind = "archive"
)

// BatchOutcome is the terminal value of one optimize batch.
// Results keep the input order; Archive is only set for OutcomeArchive.
type BatchOutcome struct {
	BatchID  string
	Kind     OutcomeKind
	Results  []TransformResult
	Archive  []byte
	Failures []ItemFailure
}

// Single returns the only result of a single-item outcome.
func (o *BatchOutcome) Single() (TransformResult, bool) {
	if o == nil || o.Kind != OutcomeSingle || len(o.Results) != 1 {
		return TransformResult{}, false
	}
	return o.Results[0], true
}

func (o *BatchOutcome) IsArchive() bool {
	return o != nil && o.Kind == OutcomeArchive
}
