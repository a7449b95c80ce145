package domain

// Classification is the tri-state inter/intra-state supply determination.
// Unknown is a legitimate outcome, not an error; consumers must not collapse
// it into a boolean.
type Classification string

const (
	ClassificationInterState Classification = "inter_state"
	ClassificationIntraState Classification = "intra_state"
	ClassificationUnknown    Classification = "unknown"
)

// ReasonUnknown is the classification reason when no determination was possible.
const ReasonUnknown = "unknown"
