package services

type OpKind string

const (
	OpCopy OpKind = "copy"
	OpMove OpKind = "move"
)

// BatchRequest is one user-initiated transfer. Sources are processed in
// order, each into Destination under its own base name.
type BatchRequest struct {
	Kind        OpKind
	Sources     []string
	Destination string
}

type Decision int

const (
	DecisionOverwrite Decision = iota
	DecisionSkip
	DecisionOverwriteAll
	DecisionSkipAll
	DecisionCancel
)

func (decision Decision) String() string {
	switch decision {
	case DecisionOverwrite:
		return "overwrite"
	case DecisionSkip:
		return "skip"
	case DecisionOverwriteAll:
		return "overwrite-all"
	case DecisionSkipAll:
		return "skip-all"
	case DecisionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}
