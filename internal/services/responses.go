package services

// ProgressUpdate is one entry of a batch's progress stream. Empty strings mean
// absent. A Conflict update is never Done and never carries an Error; a Done
// update is the last one the batch emits.
type ProgressUpdate struct {
	Processed int
	Total     int
	Message   string
	Done      bool
	Error     string
	Conflict  string
}

func (update ProgressUpdate) Failed() bool {
	return update.Done && update.Error != ""
}

type ActionPreview struct {
	Kind        OpKind
	Sources     []string
	Destination string
	TotalFiles  int
	TotalDirs   int
	TotalBytes  int64
	Samples     []string
	Conflicts   []string
	Warnings    []string
}
