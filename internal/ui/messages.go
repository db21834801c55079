package ui

import "panefm/internal/services"

type transferProgressMsg struct {
	operationID string
	update      services.ProgressUpdate
	ok          bool
}

type transferPreviewMsg struct {
	request services.BatchRequest
	preview services.ActionPreview
	err     error
}
