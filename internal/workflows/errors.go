package workflows

import "errors"

var (
	// ErrWorkflowNotFound is returned when no workflow is registered
	// for the requested job type.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrAssetNotFound is returned when the job references an asset
	// the registry doesn't have.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrNoVisualStream is returned when a thumbnail is requested for
	// an asset with nothing to render (audio-only or unclassified).
	ErrNoVisualStream = errors.New("asset has no visual stream")
)
