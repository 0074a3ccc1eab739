package pipeline

import (
	"errors"
	"fmt"
)

// Pipeline stage names, used to tag collaborator failures.
const (
	StageFeed       = "feed"
	StageEmbed      = "embed"
	StageIndexWrite = "index_write"
	StageIndexQuery = "index_query"
	StageStoreWrite = "store_write"
)

// User-correctable errors.
var (
	// ErrNoResults indicates the feed returned no papers for the topic.
	// Nothing was written.
	ErrNoResults = errors.New("no papers found")

	// ErrInvalidK indicates a result count outside the allowed range.
	ErrInvalidK = errors.New("k out of range")
)

// StageError wraps a collaborator failure with the pipeline stage that
// produced it, so ingestion-time inconsistency can be told apart from
// query-time unavailability.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageError wraps err with its originating stage.
func stageError(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// FailedStage returns the stage name of a StageError, or "" if err carries
// no stage.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// IsUserError returns true for errors the caller can correct (bad input,
// empty feed) as opposed to collaborator faults.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNoResults) || errors.Is(err, ErrInvalidK)
}
