package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrPersistence       = errors.New("document persistence failed")
	ErrPipelineFailed    = errors.New("pipeline run failed")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrEmptyAnswer       = errors.New("agent produced no answer")
	ErrUnknownTask       = errors.New("unknown task")
	ErrUnknownAgent      = errors.New("unknown agent")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrInvalidTransition = errors.New("invalid run state transition")
	ErrNoProvider        = errors.New("no ai provider available")
)
