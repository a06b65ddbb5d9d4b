package models

import "errors"

var (
	ErrMissingCredential = errors.New("API key is required")
	ErrMissingInput      = errors.New("input is required")
	ErrInvalidOption     = errors.New("invalid option")
	ErrExternalCall      = errors.New("external call failed")
	ErrRender            = errors.New("failed to render result")
	ErrTurnInProgress    = errors.New("another question is still being answered")
	ErrNothingToExport   = errors.New("nothing to export yet")
	ErrNotFound          = errors.New("not found")
)
