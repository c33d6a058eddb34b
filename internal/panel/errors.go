package panel

import "errors"

var (
	// ErrNothingSelected indicates a retrieval was requested with an empty selection.
	ErrNothingSelected = errors.New("no items selected")
	// ErrUnknownItem indicates the item key is not in the canonical result set.
	ErrUnknownItem = errors.New("item not in current results")
)
