package mcp

import (
	"errors"
	"fmt"

	"github.com/mwhitby/metabrowse/internal/domain/criteria"
	"github.com/mwhitby/metabrowse/internal/panel"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, criteria.ErrNoOrgSelected):
		return &APIError{Code: "NO_ORG_SELECTED", Message: "no org selected", RecoveryHint: "Call select_org first (list_orgs shows the choices)"}
	case errors.Is(err, criteria.ErrTypeRequired):
		return &APIError{Code: "TYPE_REQUIRED", Message: "AllMetadata mode requires a concrete metadata type", RecoveryHint: "Set metadata_type via set_filters before run_query"}
	case errors.Is(err, panel.ErrNothingSelected):
		return &APIError{Code: "NOTHING_SELECTED", Message: "no rows selected", RecoveryHint: "Call set_selection with row keys first"}
	case errors.Is(err, panel.ErrUnknownItem):
		return &APIError{Code: "UNKNOWN_ITEM", Message: "no result row with that key", RecoveryHint: "Use keys from get_results; the key format is type::name"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
