package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mwhitby/metabrowse/internal/domain/metadata"
)

// ErrUnknownEvent indicates an inbound message with an unrecognized type tag.
var ErrUnknownEvent = errors.New("unknown event type")

type envelope struct {
	Type string `json:"type"`
}

// Decode parses one inbound message into its typed event. Payloads are
// treated defensively: missing arrays decode to empty slices and missing
// booleans to false, so partial or evolving payloads never fail the panel.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding event envelope: %w", err)
	}

	switch env.Type {
	case "initialize":
		var ev Initialize
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		ev.Orgs = orEmpty(ev.Orgs)
		ev.MetadataTypes = orEmpty(ev.MetadataTypes)
		ev.LocalPackageOptions = orEmpty(ev.LocalPackageOptions)
		return ev, nil
	case "imageResources":
		var ev ImageResources
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		if ev.Images == nil {
			ev.Images = map[string]string{}
		}
		return ev, nil
	case "listOrgsResults":
		var ev ListOrgsResult
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		ev.Orgs = orEmpty(ev.Orgs)
		return ev, nil
	case "listPackagesResults":
		var ev ListPackagesResult
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		ev.Packages = orEmpty(ev.Packages)
		return ev, nil
	case "listMetadataTypesResults":
		var ev ListMetadataTypesResult
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		ev.MetadataTypes = orEmpty(ev.MetadataTypes)
		return ev, nil
	case "queryResults":
		var ev QueryResult
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		if ev.Records == nil {
			ev.Records = []metadata.RawRecord{}
		}
		return ev, nil
	case "queryError":
		var ev QueryError
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		return ev, nil
	case "postRetrieveLocalCheck":
		var ev PostRetrieveLocalCheck
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		ev.Files = orEmpty(ev.Files)
		ev.DeletedFiles = orEmpty(ev.DeletedFiles)
		return ev, nil
	case "retrieveState":
		var ev RetrieveState
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
