// Package bridge defines the typed message protocol between the panel
// engine and the backend host. Outbound requests are fire-and-forget;
// inbound events arrive independently and are matched by type only.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Request is an outbound message to the backend. The concrete types below
// form the complete request vocabulary.
type Request interface {
	requestType() string
}

// ListOrgs asks for the authenticated org list.
type ListOrgs struct{}

// ListMetadataTypes asks for the metadata types available in an org.
type ListMetadataTypes struct {
	Username string `json:"username"`
}

// ListPackages asks for the installed package namespaces in an org.
type ListPackages struct {
	Username string `json:"username"`
}

// QueryMetadata runs a metadata query with server-side parameters.
type QueryMetadata struct {
	Username        string `json:"username"`
	QueryMode       string `json:"queryMode"`
	MetadataType    string `json:"metadataType"`
	MetadataName    string `json:"metadataName"`
	PackageFilter   string `json:"packageFilter"`
	LastUpdatedBy   string `json:"lastUpdatedBy"`
	DateFrom        string `json:"dateFrom"`
	DateTo          string `json:"dateTo"`
	CheckLocalFiles bool   `json:"checkLocalFiles"`
}

// RetrieveItem identifies one item in a retrieval request.
type RetrieveItem struct {
	MemberType string `json:"memberType"`
	MemberName string `json:"memberName"`
	Deleted    bool   `json:"deleted"`
}

// RetrieveMetadata retrieves a single item into the local package.
type RetrieveMetadata struct {
	Username     string `json:"username"`
	LocalPackage string `json:"localPackage"`
	MemberType   string `json:"memberType"`
	MemberName   string `json:"memberName"`
	Deleted      bool   `json:"deleted"`
}

// RetrieveSelectedMetadata retrieves a batch of selected items.
type RetrieveSelectedMetadata struct {
	Username     string         `json:"username"`
	LocalPackage string         `json:"localPackage"`
	Metadata     []RetrieveItem `json:"metadata"`
}

// OpenMetadataFile asks the host to open an item's local file.
type OpenMetadataFile struct {
	MetadataType string `json:"metadataType"`
	MetadataName string `json:"metadataName"`
}

// OpenRetrieveFolder asks the host to reveal the retrieve target folder.
type OpenRetrieveFolder struct{}

func (ListOrgs) requestType() string                 { return "listOrgs" }
func (ListMetadataTypes) requestType() string        { return "listMetadataTypes" }
func (ListPackages) requestType() string             { return "listPackages" }
func (QueryMetadata) requestType() string            { return "queryMetadata" }
func (RetrieveMetadata) requestType() string         { return "retrieveMetadata" }
func (RetrieveSelectedMetadata) requestType() string { return "retrieveSelectedMetadata" }
func (OpenMetadataFile) requestType() string         { return "openMetadataFile" }
func (OpenRetrieveFolder) requestType() string       { return "openRetrieveFolder" }

// Encode renders a request as a flat JSON object carrying its type tag and
// a fresh correlation ID. Requests and responses are matched by type only
// today; the correlation ID travels as a trace handle so a future backend
// can echo it back.
func Encode(req Request) ([]byte, string, error) {
	fields, err := json.Marshal(req)
	if err != nil {
		return nil, "", fmt.Errorf("encoding %s: %w", req.requestType(), err)
	}

	envelope := make(map[string]any)
	if err := json.Unmarshal(fields, &envelope); err != nil {
		return nil, "", fmt.Errorf("encoding %s: %w", req.requestType(), err)
	}
	id := uuid.NewString()
	envelope["type"] = req.requestType()
	envelope["correlationId"] = id

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, "", fmt.Errorf("encoding %s: %w", req.requestType(), err)
	}
	return data, id, nil
}
