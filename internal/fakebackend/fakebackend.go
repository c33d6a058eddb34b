// Package fakebackend is a canned stand-in for the CLI bridge subprocess.
// It answers panel requests synchronously with fixture events, which makes
// end-to-end tests deterministic and lets the server run without an org.
package fakebackend

import (
	"context"
	"sync"

	"github.com/mwhitby/metabrowse/internal/bridge"
	"github.com/mwhitby/metabrowse/internal/domain/metadata"
)

// Backend implements bridge.Sender and delivers responses through the
// supplied callback, mirroring the fire-and-forget shape of the real
// bridge: Send never returns response data.
type Backend struct {
	deliver func(bridge.Event)

	mu            sync.Mutex
	orgs          []bridge.Org
	selectedOrg   string
	metadataTypes []string
	packages      []string
	records       map[string][]metadata.RawRecord
	queryFailure  string
	requests      []bridge.Request
}

// New creates a backend with the default fixture org.
func New(deliver func(bridge.Event)) *Backend {
	return &Backend{
		deliver:       deliver,
		orgs:          []bridge.Org{{Username: "dev@example.com", Alias: "dev"}},
		selectedOrg:   "dev@example.com",
		metadataTypes: []string{"ApexClass", "ApexTrigger", "CustomObject", "Flow"},
		packages:      []string{"All", "Local", "acme"},
		records:       map[string][]metadata.RawRecord{},
	}
}

// SetOrgs replaces the fixture org list.
func (b *Backend) SetOrgs(orgs []bridge.Org, selected string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orgs = orgs
	b.selectedOrg = selected
}

// SetRecords sets the rows a QueryMetadata request returns for an org.
func (b *Backend) SetRecords(username string, records []metadata.RawRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[username] = records
}

// FailQueries makes every subsequent QueryMetadata answer with a
// QueryError carrying the given message. An empty message restores
// normal behavior.
func (b *Backend) FailQueries(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queryFailure = message
}

// Requests returns every request received so far, in order.
func (b *Backend) Requests() []bridge.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]bridge.Request(nil), b.requests...)
}

// Initialize delivers the channel-open event the real bridge sends first.
func (b *Backend) Initialize() {
	b.mu.Lock()
	ev := bridge.Initialize{
		Orgs:                append([]bridge.Org(nil), b.orgs...),
		SelectedOrgUsername: b.selectedOrg,
		MetadataTypes:       append([]string(nil), b.metadataTypes...),
		CheckLocalAvailable: true,
		LocalPackageOptions: []string{"force-app", "unpackaged"},
		DefaultLocalPackage: "force-app",
	}
	b.mu.Unlock()
	b.deliver(ev)
}

// Send answers a panel request with the matching canned event(s).
func (b *Backend) Send(ctx context.Context, req bridge.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	var events []bridge.Event
	switch req := req.(type) {
	case bridge.ListOrgs:
		events = append(events, bridge.ListOrgsResult{
			Orgs:                append([]bridge.Org(nil), b.orgs...),
			SelectedOrgUsername: b.selectedOrg,
		})
	case bridge.ListMetadataTypes:
		events = append(events, bridge.ListMetadataTypesResult{
			MetadataTypes: append([]string(nil), b.metadataTypes...),
		})
	case bridge.ListPackages:
		events = append(events, bridge.ListPackagesResult{
			Packages: append([]string(nil), b.packages...),
		})
	case bridge.QueryMetadata:
		if b.queryFailure != "" {
			events = append(events, bridge.QueryError{Message: b.queryFailure})
		} else {
			events = append(events, bridge.QueryResult{
				Records: append([]metadata.RawRecord(nil), b.records[req.Username]...),
			})
		}
	case bridge.RetrieveSelectedMetadata:
		events = append(events, retrievalEvents(req.Metadata)...)
	case bridge.RetrieveMetadata:
		events = append(events, retrievalEvents([]bridge.RetrieveItem{{
			MemberType: req.MemberType,
			MemberName: req.MemberName,
			Deleted:    req.Deleted,
		}})...)
	case bridge.OpenMetadataFile, bridge.OpenRetrieveFolder:
		// host-side actions have no response event
	}
	b.mu.Unlock()

	for _, ev := range events {
		b.deliver(ev)
	}
	return nil
}

func retrievalEvents(items []bridge.RetrieveItem) []bridge.Event {
	check := bridge.PostRetrieveLocalCheck{}
	for _, item := range items {
		file := bridge.ProcessedFile{Type: item.MemberType, Name: item.MemberName}
		if item.Deleted {
			check.DeletedFiles = append(check.DeletedFiles, file)
		} else {
			check.Files = append(check.Files, file)
		}
	}
	return []bridge.Event{
		bridge.RetrieveState{IsRetrieving: true},
		check,
		bridge.RetrieveState{IsRetrieving: false},
	}
}
