package panel

import (
	"context"
	"time"

	"github.com/mwhitby/metabrowse/internal/bridge"
	"github.com/mwhitby/metabrowse/internal/domain/metadata"
)

// Apply reconciles one inbound backend event with panel state. Each event
// type updates exactly one slice of canonical state; query results and
// post-retrieve annotations additionally trigger a full filter
// recomputation. Responses carry no correlation to requests, so the
// last-applied response of a type wins.
func (c *Controller) Apply(ev bridge.Event) {
	var logEntry *QueryLogEntry

	c.mu.Lock()
	switch ev := ev.(type) {
	case bridge.Initialize:
		c.orgs = ev.Orgs
		c.metadataTypes = ev.MetadataTypes
		c.checkLocalAvailable = ev.CheckLocalAvailable
		c.localPackageOptions = ev.LocalPackageOptions
		c.localPackage = ev.DefaultLocalPackage
		if ev.SelectedOrgUsername != "" {
			c.crit.OrgUsername = ev.SelectedOrgUsername
		}

	case bridge.ImageResources:
		c.images = ev.Images

	case bridge.ListOrgsResult:
		c.orgs = ev.Orgs
		if ev.SelectedOrgUsername != "" && ev.SelectedOrgUsername != c.crit.OrgUsername {
			c.crit.OrgUsername = ev.SelectedOrgUsername
			c.resetQueryStateLocked()
		}

	case bridge.ListPackagesResult:
		c.packages = ev.Packages

	case bridge.ListMetadataTypesResult:
		c.metadataTypes = ev.MetadataTypes

	case bridge.QueryResult:
		c.querying = false
		c.queryErr = ""
		c.canonical = metadata.NormalizeSet(ev.Records)
		c.recomputeLocked()
		logEntry = &QueryLogEntry{
			OrgUsername:   c.crit.OrgUsername,
			Mode:          string(c.crit.Mode),
			MetadataType:  c.crit.MetadataType,
			PackageFilter: c.crit.PackageFilter,
			ResultCount:   len(c.canonical),
			RanAt:         time.Now().UTC(),
		}

	case bridge.QueryError:
		c.querying = false
		c.queryErr = ev.Message
		c.canonical = nil
		c.recomputeLocked()
		c.logger.Warn("query failed", "org", c.crit.OrgUsername, "error", ev.Message)

	case bridge.PostRetrieveLocalCheck:
		c.applyLocalCheckLocked(ev)
		c.recomputeLocked()

	case bridge.RetrieveState:
		c.retrieving = ev.IsRetrieving
	}
	view := c.viewLocked()
	c.mu.Unlock()

	if logEntry != nil && c.history != nil {
		if err := c.history.Record(context.Background(), *logEntry); err != nil {
			c.logger.Warn("recording query history", "error", err)
		}
	}
	c.notify(view)
}

// applyLocalCheckLocked marks retrieved files as existing locally and
// deleted files as gone, then removes both groups from the selection:
// a key the backend reports as processed is done, whatever the filter
// currently shows.
func (c *Controller) applyLocalCheckLocked(ev bridge.PostRetrieveLocalCheck) {
	exists := make(map[string]bool, len(ev.Files)+len(ev.DeletedFiles))
	processed := make([]string, 0, len(ev.Files)+len(ev.DeletedFiles))
	for _, f := range ev.Files {
		exists[f.Key()] = true
		processed = append(processed, f.Key())
	}
	for _, f := range ev.DeletedFiles {
		exists[f.Key()] = false
		processed = append(processed, f.Key())
	}

	for i := range c.canonical {
		if state, ok := exists[c.canonical[i].Key()]; ok {
			local := state
			c.canonical[i].LocalFile = &local
		}
	}
	c.sel.Remove(processed...)
}
