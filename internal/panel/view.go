package panel

import (
	"context"
	"time"

	"github.com/mwhitby/metabrowse/internal/bridge"
	"github.com/mwhitby/metabrowse/internal/domain/criteria"
	"github.com/mwhitby/metabrowse/internal/domain/filter"
	"github.com/mwhitby/metabrowse/internal/domain/metadata"
)

// SortState remembers the active sort so it can be reapplied whenever the
// visible set is recomputed.
type SortState struct {
	Field     string           `json:"field"`
	Direction filter.Direction `json:"direction"`
}

// View is an immutable snapshot of the panel state for rendering. The
// controller hands a fresh View to the listener after every transition.
type View struct {
	Criteria criteria.Snapshot `json:"criteria"`

	Orgs          []bridge.Org `json:"orgs"`
	MetadataTypes []string     `json:"metadataTypes"`
	Packages      []string     `json:"packages"`

	Visible      []metadata.Record `json:"visible"`
	SelectedRows []metadata.Record `json:"selectedRows"`
	SelectedKeys []string          `json:"selectedKeys"`
	Sort         SortState         `json:"sort"`

	CanSearch       bool   `json:"canSearch"`
	SearchPerformed bool   `json:"searchPerformed"`
	Querying        bool   `json:"querying"`
	Retrieving      bool   `json:"retrieving"`
	QueryError      string `json:"queryError,omitempty"`

	CheckLocalAvailable bool     `json:"checkLocalAvailable"`
	LocalPackage        string   `json:"localPackage,omitempty"`
	LocalPackageOptions []string `json:"localPackageOptions,omitempty"`

	Images map[string]string `json:"images,omitempty"`

	// SearchActionOutOfView is the layout signal behind the floating
	// search hint: true when the primary action is scrolled out of view.
	SearchActionOutOfView bool `json:"searchActionOutOfView"`
}

// Listener receives a state snapshot after every transition. The
// controller invokes it outside its own lock, so a listener may call back
// into the controller.
type Listener func(View)

// LayoutObserver is the view layer's layout-change capability. The core
// only needs the boolean; it never measures layout itself.
type LayoutObserver interface {
	PrimaryActionOutOfView() bool
}

// QueryLogEntry is one remembered query execution.
type QueryLogEntry struct {
	OrgUsername   string    `json:"orgUsername"`
	Mode          string    `json:"queryMode"`
	MetadataType  string    `json:"metadataType"`
	PackageFilter string    `json:"packageFilter"`
	ResultCount   int       `json:"resultCount"`
	RanAt         time.Time `json:"ranAt"`
}

// QueryLog persists query executions for the recent-queries surface.
type QueryLog interface {
	Record(ctx context.Context, entry QueryLogEntry) error
	Recent(ctx context.Context, orgUsername string, limit int) ([]QueryLogEntry, error)
}
