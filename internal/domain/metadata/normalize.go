package metadata

import (
	"fmt"
	"strings"
	"time"
)

// RawRecord is the wire shape of a query result row. The backend is not
// consistent about it: the author name arrives either nested under
// lastModifiedBy or flat as lastModifiedByName, field-name casing varies,
// and changeOperation may be absent. Normalization here is the only place
// raw backend shapes are translated into Record.
type RawRecord struct {
	MemberType         string     `json:"memberType"`
	MemberName         string     `json:"memberName"`
	LastModifiedDate   string     `json:"lastModifiedDate"`
	LastModifiedBy     *rawAuthor `json:"lastModifiedBy"`
	LastModifiedByName string     `json:"lastModifiedByName"`
	ChangeOperation    string     `json:"changeOperation"`
	LocalFileExists    *bool      `json:"localFileExists"`
}

type rawAuthor struct {
	Name string `json:"name"`
}

// backend timestamps arrive in one of these layouts
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Normalize converts a raw backend row into a Record, computing the
// presentation fields. Unparseable timestamps become the zero time and an
// unrecognized change operation defaults to Modified.
func Normalize(raw RawRecord) Record {
	rec := Record{
		Type:      raw.MemberType,
		Name:      raw.MemberName,
		Operation: parseOperation(raw.ChangeOperation),
		LocalFile: raw.LocalFileExists,
	}

	rec.LastModifiedBy = raw.LastModifiedByName
	if rec.LastModifiedBy == "" && raw.LastModifiedBy != nil {
		rec.LastModifiedBy = raw.LastModifiedBy.Name
	}

	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw.LastModifiedDate); err == nil {
			rec.LastModifiedDate = ts
			break
		}
	}

	rec.DocURL = docURL(rec.Type)
	rec.Title = recordTitle(rec)
	return rec
}

// NormalizeSet converts a full query result into a canonical set. The
// backend does not guarantee key uniqueness, so the last-seen record for a
// key wins; it keeps the slot of the first occurrence to preserve order.
func NormalizeSet(raw []RawRecord) []Record {
	records := make([]Record, 0, len(raw))
	slots := make(map[string]int, len(raw))
	for _, r := range raw {
		rec := Normalize(r)
		if i, ok := slots[rec.Key()]; ok {
			records[i] = rec
			continue
		}
		slots[rec.Key()] = len(records)
		records = append(records, rec)
	}
	return records
}

func parseOperation(value string) ChangeOperation {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "created":
		return OpCreated
	case "deleted":
		return OpDeleted
	default:
		return OpModified
	}
}

// well-known developer doc pages per metadata type
var docPages = map[string]string{
	"ApexClass":     "apex_class",
	"ApexTrigger":   "apex_trigger",
	"ApexPage":      "apex_page",
	"CustomObject":  "custom_object",
	"CustomField":   "custom_field",
	"Flow":          "flow",
	"Layout":        "layout",
	"PermissionSet": "permission_set",
}

func docURL(memberType string) string {
	page, ok := docPages[memberType]
	if !ok {
		return ""
	}
	return fmt.Sprintf("https://developer.salesforce.com/docs/atlas.en-us.api_meta.meta/api_meta/meta_%s.htm", page)
}

func recordTitle(rec Record) string {
	if rec.LastModifiedBy == "" {
		return fmt.Sprintf("%s %s", rec.Type, rec.Name)
	}
	return fmt.Sprintf("%s %s, last modified by %s", rec.Type, rec.Name, rec.LastModifiedBy)
}
