package storage

import (
	"encoding/json"
	"fmt"
)

// CurrentVersion is the schema version new documents are written with.
const CurrentVersion = 1

// Document is the persisted form of one collection: a schema version plus the
// raw records. Versioning from day one keeps old on-disk data readable when
// fields change later.
type Document struct {
	Version int               `json:"version"`
	Records []json.RawMessage `json:"records"`
}

// NewDocument builds a current-version document from marshalled records.
func NewDocument(records []json.RawMessage) Document {
	return Document{Version: CurrentVersion, Records: records}
}

// Empty returns the document a Load yields for a never-saved key.
func Empty() Document {
	return Document{Version: CurrentVersion}
}

// Migration upgrades a document by exactly one version step.
type Migration func(Document) (Document, error)

// migrations maps a collection key to its ordered upgrade steps. Step i
// upgrades version i to i+1. None are registered yet; the hook exists so a
// future vocabulary or field change has somewhere to live.
var migrations = map[string][]Migration{}

// RegisterMigration appends an upgrade step for a collection.
func RegisterMigration(key string, m Migration) {
	migrations[key] = append(migrations[key], m)
}

// Migrate brings a loaded document up to CurrentVersion, applying any
// registered steps in order. Documents from the future are refused rather
// than silently misread.
func Migrate(key string, doc Document) (Document, error) {
	if doc.Version > CurrentVersion {
		return doc, fmt.Errorf("collection %s: version %d is newer than supported %d", key, doc.Version, CurrentVersion)
	}
	steps := migrations[key]
	for doc.Version < CurrentVersion {
		idx := doc.Version
		if idx < 0 || idx >= len(steps) {
			return doc, fmt.Errorf("collection %s: no migration from version %d", key, doc.Version)
		}
		next, err := steps[idx](doc)
		if err != nil {
			return doc, fmt.Errorf("collection %s: migrate from version %d: %w", key, doc.Version, err)
		}
		next.Version = doc.Version + 1
		doc = next
	}
	return doc, nil
}

// MarshalRecords is a helper for ledgers: marshal a slice of records into the
// raw form a Document carries.
func MarshalRecords[T any](records []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(records))
	for i, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal record %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// UnmarshalRecords decodes every raw record in a document into T.
func UnmarshalRecords[T any](doc Document) ([]T, error) {
	out := make([]T, 0, len(doc.Records))
	for i, raw := range doc.Records {
		var r T
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("unmarshal record %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
