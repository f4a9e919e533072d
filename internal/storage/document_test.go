package storage

import (
	"encoding/json"
	"testing"
)

func TestMigrateCurrentVersionIsNoop(t *testing.T) {
	doc := NewDocument([]json.RawMessage{json.RawMessage(`{"id":"1"}`)})
	got, err := Migrate(KeyEntries, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != CurrentVersion || len(got.Records) != 1 {
		t.Fatalf("document changed: %+v", got)
	}
}

func TestMigrateRefusesFutureVersion(t *testing.T) {
	doc := Document{Version: CurrentVersion + 1}
	if _, err := Migrate(KeyEntries, doc); err == nil {
		t.Fatal("expected error for future version")
	}
}

func TestMigrateAppliesRegisteredSteps(t *testing.T) {
	// A stale version-0 document for a synthetic collection gets upgraded by
	// the registered step.
	key := "test_collection"
	RegisterMigration(key, func(d Document) (Document, error) {
		d.Records = append(d.Records, json.RawMessage(`{"added":true}`))
		return d, nil
	})

	got, err := Migrate(key, Document{Version: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != CurrentVersion {
		t.Fatalf("version = %d, want %d", got.Version, CurrentVersion)
	}
	if len(got.Records) != 1 {
		t.Fatalf("expected migrated record, got %d", len(got.Records))
	}
}

func TestMarshalUnmarshalRecords(t *testing.T) {
	type rec struct {
		ID string `json:"id"`
	}
	raw, err := MarshalRecords([]rec{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalRecords[rec](NewDocument(raw))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 || back[0].ID != "a" || back[1].ID != "b" {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
