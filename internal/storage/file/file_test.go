package file

import (
	"context"
	"encoding/json"
	"testing"

	"cashbook/internal/storage"
)

func TestLoadMissingKeyReturnsEmpty(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	doc, err := s.Load(context.Background(), storage.KeyEntries)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Version != storage.CurrentVersion || len(doc.Records) != 0 {
		t.Fatalf("expected empty current-version document, got %+v", doc)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	doc := storage.NewDocument([]json.RawMessage{
		json.RawMessage(`{"id":"1","amount":"150"}`),
		json.RawMessage(`{"id":"2","amount":"500"}`),
	})
	if err := s.Save(ctx, storage.KeyEntries, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, storage.KeyEntries)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != storage.CurrentVersion {
		t.Fatalf("version = %d, want %d", got.Version, storage.CurrentVersion)
	}
	if len(got.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(got.Records))
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	first := storage.NewDocument([]json.RawMessage{json.RawMessage(`{"id":"1"}`)})
	if err := s.Save(ctx, storage.KeyLoansGiven, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := storage.NewDocument(nil)
	if err := s.Save(ctx, storage.KeyLoansGiven, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, storage.KeyLoansGiven)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Records) != 0 {
		t.Fatalf("expected overwrite to empty, got %d records", len(got.Records))
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	doc := storage.NewDocument([]json.RawMessage{json.RawMessage(`{"id":"1"}`)})
	if err := s.Save(ctx, storage.KeyEntries, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, err := s.Load(ctx, storage.KeyLoansToPay)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(other.Records) != 0 {
		t.Fatal("collections must not leak into each other")
	}
}
