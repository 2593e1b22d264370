package storeerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapAddsContextOnce(t *testing.T) {
	base := errors.New("disk I/O error")
	wrapped := Wrap(base, "create", "classes")

	var typed *Error
	if !errors.As(wrapped, &typed) {
		t.Fatalf("expected typed error, got %T", wrapped)
	}
	if typed.Op != "create" || typed.Table != "classes" {
		t.Errorf("context not attached: op=%q table=%q", typed.Op, typed.Table)
	}

	// Re-wrapping an already-typed error must return it unchanged.
	rewrapped := Wrap(wrapped, "update", "modules")
	if rewrapped != wrapped {
		t.Error("typed error was double-wrapped")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "create", "classes") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestChainRendering(t *testing.T) {
	inner := New(KindConstraintViolation, "insert", "methods", "duplicate key")
	mid := New(KindStorage, "createBatch", "methods", "chunk insert failed").WithCause(inner)
	outer := New(KindTransaction, "ingest", "", "run aborted").WithCause(mid)

	got := Chain(outer)
	want := "run aborted -> chunk insert failed -> duplicate key"
	if got != want {
		t.Errorf("Chain() = %q, want %q", got, want)
	}
}

func TestChainEndsOnForeignCause(t *testing.T) {
	foreign := errors.New("engine exploded")
	outer := New(KindStorage, "query", "packages", "query failed").WithCause(foreign)

	got := Chain(outer)
	want := "query failed -> engine exploded"
	if got != want {
		t.Errorf("Chain() = %q, want %q", got, want)
	}
}

func TestRootCauseFollowsOnlyTypedCauses(t *testing.T) {
	foreign := errors.New("sqlite: misuse")
	inner := New(KindSchema, "verify", "", "missing table").WithCause(foreign)
	outer := New(KindStorage, "open", "", "init failed").WithCause(inner)

	root := RootCause(outer)
	if root == nil {
		t.Fatal("expected a root cause")
	}
	if root.Kind != KindSchema {
		t.Errorf("root cause kind = %s, want %s", root.Kind, KindSchema)
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	nf := NotFound("retrieveById", "packages", "atlas:package:abc")
	wrapped := fmt.Errorf("caller context: %w", nf)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through fmt.Errorf wrapping")
	}
	if IsKind(wrapped, KindSchema) {
		t.Error("IsKind matched the wrong kind")
	}
}

func TestNoFieldsToUpdate(t *testing.T) {
	err := NoFieldsToUpdate("update", "modules")
	if !IsKind(err, KindNoFieldsToUpdate) {
		t.Error("expected NoFieldsToUpdate kind")
	}
	if err.Table != "modules" {
		t.Errorf("table = %q", err.Table)
	}
}
