package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isquicha/desafio-softfocus/internal/logger"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), Config{Driver: "sqlite", DSN: ":memory:"}, logger.Nop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate error: %v", err)
	}
	return db
}

func TestUserStoreCreateAndFind(t *testing.T) {
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	user := &User{Username: "alice", Name: "Alice", Password: "$2a$04$hash"}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected assigned ID")
	}

	found, err := users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if found.ID != user.ID || found.Username != "alice" {
		t.Errorf("unexpected user: %+v", found)
	}

	if _, err := users.FindByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserStoreUniqueUsername(t *testing.T) {
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	if err := users.Create(ctx, &User{Username: "alice", Password: "h1"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	err := users.Create(ctx, &User{Username: "alice", Password: "h2"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestProdutorStoreCRUD(t *testing.T) {
	produtores := NewProdutorStore(openTestDB(t))
	ctx := context.Background()

	produtor := &ProdutorRural{Nome: "João", Email: "joao@example.com", CPF: "123456789"}
	if err := produtores.Create(ctx, produtor); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	all, err := produtores.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 producer, got %d", len(all))
	}

	// Partial update touches only the provided column.
	updated, err := produtores.Update(ctx, produtor.ID, map[string]any{"nome": "João Silva"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Nome != "João Silva" {
		t.Errorf("nome not updated: %q", updated.Nome)
	}
	if updated.Email != "joao@example.com" || updated.CPF != "123456789" {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	if err := produtores.Delete(ctx, produtor.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := produtores.Get(ctx, produtor.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestProdutorStoreUniqueCPF(t *testing.T) {
	produtores := NewProdutorStore(openTestDB(t))
	ctx := context.Background()

	if err := produtores.Create(ctx, &ProdutorRural{Nome: "A", Email: "a@example.com", CPF: "111111111"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	err := produtores.Create(ctx, &ProdutorRural{Nome: "B", Email: "b@example.com", CPF: "111111111"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestStoreUpdateAndDeleteMissing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := NewProdutorStore(db).Update(ctx, 42, map[string]any{"nome": "X"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if err := NewLavouraStore(db).Delete(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestPerdaStoreCreateWithReferences(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	produtor := &ProdutorRural{Nome: "A", Email: "a@example.com", CPF: "111111111"}
	if err := NewProdutorStore(db).Create(ctx, produtor); err != nil {
		t.Fatalf("Create produtor error: %v", err)
	}
	lavoura := &Lavoura{Latitude: -23.5, Longitude: -46.6, Tipo: "soja"}
	if err := NewLavouraStore(db).Create(ctx, lavoura); err != nil {
		t.Fatalf("Create lavoura error: %v", err)
	}

	perdas := NewPerdaStore(db)
	perda := &Perda{
		Data:            time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Evento:          EventoGeada,
		ProdutorRuralID: produtor.ID,
		LavouraID:       lavoura.ID,
	}
	if err := perdas.Create(ctx, perda); err != nil {
		t.Fatalf("Create perda error: %v", err)
	}

	got, err := perdas.Get(ctx, perda.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Evento != EventoGeada || got.ProdutorRuralID != produtor.ID || got.LavouraID != lavoura.ID {
		t.Errorf("unexpected perda: %+v", got)
	}
}

func TestEventoValid(t *testing.T) {
	tests := []struct {
		evento int
		want   bool
	}{
		{0, false},
		{EventoChuvaExcessiva, true},
		{EventoRaio, true},
		{7, false},
		{-1, false},
	}
	for _, tc := range tests {
		if got := EventoValid(tc.evento); got != tc.want {
			t.Errorf("EventoValid(%d) = %v, want %v", tc.evento, got, tc.want)
		}
	}
}
