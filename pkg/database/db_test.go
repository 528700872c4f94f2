package database

import (
	"reflect"
	"testing"

	"cellar-registry/internal/models"
)

func TestLikeClauses(t *testing.T) {
	where, args := likeClauses("name", []string{"chateau", "margaux"})
	if where != "(name LIKE ? OR name LIKE ?)" {
		t.Fatalf("where = %q", where)
	}
	want := []interface{}{"%chateau%", "%margaux%"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args = %v", args)
	}
}

func TestLikeClausesSkipsEmpty(t *testing.T) {
	where, args := likeClauses("name", []string{"", "barolo", ""})
	if where != "(name LIKE ?)" || len(args) != 1 {
		t.Fatalf("where = %q, args = %v", where, args)
	}
}

func TestLikeClausesNoTokens(t *testing.T) {
	where, args := likeClauses("name", nil)
	if where != "" || args != nil {
		t.Fatalf("expected empty clause, got %q %v", where, args)
	}
}

func TestWineScope(t *testing.T) {
	id := int64(7)
	name := "Krug"

	sqlPart, args := wineScope(models.ProducerScope{ProducerID: &id})
	if sqlPart != " AND w.producer_id = ?" || args[0] != id {
		t.Fatalf("id scope: %q %v", sqlPart, args)
	}

	sqlPart, args = wineScope(models.ProducerScope{ProducerName: &name})
	if sqlPart != " AND p.name = ?" || args[0] != name {
		t.Fatalf("name scope: %q %v", sqlPart, args)
	}

	// Id wins when both are present.
	sqlPart, _ = wineScope(models.ProducerScope{ProducerID: &id, ProducerName: &name})
	if sqlPart != " AND w.producer_id = ?" {
		t.Fatalf("both set: %q", sqlPart)
	}

	sqlPart, args = wineScope(models.ProducerScope{})
	if sqlPart != "" || args != nil {
		t.Fatalf("empty scope: %q %v", sqlPart, args)
	}
}
