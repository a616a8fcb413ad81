package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	category := SeedCategory(t, pool, "Smoke Test")

	// Verify the row landed via a direct SELECT.
	var name string
	err := pool.QueryRow(
		context.Background(),
		`SELECT name FROM categories WHERE id = $1`,
		category.ID,
	).Scan(&name)
	if err != nil {
		t.Fatalf("expected category in DB, got error: %v", err)
	}

	if name != category.Name {
		t.Fatalf("expected name %q, got %q", category.Name, name)
	}
}
