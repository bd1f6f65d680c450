package testsupport

import (
	"context"
	"testing"

	"astrofiler/internal/config"
	"astrofiler/internal/equipment"
)

// MustOpenEquipment opens an equipment.Store for tests and registers cleanup.
func MustOpenEquipment(t testing.TB, cfg *config.Config) *equipment.Store {
	t.Helper()

	store, err := equipment.Open(context.Background(), cfg.Paths.EquipmentDB)
	if err != nil {
		t.Fatalf("equipment.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddEquipment records an item for tests and returns it with its id.
func AddEquipment(t testing.TB, store *equipment.Store, kind equipment.Kind, name, detail string) equipment.Item {
	t.Helper()

	item, err := store.Add(context.Background(), equipment.Item{Kind: kind, Name: name, Detail: detail})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return item
}
