package presets

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"equilibrio-api/models"
	"equilibrio-api/storage"
)

func newTestService() (*Service, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return NewService(store), store
}

func sampleFilter() models.StockFilter {
	f := models.DefaultStockFilter()
	f.SearchTerm = "tech"
	f.Sectors = []string{"Technology"}
	f.RSIMax = 30
	f.EquilibriumZone = []string{"discount"}
	return f
}

func TestActiveFilterDefaultsWhenAbsent(t *testing.T) {
	svc, _ := newTestService()
	got := svc.ActiveFilter(context.Background())
	if !reflect.DeepEqual(got, models.DefaultStockFilter()) {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestActiveFilterRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	want := sampleFilter()
	svc.SetActiveFilter(ctx, want)
	got := svc.ActiveFilter(ctx)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}

	reset := svc.ResetActiveFilter(ctx)
	if !reflect.DeepEqual(reset, models.DefaultStockFilter()) {
		t.Errorf("reset should return defaults, got %+v", reset)
	}
	if got := svc.ActiveFilter(ctx); !reflect.DeepEqual(got, models.DefaultStockFilter()) {
		t.Errorf("mirror should be cleared, got %+v", got)
	}
}

func TestActiveFilterCorruptFallsBack(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	store.Set(ctx, ActiveFilterKey, "{not json")
	got := svc.ActiveFilter(ctx)
	if !reflect.DeepEqual(got, models.DefaultStockFilter()) {
		t.Errorf("corrupt mirror should fall back to defaults, got %+v", got)
	}
}

func TestSavePresetRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	want := sampleFilter()
	saved, err := svc.Save(ctx, "Discount hunters", "oversold in the discount zone", want)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() || !saved.CreatedAt.Equal(saved.UpdatedAt) {
		t.Errorf("bad generated fields: %+v", saved)
	}

	loaded, err := svc.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Filters, want) {
		t.Errorf("loaded criteria differ: got %+v, want %+v", loaded.Filters, want)
	}
}

func TestSavePresetValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Save(ctx, "  ", "", models.DefaultStockFilter()); !errors.Is(err, models.ErrInvalidPreset) {
		t.Errorf("blank name should be rejected, got %v", err)
	}

	degenerate := models.DefaultStockFilter()
	degenerate.RSIMin = 80
	degenerate.RSIMax = 20
	if _, err := svc.Save(ctx, "bad", "", degenerate); !errors.Is(err, models.ErrInvalidPreset) {
		t.Errorf("degenerate range should be rejected, got %v", err)
	}
	if got := svc.List(ctx); len(got) != 0 {
		t.Errorf("rejected saves must not mutate the list, got %d entries", len(got))
	}
}

func TestListKeepsInsertionOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		if _, err := svc.Save(ctx, name, "", models.DefaultStockFilter()); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	list := svc.List(ctx)
	if len(list) != len(names) {
		t.Fatalf("expected %d presets, got %d", len(names), len(list))
	}
	for i, name := range names {
		if list[i].Name != name {
			t.Errorf("position %d: got %s, want %s", i, list[i].Name, name)
		}
	}
}

func TestUpdatePreset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	saved, _ := svc.Save(ctx, "old name", "old", models.DefaultStockFilter())

	newFilters := sampleFilter()
	updated, err := svc.Update(ctx, saved.ID, "new name", "new", newFilters)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "new name" || !reflect.DeepEqual(updated.Filters, newFilters) {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("createdAt must not change on update")
	}
	if updated.UpdatedAt.Before(saved.UpdatedAt) {
		t.Errorf("updatedAt should be refreshed")
	}

	if _, err := svc.Update(ctx, "missing", "x", "", newFilters); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestDeletePreset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Save(ctx, "keep", "", models.DefaultStockFilter())
	b, _ := svc.Save(ctx, "drop", "", models.DefaultStockFilter())

	svc.Delete(ctx, b.ID)
	list := svc.List(ctx)
	if len(list) != 1 || list[0].ID != a.ID {
		t.Errorf("unexpected list after delete: %+v", list)
	}

	// Unknown id is a no-op.
	svc.Delete(ctx, "missing")
	if got := svc.List(ctx); len(got) != 1 {
		t.Errorf("delete of unknown id changed the list: %+v", got)
	}
}

func TestApplyPresetWritesMirror(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	want := sampleFilter()
	saved, _ := svc.Save(ctx, "apply me", "", want)

	got, err := svc.Apply(ctx, saved.ID)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("apply returned %+v, want %+v", got, want)
	}
	if active := svc.ActiveFilter(ctx); !reflect.DeepEqual(active, want) {
		t.Errorf("mirror not updated: %+v", active)
	}

	if _, err := svc.Apply(ctx, "missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestCorruptPresetListTreatedAsEmpty(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	store.Set(ctx, PresetsKey, "[{broken")
	if got := svc.List(ctx); len(got) != 0 {
		t.Errorf("corrupt list should read as empty, got %+v", got)
	}

	// And saving on top of the corrupt value starts a fresh list.
	if _, err := svc.Save(ctx, "fresh", "", models.DefaultStockFilter()); err != nil {
		t.Fatalf("save after corruption failed: %v", err)
	}
	if got := svc.List(ctx); len(got) != 1 {
		t.Errorf("expected fresh single-entry list, got %+v", got)
	}
}
