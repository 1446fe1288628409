package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"fipe-web/domain"
)

func entry(model string) domain.HistoryEntry {
	return domain.NewHistoryEntry(domain.VehicleCars, domain.PriceRecord{
		Price: "R$ 10.000,00",
		Brand: "Fiat",
		Model: model,
		Year:  "2014",
		Fuel:  "Gasolina",
	})
}

func TestHistoryMemory_KeepsInsertionOrder(t *testing.T) {
	repo := NewHistoryRepositoryMemory(10)
	ctx := context.Background()

	for _, m := range []string{"Uno", "Palio", "Strada"} {
		if err := repo.Append(ctx, entry(m)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, m := range []string{"Uno", "Palio", "Strada"} {
		if got[i].Model != m {
			t.Errorf("entry %d: expected %s, got %s", i, m, got[i].Model)
		}
	}
}

func TestHistoryMemory_EvictsOldest(t *testing.T) {
	repo := NewHistoryRepositoryMemory(2)
	ctx := context.Background()

	for _, m := range []string{"Uno", "Palio", "Strada"} {
		_ = repo.Append(ctx, entry(m))
	}

	got, _ := repo.List(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Model != "Palio" || got[1].Model != "Strada" {
		t.Errorf("expected [Palio Strada], got [%s %s]", got[0].Model, got[1].Model)
	}
}

func TestHistoryMemory_ListIsACopy(t *testing.T) {
	repo := NewHistoryRepositoryMemory(2)
	ctx := context.Background()
	_ = repo.Append(ctx, entry("Uno"))

	got, _ := repo.List(ctx)
	got[0].Model = "changed"

	again, _ := repo.List(ctx)
	if again[0].Model != "Uno" {
		t.Errorf("List must not expose internal storage")
	}
}

func TestHistoryMemory_ConcurrentAppend(t *testing.T) {
	repo := NewHistoryRepositoryMemory(1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Append(ctx, entry(fmt.Sprintf("m%d", i)))
		}(i)
	}
	wg.Wait()

	if repo.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", repo.Len())
	}
}
