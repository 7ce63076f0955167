package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
)

func newLot(no string, sauda primitive.ObjectID) *models.Lot {
	return &models.Lot{LotNo: no, Sauda: sauda}
}

func TestStore_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.Lot]("lot_no")

	net := 1000.0
	lot := newLot("L-1", primitive.NewObjectID())
	lot.NetAmount = &net

	if err := store.Insert(ctx, lot); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if lot.ID.IsZero() {
		t.Fatal("Expected Insert to assign an id")
	}
	if lot.CreatedAt.IsZero() || !lot.CreatedAt.Equal(lot.UpdatedAt) {
		t.Errorf("Expected matching createdAt/updatedAt, got %v and %v", lot.CreatedAt, lot.UpdatedAt)
	}

	found, err := store.FindByID(ctx, lot.ID.Hex())
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.LotNo != "L-1" || found.NetAmount == nil || *found.NetAmount != 1000 {
		t.Errorf("Expected stored lot L-1 with net 1000, got %+v", found)
	}

	// Mutating the returned copy must not change the stored record.
	*found.NetAmount = 1
	again, _ := store.FindByID(ctx, lot.ID.Hex())
	if *again.NetAmount != 1000 {
		t.Errorf("Expected stored net 1000, got %v", *again.NetAmount)
	}
}

func TestStore_FindByID_NotFound(t *testing.T) {
	store := NewStore[models.Lot]("lot_no")

	for _, id := range []string{"not-an-id", primitive.NewObjectID().Hex(), ""} {
		if _, err := store.FindByID(context.Background(), id); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("FindByID(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestStore_UniqueKey(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.Lot]("lot_no")
	sauda := primitive.NewObjectID()

	if err := store.Insert(ctx, newLot("L-1", sauda)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, newLot("L-1", sauda)); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate on insert, got %v", err)
	}

	second := newLot("L-2", sauda)
	if err := store.Insert(ctx, second); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	second.LotNo = "L-1"
	if err := store.Replace(ctx, second); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate on replace, got %v", err)
	}

	// Replacing a record with its own key is fine.
	second.LotNo = "L-2"
	if err := store.Replace(ctx, second); err != nil {
		t.Errorf("Replace with own key failed: %v", err)
	}
}

func TestStore_ListNewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.Lot]("lot_no")

	clock := time.Date(2024, time.November, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	saudaA := primitive.NewObjectID()
	saudaB := primitive.NewObjectID()
	passed := time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC)

	lots := []*models.Lot{newLot("A-1", saudaA), newLot("B-1", saudaB), newLot("A-2", saudaA)}
	lots[2].RicePassDate = &passed
	for _, l := range lots {
		if err := store.Insert(ctx, l); err != nil {
			t.Fatalf("Insert %s failed: %v", l.LotNo, err)
		}
	}

	all, err := store.List(ctx, repository.ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	got := make([]string, 0, len(all))
	for _, l := range all {
		got = append(got, l.LotNo)
	}
	want := []string{"A-2", "B-1", "A-1"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}

	tests := []struct {
		name string
		opts repository.ListOptions
		want int64
	}{
		{"by sauda", repository.ListOptions{Where: map[string]any{"sauda": saudaA}}, 2},
		{"pending", repository.ListOptions{Where: map[string]any{"rice_pass_date": nil}}, 2},
		{"pending for sauda", repository.ListOptions{Where: map[string]any{"sauda": saudaA, "rice_pass_date": nil}}, 1},
		{"date window", repository.ListOptions{DateField: "rice_pass_date", From: passed, To: passed.AddDate(0, 0, 1)}, 1},
		{"date window excludes upper bound", repository.ListOptions{DateField: "rice_pass_date", From: passed.AddDate(0, 0, -1), To: passed}, 0},
		{"unknown sauda", repository.ListOptions{Where: map[string]any{"sauda": primitive.NewObjectID()}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := store.Count(ctx, tt.opts)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, n)
			}
		})
	}

	limited, _ := store.List(ctx, repository.ListOptions{Limit: 1})
	if len(limited) != 1 || limited[0].LotNo != "A-2" {
		t.Errorf("Expected only A-2 with limit 1, got %d items", len(limited))
	}
}

func TestStore_TypedStringFilter(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.Sauda]("sauda_code")
	date := time.Now()
	rate := 2100.0

	for _, status := range []models.SaudaStatus{models.SaudaOpen, models.SaudaClosed} {
		s := &models.Sauda{SaudaCode: string(status), SaudaDate: &date, Party: primitive.NewObjectID(), RatePerQtl: &rate, Status: status}
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	n, _ := store.Count(ctx, repository.ListOptions{Where: map[string]any{"status": models.SaudaOpen}})
	if n != 1 {
		t.Errorf("Expected 1 open sauda, got %d", n)
	}
}

func TestStore_FindByIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.Vehicle]("vehicle_no")

	truck := &models.Vehicle{VehicleNo: "CG07CG4240"}
	if err := store.Insert(ctx, truck); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	found, err := store.FindByIDs(ctx, []primitive.ObjectID{truck.ID, truck.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("FindByIDs failed: %v", err)
	}
	if len(found) != 1 || found[0].VehicleNo != "CG07CG4240" {
		t.Errorf("Expected the single existing vehicle, got %d results", len(found))
	}
}

func TestStore_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.Lot]("lot_no")

	missing := newLot("X", primitive.NewObjectID())
	missing.ID = primitive.NewObjectID()
	if err := store.Replace(ctx, missing); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound replacing missing lot, got %v", err)
	}

	lot := newLot("L-1", primitive.NewObjectID())
	if err := store.Insert(ctx, lot); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	created := lot.CreatedAt

	lot.Notes = "checked"
	if err := store.Replace(ctx, lot); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	stored, _ := store.FindByID(ctx, lot.ID.Hex())
	if stored.Notes != "checked" || !stored.CreatedAt.Equal(created) {
		t.Errorf("Expected notes updated and createdAt kept, got %+v", stored)
	}

	if err := store.Delete(ctx, lot.ID.Hex()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, lot.ID.Hex()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
