package records

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
	"github.com/mamadbah2/ricemill/internal/repository/memory"
)

func newPartyService() *Service[models.Party, *models.Party] {
	return NewService[models.Party]("parties", memory.NewStore[models.Party]("party_code"), nil)
}

func TestCreate_AppliesDefaultsAndIgnoresIdentity(t *testing.T) {
	svc := newPartyService()
	forged := primitive.NewObjectID()

	party, err := svc.Create(context.Background(), []byte(`{"_id":"`+forged.Hex()+`","party_code":"P-1","name":"Ramesh Traders","createdAt":"2001-01-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if party.ID == forged {
		t.Error("Expected a server assigned id")
	}
	if party.CreatedAt.Year() == 2001 {
		t.Error("Expected a server assigned createdAt")
	}
	if party.Category != models.PartyTrader {
		t.Errorf("Expected default category Trader, got %q", party.Category)
	}
}

func TestCreate_Errors(t *testing.T) {
	svc := newPartyService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, []byte(`{"party_code":"P-1","name":"A"}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing name", `{"party_code":"P-2"}`, models.ErrValidation},
		{"bad category", `{"party_code":"P-2","name":"B","category":"Bank"}`, models.ErrValidation},
		{"not an object", `[1,2]`, models.ErrValidation},
		{"duplicate code", `{"party_code":"P-1","name":"B"}`, repository.ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, []byte(tt.body)); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUpdate_MergesPartialBody(t *testing.T) {
	svc := newPartyService()
	ctx := context.Background()

	party, err := svc.Create(ctx, []byte(`{"party_code":"P-1","name":"A","phone":"98260","category":"Farmer"}`))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.Update(ctx, party.ID.Hex(), []byte(`{"name":"A Sons","_id":"`+primitive.NewObjectID().Hex()+`"}`))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != party.ID {
		t.Errorf("Expected id %s, got %s", party.ID.Hex(), updated.ID.Hex())
	}
	if updated.Name != "A Sons" || updated.Phone != "98260" || updated.Category != models.PartyFarmer {
		t.Errorf("Expected merged record, got %+v", updated)
	}
}

func TestBeforeSaveHook(t *testing.T) {
	var calls []bool
	hook := func(doc, stored *models.Vehicle) error {
		calls = append(calls, stored != nil)
		doc.Remarks = "checked"
		return nil
	}
	svc := NewService[models.Vehicle]("vehicles", memory.NewStore[models.Vehicle]("vehicle_no"), nil,
		WithBeforeSave[models.Vehicle, *models.Vehicle](hook))
	ctx := context.Background()

	v, err := svc.Create(ctx, []byte(`{"vehicle_no":"CG07CG4240"}`))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Update(ctx, v.ID.Hex(), []byte(`{"owner_name":"Sahu"}`)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, _ := svc.Get(ctx, v.ID.Hex())
	if stored.Remarks != "checked" {
		t.Errorf("Expected hook output to be stored, got %q", stored.Remarks)
	}
	if len(calls) != 2 || calls[0] || !calls[1] {
		t.Errorf("Expected hook on create without stored and update with stored, got %v", calls)
	}
}

func TestGetAndDelete_NotFound(t *testing.T) {
	svc := newPartyService()
	ctx := context.Background()

	if _, err := svc.Get(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound from Get, got %v", err)
	}
	if err := svc.Delete(ctx, "bogus"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound from Delete, got %v", err)
	}
}

func TestUpdate_ReplacesArraysWhole(t *testing.T) {
	svc := NewService[models.Payment]("payments", memory.NewStore[models.Payment](""), nil)
	ctx := context.Background()
	lot := primitive.NewObjectID()
	sauda := primitive.NewObjectID()

	payment, err := svc.Create(ctx, []byte(`{"payment_date":"2024-11-05T00:00:00Z","payer":"`+primitive.NewObjectID().Hex()+
		`","payee":"`+primitive.NewObjectID().Hex()+`","amount":1000,"allocations":[{"ref_collection":"Lot","ref_id":"`+lot.Hex()+`","allocated_amount":900}]}`))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.Update(ctx, payment.ID.Hex(), []byte(`{"allocations":[{"ref_collection":"Sauda","ref_id":"`+sauda.Hex()+`"}]}`))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(updated.Allocations) != 1 {
		t.Fatalf("Expected 1 allocation, got %d", len(updated.Allocations))
	}
	got := updated.Allocations[0]
	if got.RefCollection != models.AllocateToSauda || got.RefID != sauda {
		t.Errorf("Expected allocation to sauda %s, got %+v", sauda.Hex(), got)
	}
	if got.AllocatedAmount != nil {
		t.Errorf("Expected no allocated_amount, got %v", *got.AllocatedAmount)
	}
	if updated.Amount == nil || *updated.Amount != 1000 {
		t.Errorf("Expected amount 1000 kept, got %v", updated.Amount)
	}

	stored, _ := svc.Get(ctx, payment.ID.Hex())
	if len(stored.Allocations) != 1 || stored.Allocations[0].AllocatedAmount != nil {
		t.Errorf("Expected stored allocation without amount, got %+v", stored.Allocations)
	}
}

func TestUpdate_ReplacesNestedObjectWhole(t *testing.T) {
	svc := NewService[models.Lot]("lots", memory.NewStore[models.Lot]("lot_no"), nil)
	ctx := context.Background()
	truck := primitive.NewObjectID()

	lot, err := svc.Create(ctx, []byte(`{"lot_no":"L-1","sauda":"`+primitive.NewObjectID().Hex()+
		`","gate_pass":{"date":"2024-11-01T00:00:00Z","truck":"`+truck.Hex()+`"},"bags":100}`))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.Update(ctx, lot.ID.Hex(), []byte(`{"gate_pass":{"date":"2024-11-03T00:00:00Z"}}`))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.GatePass == nil || updated.GatePass.Date == nil || updated.GatePass.Date.Day() != 3 {
		t.Fatalf("Expected gate pass dated the 3rd, got %+v", updated.GatePass)
	}
	if updated.GatePass.Truck != nil {
		t.Errorf("Expected truck cleared with the replaced gate pass, got %s", updated.GatePass.Truck.Hex())
	}
	if updated.Bags == nil || *updated.Bags != 100 {
		t.Errorf("Expected bags 100 kept, got %v", updated.Bags)
	}
}

func TestUpdate_RejectsNonObjectBody(t *testing.T) {
	svc := newPartyService()
	ctx := context.Background()

	party, err := svc.Create(ctx, []byte(`{"party_code":"P-1","name":"A"}`))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, body := range []string{`[1,2]`, `{"name":`, `"A"`} {
		if _, err := svc.Update(ctx, party.ID.Hex(), []byte(body)); !errors.Is(err, models.ErrValidation) {
			t.Errorf("Update(%s): expected ErrValidation, got %v", body, err)
		}
	}
}
