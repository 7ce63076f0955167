// Package populate expands stored references into the referenced records for
// API responses. A reference whose record no longer exists renders as null.
package populate

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
)

// GatePassView is a gate pass with its truck expanded.
type GatePassView struct {
	models.GatePass
	Truck *models.Vehicle `json:"truck"`
}

// LotView is a lot with sauda, agreement, vehicle and gate pass truck expanded.
type LotView struct {
	*models.Lot
	Sauda     *models.Sauda     `json:"sauda"`
	Agreement *models.Agreement `json:"agreement"`
	Vehicle   *models.Vehicle   `json:"vehicle"`
	GatePass  *GatePassView     `json:"gate_pass,omitempty"`
}

// SaudaView is a sauda with broker, party, mill and its lots expanded.
type SaudaView struct {
	*models.Sauda
	Broker *models.Broker `json:"broker"`
	Party  *models.Party  `json:"party"`
	Mill   *models.Mill   `json:"mill"`
	Lots   []*models.Lot  `json:"lots"`
}

// MillView is a mill with its CMR year expanded.
type MillView struct {
	*models.Mill
	CmrYear *models.CmrYear `json:"cmr_year"`
}

// AgreementView is an agreement with its mill expanded.
type AgreementView struct {
	*models.Agreement
	Mill *models.Mill `json:"mill"`
}

// PaymentView is a payment with payer and payee expanded.
type PaymentView struct {
	*models.Payment
	Payer *models.Party `json:"payer"`
	Payee *models.Party `json:"payee"`
}

// Service resolves references against the repositories.
type Service struct {
	stores repository.Stores
	logger *zap.Logger
}

// NewService wires a populate service.
func NewService(stores repository.Stores, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{stores: stores, logger: logger}
}

// Lots expands lot references.
func (s *Service) Lots(ctx context.Context, lots []*models.Lot) ([]LotView, error) {
	var saudaIDs, agreementIDs, vehicleIDs []primitive.ObjectID
	for _, l := range lots {
		saudaIDs = append(saudaIDs, l.Sauda)
		agreementIDs = appendRef(agreementIDs, l.Agreement)
		vehicleIDs = appendRef(vehicleIDs, l.Vehicle)
		if l.GatePass != nil {
			vehicleIDs = appendRef(vehicleIDs, l.GatePass.Truck)
		}
	}

	saudas, err := byID(ctx, s.stores.Saudas, saudaIDs)
	if err != nil {
		return nil, err
	}
	agreements, err := byID(ctx, s.stores.Agreements, agreementIDs)
	if err != nil {
		return nil, err
	}
	vehicles, err := byID(ctx, s.stores.Vehicles, vehicleIDs)
	if err != nil {
		return nil, err
	}

	views := make([]LotView, 0, len(lots))
	for _, l := range lots {
		view := LotView{
			Lot:       l,
			Sauda:     saudas[l.Sauda],
			Agreement: lookup(agreements, l.Agreement),
			Vehicle:   lookup(vehicles, l.Vehicle),
		}
		if l.GatePass != nil {
			view.GatePass = &GatePassView{GatePass: *l.GatePass, Truck: lookup(vehicles, l.GatePass.Truck)}
		}
		views = append(views, view)
	}
	return views, nil
}

// Saudas expands sauda references and attaches the lots recorded against each sauda.
func (s *Service) Saudas(ctx context.Context, saudas []*models.Sauda) ([]SaudaView, error) {
	var brokerIDs, partyIDs, millIDs []primitive.ObjectID
	for _, sd := range saudas {
		brokerIDs = appendRef(brokerIDs, sd.Broker)
		partyIDs = append(partyIDs, sd.Party)
		millIDs = appendRef(millIDs, sd.Mill)
	}

	brokers, err := byID(ctx, s.stores.Brokers, brokerIDs)
	if err != nil {
		return nil, err
	}
	parties, err := byID(ctx, s.stores.Parties, partyIDs)
	if err != nil {
		return nil, err
	}
	mills, err := byID(ctx, s.stores.Mills, millIDs)
	if err != nil {
		return nil, err
	}

	views := make([]SaudaView, 0, len(saudas))
	for _, sd := range saudas {
		lots, err := s.stores.Lots.List(ctx, repository.ListOptions{Where: map[string]any{"sauda": sd.ID}})
		if err != nil {
			return nil, fmt.Errorf("load lots for sauda %s: %w", sd.SaudaCode, err)
		}
		views = append(views, SaudaView{
			Sauda:  sd,
			Broker: lookup(brokers, sd.Broker),
			Party:  parties[sd.Party],
			Mill:   lookup(mills, sd.Mill),
			Lots:   lots,
		})
	}
	return views, nil
}

// Mills expands the CMR year of each mill.
func (s *Service) Mills(ctx context.Context, mills []*models.Mill) ([]MillView, error) {
	ids := make([]primitive.ObjectID, 0, len(mills))
	for _, m := range mills {
		ids = append(ids, m.CmrYear)
	}
	years, err := byID(ctx, s.stores.CmrYears, ids)
	if err != nil {
		return nil, err
	}

	views := make([]MillView, 0, len(mills))
	for _, m := range mills {
		views = append(views, MillView{Mill: m, CmrYear: years[m.CmrYear]})
	}
	return views, nil
}

// Agreements expands the mill of each agreement.
func (s *Service) Agreements(ctx context.Context, agreements []*models.Agreement) ([]AgreementView, error) {
	ids := make([]primitive.ObjectID, 0, len(agreements))
	for _, a := range agreements {
		ids = append(ids, a.Mill)
	}
	mills, err := byID(ctx, s.stores.Mills, ids)
	if err != nil {
		return nil, err
	}

	views := make([]AgreementView, 0, len(agreements))
	for _, a := range agreements {
		views = append(views, AgreementView{Agreement: a, Mill: mills[a.Mill]})
	}
	return views, nil
}

// Payments expands payer and payee.
func (s *Service) Payments(ctx context.Context, payments []*models.Payment) ([]PaymentView, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(payments))
	for _, p := range payments {
		ids = append(ids, p.Payer, p.Payee)
	}
	parties, err := byID(ctx, s.stores.Parties, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{Payment: p, Payer: parties[p.Payer], Payee: parties[p.Payee]})
	}
	return views, nil
}

func byID[T models.Document](ctx context.Context, store repository.Store[T], ids []primitive.ObjectID) (map[primitive.ObjectID]T, error) {
	out := make(map[primitive.ObjectID]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	docs, err := store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve references: %w", err)
	}
	for _, d := range docs {
		out[d.Meta().ID] = d
	}
	return out, nil
}

func lookup[T any](m map[primitive.ObjectID]T, id *primitive.ObjectID) T {
	var zero T
	if id == nil {
		return zero
	}
	return m[*id]
}

func appendRef(ids []primitive.ObjectID, id *primitive.ObjectID) []primitive.ObjectID {
	if id == nil || id.IsZero() {
		return ids
	}
	return append(ids, *id)
}
