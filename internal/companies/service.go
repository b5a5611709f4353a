package companies

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/faktury-dev/faktury/internal/config"
	"github.com/faktury-dev/faktury/internal/logger"
	"github.com/faktury-dev/faktury/internal/model"
	"github.com/faktury-dev/faktury/internal/store"
)

// Service keeps the customer registry and payment scores.
type Service struct {
	coll    store.Collection[model.Company]
	scoring config.ScoringConfig
	log     zerolog.Logger
}

// NewService creates a Service over a company collection.
func NewService(coll store.Collection[model.Company], scoring config.ScoringConfig) *Service {
	return &Service{coll: coll, scoring: scoring, log: logger.WithComponent("companies")}
}

// All returns every company.
func (s *Service) All(ctx context.Context) ([]model.Company, error) {
	return s.coll.All(ctx)
}

// Get returns the company with the given NIP.
func (s *Service) Get(ctx context.Context, nip string) (model.Company, error) {
	return s.coll.Get(ctx, nip)
}

// GetOrCreate returns the company with nip, creating it with name and a
// zero score when it is new. An existing name is kept.
func (s *Service) GetOrCreate(ctx context.Context, nip, name string) (model.Company, error) {
	c, err := s.coll.Get(ctx, nip)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return model.Company{}, err
	}

	c = model.Company{NIP: nip, Name: name}
	if err := s.coll.Put(ctx, c); err != nil {
		return model.Company{}, fmt.Errorf("creating company %s: %w", nip, err)
	}
	s.log.Info().Str("nip", nip).Str("name", name).Msg("company created")
	return c, nil
}

// LinkInvoice records invoiceID against the company, creating it if needed.
func (s *Service) LinkInvoice(ctx context.Context, nip, name, invoiceID string) error {
	c, err := s.GetOrCreate(ctx, nip, name)
	if err != nil {
		return err
	}
	if lo.Contains(c.InvoiceIDs, invoiceID) {
		return nil
	}
	c.InvoiceIDs = append(c.InvoiceIDs, invoiceID)
	return s.coll.Put(ctx, c)
}

// UnlinkInvoice removes invoiceID from the company. A missing company is
// not an error.
func (s *Service) UnlinkInvoice(ctx context.Context, nip, invoiceID string) error {
	c, err := s.coll.Get(ctx, nip)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	c.InvoiceIDs = lo.Without(c.InvoiceIDs, invoiceID)
	return s.coll.Put(ctx, c)
}

// ScoreDelta is the score change for one paid invoice.
func (s *Service) ScoreDelta(onTime bool) int {
	return lo.Ternary(onTime, s.scoring.OnTimePoints, s.scoring.LatePoints)
}

// ApplyPayment adjusts the company score for a paid invoice.
func (s *Service) ApplyPayment(ctx context.Context, nip, name string, onTime bool) (model.Company, error) {
	c, err := s.GetOrCreate(ctx, nip, name)
	if err != nil {
		return model.Company{}, err
	}
	c.Score += s.ScoreDelta(onTime)
	if err := s.coll.Put(ctx, c); err != nil {
		return model.Company{}, fmt.Errorf("updating company %s: %w", nip, err)
	}
	s.log.Debug().Str("nip", nip).Int("score", c.Score).Bool("on_time", onTime).Msg("score updated")
	return c, nil
}

// Ranked returns companies best score first, ties by name.
func (s *Service) Ranked(ctx context.Context) ([]model.Company, error) {
	all, err := s.coll.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].Name < all[j].Name
	})
	return all, nil
}
