package invoices

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/faktury-dev/faktury/internal/companies"
	"github.com/faktury-dev/faktury/internal/id"
	"github.com/faktury-dev/faktury/internal/logger"
	"github.com/faktury-dev/faktury/internal/model"
	"github.com/faktury-dev/faktury/internal/store"
	"github.com/faktury-dev/faktury/internal/validate"
)

// ErrAlreadyPaid is returned when paying an invoice twice.
var ErrAlreadyPaid = errors.New("invoice already paid")

// Service manages invoices and keeps company records in step.
type Service struct {
	invoices  store.Collection[model.Invoice]
	companies *companies.Service
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates a Service.
func NewService(invoices store.Collection[model.Invoice], companies *companies.Service) *Service {
	return &Service{
		invoices:  invoices,
		companies: companies,
		now:       time.Now,
		log:       logger.WithComponent("invoices"),
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AddParams holds raw form input for a new invoice. Empty IssueDate means
// today; ContactPhone and Distance are optional.
type AddParams struct {
	CompanyName  string
	NIP          string
	Amount       string
	IssueDate    string
	PaymentTerm  string
	Description  string
	ContactPhone string
	Distance     string
	Loading      model.Location
	Unloading    model.Location
	DriverID     string
}

// Add validates p, stores the new invoice and links it to its company.
func (s *Service) Add(ctx context.Context, p AddParams) (model.Invoice, error) {
	now := s.now()

	var errs validate.FieldErrors
	name := validate.Check(&errs, "company_name", validate.Required(p.CompanyName, "Nazwa firmy jest wymagana"))
	nip := validate.Check(&errs, "nip", validate.NIP(p.NIP))
	amount := validate.Check(&errs, "amount", validate.Amount(p.Amount))
	term := validate.Check(&errs, "payment_term", validate.PaymentTerm(p.PaymentTerm))
	issued := now
	if strings.TrimSpace(p.IssueDate) != "" {
		issued = validate.Check(&errs, "issue_date", validate.DateAt(strings.TrimSpace(p.IssueDate), "", now))
	}
	phone := optional(&errs, "contact_phone", p.ContactPhone, validate.Phone)
	distance := optional(&errs, "calculated_distance", p.Distance, validate.Distance)
	if err := errs.Err(); err != nil {
		return model.Invoice{}, err
	}

	inv := model.Invoice{
		ID:                 id.New(id.PrefixInvoice),
		CompanyName:        name,
		NIP:                nip,
		Amount:             amount,
		IssueDate:          model.FormatTimestamp(issued),
		PaymentTerm:        term,
		Deadline:           model.FormatTimestamp(issued.AddDate(0, 0, term)),
		Description:        strings.TrimSpace(p.Description),
		CreatedAt:          model.FormatTimestamp(now),
		ContactPhone:       phone,
		Loading:            p.Loading,
		Unloading:          p.Unloading,
		CalculatedDistance: distance,
		DriverID:           p.DriverID,
	}
	if err := validate.Record(inv).Err(); err != nil {
		return model.Invoice{}, err
	}

	if err := s.invoices.Put(ctx, inv); err != nil {
		return model.Invoice{}, fmt.Errorf("saving invoice: %w", err)
	}
	if err := s.companies.LinkInvoice(ctx, inv.NIP, inv.CompanyName, inv.ID); err != nil {
		return model.Invoice{}, fmt.Errorf("linking company: %w", err)
	}

	s.log.Info().Str("id", inv.ID).Str("nip", inv.NIP).Str("amount", inv.Amount.StringFixed(2)).Msg("invoice added")
	return inv, nil
}

// MarkPaid records payment now. Whether it was on time is fixed here and
// never revised.
func (s *Service) MarkPaid(ctx context.Context, invoiceID string) (model.Invoice, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return model.Invoice{}, err
	}
	if inv.IsPaid {
		return model.Invoice{}, fmt.Errorf("%s: %w", invoiceID, ErrAlreadyPaid)
	}

	now := s.now()
	deadline, ok := model.ParseTimestamp(inv.Deadline, now.Location())
	if !ok {
		return model.Invoice{}, fmt.Errorf("invoice %s: parsing deadline %q", invoiceID, inv.Deadline)
	}

	inv.IsPaid = true
	inv.PaidAt = model.FormatTimestamp(now)
	inv.PaidOnTime = !now.After(deadline)
	if err := s.invoices.Put(ctx, inv); err != nil {
		return model.Invoice{}, fmt.Errorf("saving invoice: %w", err)
	}
	if _, err := s.companies.ApplyPayment(ctx, inv.NIP, inv.CompanyName, inv.PaidOnTime); err != nil {
		return model.Invoice{}, fmt.Errorf("scoring company: %w", err)
	}

	s.log.Info().Str("id", inv.ID).Bool("on_time", inv.PaidOnTime).Msg("invoice paid")
	return inv, nil
}

// EditParams patches an invoice. Nil fields are left unchanged.
type EditParams struct {
	CompanyName  *string
	NIP          *string
	Amount       *string
	IssueDate    *string
	PaymentTerm  *string
	Description  *string
	ContactPhone *string
	Distance     *string
	Loading      *model.Location
	Unloading    *model.Location
	DriverID     *string
}

// Edit applies p. The deadline is recomputed only when the issue date or
// payment term changes. Payment state is never touched.
func (s *Service) Edit(ctx context.Context, invoiceID string, p EditParams) (model.Invoice, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return model.Invoice{}, err
	}
	now := s.now()
	oldNIP := inv.NIP

	var errs validate.FieldErrors
	if p.CompanyName != nil {
		inv.CompanyName = validate.Check(&errs, "company_name", validate.Required(*p.CompanyName, "Nazwa firmy jest wymagana"))
	}
	if p.NIP != nil {
		inv.NIP = validate.Check(&errs, "nip", validate.NIP(*p.NIP))
	}
	if p.Amount != nil {
		inv.Amount = validate.Check(&errs, "amount", validate.Amount(*p.Amount))
	}
	if p.Description != nil {
		inv.Description = strings.TrimSpace(*p.Description)
	}
	if p.ContactPhone != nil {
		inv.ContactPhone = optional(&errs, "contact_phone", *p.ContactPhone, validate.Phone)
	}
	if p.Distance != nil {
		inv.CalculatedDistance = optional(&errs, "calculated_distance", *p.Distance, validate.Distance)
	}
	if p.Loading != nil {
		inv.Loading = *p.Loading
	}
	if p.Unloading != nil {
		inv.Unloading = *p.Unloading
	}
	if p.DriverID != nil {
		inv.DriverID = *p.DriverID
	}

	rescheduled := false
	if p.IssueDate != nil {
		issued := validate.Check(&errs, "issue_date", validate.DateAt(strings.TrimSpace(*p.IssueDate), "", now))
		if ts := model.FormatTimestamp(issued); ts != inv.IssueDate {
			inv.IssueDate = ts
			rescheduled = true
		}
	}
	if p.PaymentTerm != nil {
		term := validate.Check(&errs, "payment_term", validate.PaymentTerm(*p.PaymentTerm))
		if term != inv.PaymentTerm {
			inv.PaymentTerm = term
			rescheduled = true
		}
	}
	if err := errs.Err(); err != nil {
		return model.Invoice{}, err
	}

	if rescheduled {
		issued, ok := model.ParseTimestamp(inv.IssueDate, now.Location())
		if !ok {
			return model.Invoice{}, validate.FieldErrors{{
				Field: "issue_date", Kind: validate.KindFormat, Message: "Nieprawidłowa data wystawienia",
			}}
		}
		inv.Deadline = model.FormatTimestamp(issued.AddDate(0, 0, inv.PaymentTerm))
	}
	if err := validate.Record(inv).Err(); err != nil {
		return model.Invoice{}, err
	}

	if err := s.invoices.Put(ctx, inv); err != nil {
		return model.Invoice{}, fmt.Errorf("saving invoice: %w", err)
	}
	if inv.NIP != oldNIP {
		if err := s.companies.UnlinkInvoice(ctx, oldNIP, inv.ID); err != nil {
			return model.Invoice{}, fmt.Errorf("unlinking company: %w", err)
		}
	}
	if err := s.companies.LinkInvoice(ctx, inv.NIP, inv.CompanyName, inv.ID); err != nil {
		return model.Invoice{}, fmt.Errorf("linking company: %w", err)
	}

	s.log.Info().Str("id", inv.ID).Bool("rescheduled", rescheduled).Msg("invoice edited")
	return inv, nil
}

// Delete removes an invoice and its company link.
func (s *Service) Delete(ctx context.Context, invoiceID string) error {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return err
	}
	if err := s.invoices.Delete(ctx, invoiceID); err != nil {
		return err
	}
	if err := s.companies.UnlinkInvoice(ctx, inv.NIP, inv.ID); err != nil {
		return fmt.Errorf("unlinking company: %w", err)
	}
	s.log.Info().Str("id", invoiceID).Msg("invoice deleted")
	return nil
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, invoiceID string) (model.Invoice, error) {
	return s.invoices.Get(ctx, invoiceID)
}

// List returns all invoices, newest first.
func (s *Service) List(ctx context.Context) ([]model.Invoice, error) {
	all, err := s.invoices.All(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(all)
	return all, nil
}

// SortNewestFirst orders invoices by creation time, descending.
func SortNewestFirst(invoices []model.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt > invoices[j].CreatedAt
	})
}

// optional runs check on non-blank input and returns the zero value for
// blank input.
func optional[T any](errs *validate.FieldErrors, field, raw string, check func(string) validate.Result[T]) T {
	var zero T
	if strings.TrimSpace(raw) == "" {
		return zero
	}
	return validate.Check(errs, field, check(raw))
}
