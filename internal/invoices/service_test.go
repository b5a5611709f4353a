package invoices

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktury-dev/faktury/internal/companies"
	"github.com/faktury-dev/faktury/internal/config"
	"github.com/faktury-dev/faktury/internal/id"
	"github.com/faktury-dev/faktury/internal/model"
	"github.com/faktury-dev/faktury/internal/store"
	"github.com/faktury-dev/faktury/internal/validate"
)

type fixture struct {
	svc       *Service
	companies *companies.Service
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.OpenCSV(filepath.Join(t.TempDir(), store.DataDir))
	f := &fixture{
		companies: companies.NewService(st.Companies, config.Default("").Scoring),
		clock:     time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(st.Invoices, f.companies).WithClock(func() time.Time { return f.clock })
	return f
}

func validParams() AddParams {
	return AddParams{
		CompanyName:  "Trans-Pol",
		NIP:          "526-000-12-46",
		Amount:       "1 234,50",
		IssueDate:    "2024-03-01",
		PaymentTerm:  "14",
		Description:  "Warszawa - Poznań",
		ContactPhone: "+48 512 345 678",
		Distance:     "310",
		Loading:      model.Location{City: "Warszawa"},
		Unloading:    model.Location{City: "Poznań"},
	}
}

func strPtr(s string) *string { return &s }

func TestAdd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	inv, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)

	assert.True(t, id.Valid(inv.ID, id.PrefixInvoice))
	assert.Equal(t, "5260001246", inv.NIP)
	assert.Equal(t, "1234.50", inv.Amount.StringFixed(2))
	assert.Equal(t, "2024-03-01T00:00:00", inv.IssueDate)
	assert.Equal(t, "2024-03-15T00:00:00", inv.Deadline)
	assert.Equal(t, "2024-03-15T10:00:00", inv.CreatedAt)
	assert.Equal(t, "512345678", inv.ContactPhone)
	assert.InDelta(t, 310.0, inv.CalculatedDistance, 1e-9)
	assert.False(t, inv.IsPaid)

	got, err := f.svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Deadline, got.Deadline)

	c, err := f.companies.Get(ctx, "5260001246")
	require.NoError(t, err)
	assert.Equal(t, []string{inv.ID}, c.InvoiceIDs)
}

func TestAdd_EmptyIssueDateMeansNow(t *testing.T) {
	f := newFixture(t)
	p := validParams()
	p.IssueDate = ""
	p.PaymentTerm = "30"

	inv, err := f.svc.Add(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T10:00:00", inv.IssueDate)
	assert.Equal(t, "2024-04-14T10:00:00", inv.Deadline)
}

func TestAdd_OptionalFieldsBlank(t *testing.T) {
	f := newFixture(t)
	p := validParams()
	p.ContactPhone = ""
	p.Distance = " "

	inv, err := f.svc.Add(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, inv.ContactPhone)
	assert.Zero(t, inv.CalculatedDistance)
}

func TestAdd_ValidationFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := validParams()
	p.CompanyName = " "
	p.NIP = "1234567890"
	p.Amount = "-5"
	p.PaymentTerm = "400"
	p.IssueDate = "1999-12-31"

	_, err := f.svc.Add(ctx, p)
	require.Error(t, err)

	var fe validate.FieldErrors
	require.True(t, errors.As(err, &fe))
	msgs := fe.Messages()
	assert.Equal(t, "Nazwa firmy jest wymagana", msgs["company_name"])
	assert.Equal(t, "Nieprawidłowa suma kontrolna NIP", msgs["nip"])
	assert.Equal(t, "Kwota musi być większa od 0", msgs["amount"])
	assert.Equal(t, "Termin płatności nie może przekraczać 365 dni", msgs["payment_term"])
	assert.Equal(t, "Data zbyt daleka w przeszłości", msgs["issue_date"])

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "nothing stored on failure")
}

func TestMarkPaid_OnTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)

	f.clock = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) // exactly the deadline
	paid, err := f.svc.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.True(t, paid.PaidOnTime)
	assert.Equal(t, "2024-03-15T00:00:00", paid.PaidAt)

	c, err := f.companies.Get(ctx, inv.NIP)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Score)

	_, err = f.svc.MarkPaid(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestMarkPaid_Late(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)

	f.clock = time.Date(2024, 3, 15, 0, 0, 1, 0, time.UTC)
	paid, err := f.svc.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, paid.PaidOnTime)

	c, err := f.companies.Get(ctx, inv.NIP)
	require.NoError(t, err)
	assert.Equal(t, -5, c.Score)
}

func TestMarkPaid_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.MarkPaid(context.Background(), "inv-000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEdit_RecomputesDeadlineOnTermChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)

	edited, err := f.svc.Edit(ctx, inv.ID, EditParams{PaymentTerm: strPtr("30")})
	require.NoError(t, err)
	assert.Equal(t, 30, edited.PaymentTerm)
	assert.Equal(t, "2024-03-31T00:00:00", edited.Deadline)

	edited, err = f.svc.Edit(ctx, inv.ID, EditParams{IssueDate: strPtr("2024-03-05")})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-04T00:00:00", edited.Deadline)
}

func TestEdit_KeepsDeadlineOtherwise(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)

	edited, err := f.svc.Edit(ctx, inv.ID, EditParams{
		Amount:      strPtr("999"),
		PaymentTerm: strPtr("14"),
		Description: strPtr("Nowy opis"),
	})
	require.NoError(t, err)
	assert.Equal(t, inv.Deadline, edited.Deadline)
	assert.Equal(t, "999.00", edited.Amount.StringFixed(2))
	assert.Equal(t, "Nowy opis", edited.Description)
}

func TestEdit_PaidStaysPaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)

	edited, err := f.svc.Edit(ctx, inv.ID, EditParams{PaymentTerm: strPtr("1")})
	require.NoError(t, err)
	assert.True(t, edited.IsPaid)
	assert.True(t, edited.PaidOnTime, "paid_on_time is never revised")
}

func TestEdit_MovesCompany(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)

	_, err = f.svc.Edit(ctx, inv.ID, EditParams{NIP: strPtr("1234563218"), CompanyName: strPtr("Nowa Firma")})
	require.NoError(t, err)

	old, err := f.companies.Get(ctx, "5260001246")
	require.NoError(t, err)
	assert.Empty(t, old.InvoiceIDs)

	moved, err := f.companies.Get(ctx, "1234563218")
	require.NoError(t, err)
	assert.Equal(t, []string{inv.ID}, moved.InvoiceIDs)
}

func TestEdit_Invalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)

	_, err = f.svc.Edit(ctx, inv.ID, EditParams{Amount: strPtr("abc")})
	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "amount", fe[0].Field)

	got, err := f.svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234.50", got.Amount.StringFixed(2), "unchanged on failure")
}

func TestDeleteAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Hour)
	second, err := f.svc.Add(ctx, validParams())
	require.NoError(t, err)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	require.NoError(t, f.svc.Delete(ctx, first.ID))
	list, err = f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	c, err := f.companies.Get(ctx, "5260001246")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, c.InvoiceIDs)

	assert.ErrorIs(t, f.svc.Delete(ctx, first.ID), store.ErrNotFound)
}
