package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktury-dev/faktury/internal/model"
)

func sampleInvoices() []model.Invoice {
	return []model.Invoice{
		{
			ID:          "inv-000000000001",
			CompanyName: "Trans-Pol",
			NIP:         "5260250274",
			Amount:      decimal.RequireFromString("1234.5"),
			IssueDate:   "2024-03-01T00:00:00",
			Deadline:    "2024-03-15T00:00:00",
			PaymentTerm: 14,
			CreatedAt:   "2024-03-01T09:00:00",
		},
		{
			ID:                 "inv-000000000002",
			CompanyName:        "Spedycja Nowak",
			NIP:                "7740001454",
			Amount:             decimal.NewFromInt(800),
			IssueDate:          "2024-03-02T00:00:00",
			Deadline:           "2024-04-01T00:00:00",
			PaymentTerm:        30,
			CreatedAt:          "2024-03-02T09:00:00",
			IsPaid:             true,
			PaidAt:             "2024-03-20T12:00:00",
			PaidOnTime:         true,
			ContactPhone:       "601234567",
			CalculatedDistance: 412.5,
		},
	}
}

func readAll(t *testing.T, r io.Reader) [][]string {
	t.Helper()
	rows, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "faktury_20240315_103000.csv", FileName(PrefixInvoices, now, "csv"))
	assert.Equal(t, "faktury_20240315_103000.pdf", FileName(PrefixInvoices, now, "pdf"))
}

func TestInvoicesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InvoicesCSV(&buf, sampleInvoices()))

	rows := readAll(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, InvoiceHeader, rows[0])

	unpaid := rows[1]
	assert.Equal(t, "2024-03-01", unpaid[1])
	assert.Equal(t, "1234.50", unpaid[4])
	assert.Equal(t, "2024-03-15", unpaid[5])
	assert.Equal(t, "Oczekuje", unpaid[8])
	assert.Equal(t, "", unpaid[9])
	assert.Equal(t, "Nie", unpaid[10])
	assert.Equal(t, "", unpaid[12])

	paid := rows[2]
	assert.Equal(t, "Opłacona", paid[8])
	assert.Equal(t, "2024-03-20", paid[9])
	assert.Equal(t, "Tak", paid[10])
	assert.Equal(t, "601234567", paid[11])
	assert.Equal(t, "412.5", paid[12])
}

func TestFuelCSV(t *testing.T) {
	fuel := []model.FuelEntry{{
		ID:       "fuel-000000000001",
		Date:     "2024-03-10",
		Amount:   decimal.RequireFromString("650.4"),
		Liters:   100.25,
		Station:  "Orlen, Poznań",
		DriverID: "driver-000000000001",
	}}

	var buf bytes.Buffer
	require.NoError(t, FuelCSV(&buf, fuel))

	rows := readAll(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, FuelHeader, rows[0])
	assert.Equal(t, []string{
		"fuel-000000000001", "2024-03-10", "650.40", "100.25", "Orlen, Poznań",
		"driver-000000000001", "", "",
	}, rows[1])
}

func TestDriversCSV(t *testing.T) {
	drivers := []model.Driver{{
		ID:        "driver-000000000001",
		Name:      "Jan Kowalski",
		Phone:     "601234567",
		DailyCost: decimal.NewFromInt(350),
	}}

	var buf bytes.Buffer
	require.NoError(t, DriversCSV(&buf, drivers))

	rows := readAll(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, DriverHeader, rows[0])
	assert.Equal(t, "Jan Kowalski", rows[1][1])
	assert.Equal(t, "350.00", rows[1][7])
}

func TestWriteFile(t *testing.T) {
	root := t.TempDir()

	path, err := WriteFile(root, "x.csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, Dir, "x.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteFilePropagatesWriterError(t *testing.T) {
	_, err := WriteFile(t.TempDir(), "x.csv", func(io.Writer) error {
		return io.ErrShortWrite
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestInvoicesPDF(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	data, err := InvoicesPDF(sampleInvoices(), "Transport Kowalski", now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestInvoicesPDFEmpty(t *testing.T) {
	data, err := InvoicesPDF(nil, "", time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPDFDate(t *testing.T) {
	assert.Equal(t, "15.03.2024", pdfDate("2024-03-15T00:00:00"))
	assert.Equal(t, "N/A", pdfDate("garbage"))
	assert.Equal(t, "N/A", pdfDate(""))
}
