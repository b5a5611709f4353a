package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faktury-dev/faktury/internal/model"
)

// DefaultDueSoonDays is how far ahead an unpaid deadline counts as due soon.
const DefaultDueSoonDays = 3

// DefaultDisplayLimit caps the notifications shown at once.
const DefaultDisplayLimit = 5

// NotificationKind classifies an unpaid invoice by its deadline.
type NotificationKind string

const (
	KindOverdue NotificationKind = "overdue"
	KindDueSoon NotificationKind = "due_soon"
)

// Notification flags one unpaid invoice.
type Notification struct {
	Kind        NotificationKind
	InvoiceID   string
	CompanyName string
	Amount      decimal.Decimal
	DaysUntil   int // negative when overdue
}

// Message renders the banner line for n.
func (n Notification) Message() string {
	if n.Kind == KindOverdue {
		return fmt.Sprintf("⚠️ Faktura przeterminowana: %s (%d dni temu)", n.CompanyName, -n.DaysUntil)
	}
	return fmt.Sprintf("⏰ Nadchodząca płatność: %s (za %d dni)", n.CompanyName, n.DaysUntil)
}

// Classify returns the notification for inv, if any. Paid invoices and
// invoices with an unparseable deadline produce none.
func Classify(inv model.Invoice, now time.Time, dueSoonDays int) (Notification, bool) {
	if inv.IsPaid {
		return Notification{}, false
	}
	deadline, ok := model.ParseTimestamp(inv.Deadline, now.Location())
	if !ok {
		return Notification{}, false
	}

	days := WholeDays(deadline.Sub(now))
	var kind NotificationKind
	switch {
	case days < 0:
		kind = KindOverdue
	case days <= dueSoonDays:
		kind = KindDueSoon
	default:
		return Notification{}, false
	}
	return Notification{
		Kind:        kind,
		InvoiceID:   inv.ID,
		CompanyName: inv.CompanyName,
		Amount:      inv.Amount,
		DaysUntil:   days,
	}, true
}

// Notifications classifies unpaid invoices with the default due-soon window.
func Notifications(invoices []model.Invoice, now time.Time) []Notification {
	return NotificationsWithin(invoices, now, DefaultDueSoonDays)
}

// NotificationsWithin classifies unpaid invoices, treating deadlines up to
// dueSoonDays ahead as due soon. Input order is kept.
func NotificationsWithin(invoices []model.Invoice, now time.Time, dueSoonDays int) []Notification {
	var out []Notification
	for _, inv := range invoices {
		if n, ok := Classify(inv, now, dueSoonDays); ok {
			out = append(out, n)
		}
	}
	return out
}

// Banner is the notification strip: at most a limited number of items,
// overdue ones first, and a count of the rest.
type Banner struct {
	Title      string
	Items      []Notification
	Remaining  int
	HasOverdue bool
}

// NewBanner orders notes overdue-first and keeps at most limit of them.
func NewBanner(notes []Notification, limit int) Banner {
	sorted := make([]Notification, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Kind == KindOverdue && sorted[j].Kind != KindOverdue
	})

	b := Banner{Title: "📋 Powiadomienia"}
	if len(sorted) > 0 && sorted[0].Kind == KindOverdue {
		b.HasOverdue = true
		b.Title = "🚨 Uwaga!"
	}
	if limit < 0 {
		limit = 0
	}
	if len(sorted) > limit {
		b.Remaining = len(sorted) - limit
		sorted = sorted[:limit]
	}
	b.Items = sorted
	return b
}

// Empty reports whether there is nothing to show.
func (b Banner) Empty() bool {
	return len(b.Items) == 0 && b.Remaining == 0
}

// Lines renders the visible items followed by the remainder line.
func (b Banner) Lines() []string {
	lines := make([]string, 0, len(b.Items)+1)
	for _, n := range b.Items {
		lines = append(lines, n.Message())
	}
	if b.Remaining > 0 {
		lines = append(lines, fmt.Sprintf("... i %d więcej", b.Remaining))
	}
	return lines
}
