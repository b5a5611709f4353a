package model

// CompanyLevel grades a customer's payment history.
type CompanyLevel string

const (
	LevelExcellent CompanyLevel = "excellent"
	LevelGood      CompanyLevel = "good"
	LevelFair      CompanyLevel = "fair"
	LevelPoor      CompanyLevel = "poor"
)

// Company is a customer, keyed by NIP.
type Company struct {
	NIP        string   `json:"nip" validate:"required,nip"`
	Name       string   `json:"name" validate:"required"`
	Score      int      `json:"score"`
	InvoiceIDs []string `json:"invoices"`
}

// Key returns the company NIP.
func (c Company) Key() string { return c.NIP }

// Level maps the score onto a grade.
func (c Company) Level() CompanyLevel {
	switch {
	case c.Score >= 50:
		return LevelExcellent
	case c.Score >= 20:
		return LevelGood
	case c.Score >= 0:
		return LevelFair
	default:
		return LevelPoor
	}
}
