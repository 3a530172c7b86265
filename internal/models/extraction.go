package models

// DocType classifies the source document of an extraction.
type DocType string

const (
	DocTypeInvoice       DocType = "invoice"
	DocTypeBankStatement DocType = "bank_statement"
	DocTypeReceipt       DocType = "receipt"
	DocTypeCSV           DocType = "csv"
)

// Category is the closed set of transaction categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryEntertainment Category = "Entertainment"
	CategoryHousing       Category = "Housing"
	CategorySalary        Category = "Salary"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryEntertainment,
	CategoryHousing,
	CategorySalary,
	CategoryOther,
}

// ValidCategory reports whether c is a member of the closed category set.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// TransactionDraft is one extracted, not-yet-persisted transaction.
// Amount is always a non-negative magnitude; the sign lives in Type.
// OriginalAmount/OriginalCurrency are set only when a currency conversion
// was applied, for audit.
type TransactionDraft struct {
	Date             string          `json:"date"`
	Description      string          `json:"description"`
	Amount           float64         `json:"amount"`
	Category         Category        `json:"category"`
	Type             TransactionType `json:"type"`
	OriginalAmount   *float64        `json:"original_amount,omitempty"`
	OriginalCurrency string          `json:"original_currency,omitempty"`
}

// ExtractionResult is the outcome of one document extraction call.
// It carries no identity; the persistence layer assigns IDs downstream.
type ExtractionResult struct {
	DocType      DocType            `json:"doc_type"`
	Currency     string             `json:"currency"`
	Summary      string             `json:"summary"`
	Transactions []TransactionDraft `json:"transactions"`
}
