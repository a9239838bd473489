package types

import "time"

// Expense categories accepted by the intake flow.
const (
	ExpenseCategorySalaries    = "salaries"
	ExpenseCategoryFuel        = "fuel"
	ExpenseCategoryMaintenance = "maintenance"
	ExpenseCategoryOther       = "other"
)

// ExpenseEntry is one operating-expense line.
type ExpenseEntry struct {
	ID          int64     `json:"id,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// ExpenseBatch is the request body for recording a set of expenses.
type ExpenseBatch struct {
	Date     string         `json:"date,omitempty"`
	Expenses []ExpenseEntry `json:"expenses"`
}

// ExtractedExpenses is the AI extraction result for the expense flow.
type ExtractedExpenses struct {
	Date     string         `json:"date,omitempty"`
	Expenses []ExpenseEntry `json:"expenses"`
}

// ValidExpenseCategory reports whether the category is one the flow accepts.
func ValidExpenseCategory(c string) bool {
	switch c {
	case ExpenseCategorySalaries, ExpenseCategoryFuel, ExpenseCategoryMaintenance, ExpenseCategoryOther:
		return true
	}
	return false
}
