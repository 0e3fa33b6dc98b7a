package domain

// CategoryType classifies what money in a category is for.
type CategoryType string

const (
	CategoryIncome   CategoryType = "INCOME"
	CategoryExpense  CategoryType = "EXPENSE"
	CategoryTransfer CategoryType = "TRANSFER"
)

// OpeningBalanceCategoryName is the category of seeded opening entries.
const OpeningBalanceCategoryName = "Opening Balance"

// Category belongs to exactly one owner.
type Category struct {
	ID      string
	OwnerID string
	Name    string
	Type    CategoryType
}
