package enums

import "fmt"

// TransactionKind classifies an inventory ledger entry.
type TransactionKind string

const (
	TransactionKindSale       TransactionKind = "sale"
	TransactionKindPurchase   TransactionKind = "purchase"
	TransactionKindAdjustment TransactionKind = "adjustment"
	TransactionKindReturn     TransactionKind = "return"
)

var validTransactionKinds = []TransactionKind{
	TransactionKindSale,
	TransactionKindPurchase,
	TransactionKindAdjustment,
	TransactionKindReturn,
}

// String implements fmt.Stringer.
func (k TransactionKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TransactionKind.
func (k TransactionKind) IsValid() bool {
	for _, candidate := range validTransactionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTransactionKind converts raw input into a TransactionKind.
func ParseTransactionKind(value string) (TransactionKind, error) {
	for _, candidate := range validTransactionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction kind %q", value)
}
