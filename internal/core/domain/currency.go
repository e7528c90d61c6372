package domain

// Currency represents a currency supported by the application.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217 code, Primary Key
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"` // Decimal places for display/rounding
	AuditFields
}
