package models

import "github.com/shopspring/decimal"

// Holder mirrors the balance columns shared by the professors and students tables.
type Holder struct {
	ID      string          `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// Perk mirrors a perks row joined with its company.
type Perk struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Active       bool            `json:"active"`
	CompanyID    string          `json:"companyId"`
	CompanyName  string          `json:"companyName"`
	CompanyEmail string          `json:"companyEmail"`
}
