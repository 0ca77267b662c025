package domain

import "github.com/shopspring/decimal"

// Identity is the display information of a user behind a holder or company.
type Identity struct {
	ID          string
	DisplayName string
	Email       string
}

// Perk is a redeemable offer published by a partner company. The ledger only reads it.
type Perk struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	Active       bool
	CompanyID    string
	CompanyName  string
	CompanyEmail string
}

// Notification is a single outbound message. InlineImage, when set, is a PNG.
type Notification struct {
	To          string
	Subject     string
	Body        string
	InlineImage []byte
}
