package dto

// AmountTotalResponse is an aggregate coin total for one holder.
type AmountTotalResponse struct {
	HolderID string `json:"holderId"`
	Total    string `json:"total" example:"150.00"`
}

// RedemptionCountResponse is the number of times a perk was redeemed.
type RedemptionCountResponse struct {
	PerkID string `json:"perkId"`
	Count  int64  `json:"count"`
}
