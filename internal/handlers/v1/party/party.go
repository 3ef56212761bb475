// Package party exposes party registration endpoints.
package party

// Party is the API response model for a party.
type Party struct {
	ID        string `json:"id" doc:"Party UUID"`
	Name      string `json:"name" doc:"Display name"`
	Type      string `json:"type" doc:"Kind of party, e.g. person or organization"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

// Account is the API response model for a chart-of-accounts entry.
type Account struct {
	ID       string  `json:"id" doc:"Account UUID"`
	Name     string  `json:"name" doc:"Account name, unique per owner"`
	Type     string  `json:"type" doc:"ASSET, LIABILITY, INCOME, or EXPENSE"`
	ParentID *string `json:"parentID,omitempty" doc:"Parent account UUID for subaccounts"`
	Currency string  `json:"currency" doc:"ISO currency code"`
}
