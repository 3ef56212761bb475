// Package account exposes chart-of-accounts endpoints.
package account

import "github.com/carson-networks/ledger-server/internal/core"

// Account is the API response model for an account.
// It is used only for responses, not for request bodies.
type Account struct {
	ID       string  `json:"id" doc:"Account UUID"`
	Name     string  `json:"name" doc:"Account name, unique per owner"`
	Type     string  `json:"type" doc:"ASSET, LIABILITY, INCOME, or EXPENSE"`
	ParentID *string `json:"parentID,omitempty" doc:"Parent account UUID for subaccounts"`
	Currency string  `json:"currency" doc:"ISO currency code"`
	IsActive bool    `json:"isActive" doc:"Whether the account accepts postings"`
}

func fromCore(a core.Account) Account {
	out := Account{
		ID:       a.ID.String(),
		Name:     a.Name,
		Type:     string(a.Type),
		Currency: a.Currency,
		IsActive: a.IsActive,
	}
	if a.ParentID != nil {
		parent := a.ParentID.String()
		out.ParentID = &parent
	}
	return out
}
