// Package budget exposes monthly budget endpoints.
package budget

import "github.com/carson-networks/ledger-server/internal/service"

// CategoryStatus is the API response model for one category's spending
// position within a month.
type CategoryStatus struct {
	CategoryID      string `json:"categoryID" doc:"Category (EXPENSE account) UUID"`
	CategoryName    string `json:"categoryName" doc:"Category account name"`
	BudgetAmount    string `json:"budgetAmount" doc:"Stated decimal allocation"`
	RolloverAmount  string `json:"rolloverAmount" doc:"Signed decimal carried in from the previous month"`
	EffectiveBudget string `json:"effectiveBudget" doc:"Stated amount plus rollover"`
	SpentAmount     string `json:"spentAmount" doc:"Decimal spent this month"`
	Remaining       string `json:"remaining" doc:"Effective budget minus spend"`
	PercentUsed     string `json:"percentUsed" doc:"Spend as a percentage of the effective budget"`
	Status          string `json:"status" doc:"under_budget, near_limit, or over_budget"`
}

// Status is the API response model for a month's full spending position.
type Status struct {
	BudgetID       string           `json:"budgetID" doc:"Budget UUID"`
	YearMonth      string           `json:"yearMonth" doc:"Month key, YYYY-MM"`
	TotalBudget    string           `json:"totalBudget" doc:"Sum of effective budgets"`
	TotalSpent     string           `json:"totalSpent" doc:"Sum of category spend"`
	TotalRemaining string           `json:"totalRemaining" doc:"Total budget minus total spend"`
	Status         string           `json:"status" doc:"Overall under_budget, near_limit, or over_budget"`
	NeedsRecalc    bool             `json:"needsRecalc" doc:"Whether cached rollovers are pending recomputation"`
	Categories     []CategoryStatus `json:"categories" doc:"Per-category rows"`
}

func statusFromService(s *service.BudgetStatus) Status {
	out := Status{
		BudgetID:       s.BudgetID.String(),
		YearMonth:      s.YearMonth,
		TotalBudget:    s.TotalBudget.String(),
		TotalSpent:     s.TotalSpent.String(),
		TotalRemaining: s.TotalRemaining.String(),
		Status:         s.Status,
		NeedsRecalc:    s.NeedsRecalc,
		Categories:     make([]CategoryStatus, len(s.Categories)),
	}
	for i, c := range s.Categories {
		out.Categories[i] = CategoryStatus{
			CategoryID:      c.CategoryID.String(),
			CategoryName:    c.CategoryName,
			BudgetAmount:    c.BudgetAmount.String(),
			RolloverAmount:  c.RolloverAmount.String(),
			EffectiveBudget: c.EffectiveBudget.String(),
			SpentAmount:     c.SpentAmount.String(),
			Remaining:       c.Remaining.String(),
			PercentUsed:     c.PercentUsed.String(),
			Status:          c.Status,
		}
	}
	return out
}
