package closing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// MethodTotal is the takings for one payment method
type MethodTotal struct {
	Method      sales.PaymentMethod `json:"method"`
	DisplayName string              `json:"display_name"`
	Count       int                 `json:"count"`
	Amount      decimal.Decimal     `json:"amount"`
}

// DailySummary aggregates the completed sales of one business day
type DailySummary struct {
	Date             string          `json:"date"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int             `json:"transaction_count"`
	UniqueCustomers  int             `json:"unique_customers"`
	AverageOrder     decimal.Decimal `json:"average_order"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
	ByMethod         []MethodTotal   `json:"by_method"`
}

// Summarize folds a day's sales into a summary. Only completed sales
// count; a split payment contributes once to each of its methods.
func Summarize(date string, daySales []sales.Sale) DailySummary {
	summary := DailySummary{
		Date:         date,
		TotalSales:   decimal.Zero,
		AverageOrder: decimal.Zero,
		TotalProfit:  decimal.Zero,
		ProfitMargin: decimal.Zero,
		ByMethod:     make([]MethodTotal, 0),
	}

	customers := make(map[uuid.UUID]struct{})
	methods := make(map[sales.PaymentMethod]*MethodTotal)
	for i := range daySales {
		s := &daySales[i]
		if !s.IsCompleted() {
			continue
		}
		summary.TransactionCount++
		summary.TotalSales = summary.TotalSales.Add(s.TotalAmount)
		summary.TotalProfit = summary.TotalProfit.Add(s.Profit)
		customers[s.CustomerID] = struct{}{}

		for _, p := range s.Payments {
			mt, ok := methods[p.Method]
			if !ok {
				mt = &MethodTotal{Method: p.Method, DisplayName: p.Method.DisplayName(), Amount: decimal.Zero}
				methods[p.Method] = mt
			}
			mt.Count++
			mt.Amount = mt.Amount.Add(p.Amount)
		}
	}

	summary.UniqueCustomers = len(customers)
	if summary.TransactionCount > 0 {
		summary.AverageOrder = summary.TotalSales.Div(decimal.NewFromInt(int64(summary.TransactionCount))).Round(2)
	}
	if summary.TotalSales.IsPositive() {
		summary.ProfitMargin = summary.TotalProfit.Div(summary.TotalSales).Mul(decimal.NewFromInt(100)).Round(2)
	}

	for _, mt := range methods {
		summary.ByMethod = append(summary.ByMethod, *mt)
	}
	sort.Slice(summary.ByMethod, func(i, j int) bool {
		if !summary.ByMethod[i].Amount.Equal(summary.ByMethod[j].Amount) {
			return summary.ByMethod[i].Amount.GreaterThan(summary.ByMethod[j].Amount)
		}
		return summary.ByMethod[i].Method < summary.ByMethod[j].Method
	})
	return summary
}
