package closing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/closing"
	"github.com/lats/backend/internal/domain/sales"
)

// ExportCSV renders the day's report: headline metrics followed by one row
// per transaction. Returns the file contents and the download name.
func (s *ClosingService) ExportCSV(ctx context.Context, tenantID uuid.UUID, date string) ([]byte, string, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, "", err
	}
	daySales, err := s.saleRepo.FindByBusinessDate(ctx, tenantID, date)
	if err != nil {
		return nil, "", err
	}
	summary := closing.Summarize(date, daySales)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{
		{"Daily Sales Report", date},
		{"Generated At", s.now().In(s.opts.Location).Format("2006-01-02 15:04:05")},
		{"Total Sales", summary.TotalSales.StringFixed(2)},
		{"Total Transactions", strconv.Itoa(summary.TransactionCount)},
		{"Total Customers", strconv.Itoa(summary.UniqueCustomers)},
		{"Average Order", summary.AverageOrder.StringFixed(2)},
		{"Profit Margin", summary.ProfitMargin.StringFixed(2) + "%"},
		{},
	}
	for _, mt := range summary.ByMethod {
		rows = append(rows, []string{mt.DisplayName, mt.Amount.StringFixed(2), strconv.Itoa(mt.Count)})
	}
	rows = append(rows,
		[]string{},
		[]string{"Transaction Details"},
		[]string{"Sale Number", "Customer", "Amount", "Payment Method", "Time", "Status"},
	)
	for i := range daySales {
		sale := &daySales[i]
		rows = append(rows, []string{
			sale.SaleNumber,
			sale.CustomerName,
			sale.TotalAmount.StringFixed(2),
			methodLabels(sale),
			sale.SoldAt.In(s.opts.Location).Format("15:04:05"),
			string(sale.Status),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, "", fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("daily-sales-report-%s.csv", date), nil
}

func methodLabels(sale *sales.Sale) string {
	methods := sale.Methods()
	labels := make([]string, len(methods))
	for i, m := range methods {
		labels[i] = m.DisplayName()
	}
	return strings.Join(labels, "; ")
}
