package listview

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"sync"

	"bizdesk/internal/domain/model"
)

type InvoicesAPI interface {
	ListInvoices(ctx context.Context) ([]model.Invoice, error)
}

// Invoicesは請求書一覧。注文一覧と同じく全件取得＋クライアント側絞り込み。
type Invoices struct {
	api InvoicesAPI

	mu           sync.Mutex
	invoices     []model.Invoice
	search       string
	statusFilter string
}

func NewInvoices(api InvoicesAPI) *Invoices {
	return &Invoices{api: api, statusFilter: FilterAll}
}

func (l *Invoices) Load(ctx context.Context) error {
	invoices, err := l.api.ListInvoices(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.invoices = invoices
	l.mu.Unlock()
	return nil
}

func (l *Invoices) SetSearch(q string) {
	l.mu.Lock()
	l.search = q
	l.mu.Unlock()
}

func (l *Invoices) SetStatusFilter(s string) {
	l.mu.Lock()
	l.statusFilter = s
	l.mu.Unlock()
}

func (l *Invoices) Visible() []model.Invoice {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []model.Invoice
	for _, inv := range l.invoices {
		if l.statusFilter != FilterAll && !strings.EqualFold(string(inv.Status), l.statusFilter) {
			continue
		}
		if l.search != "" {
			q := strings.ToLower(l.search)
			if !strings.Contains(strings.ToLower(inv.InvoiceID), q) &&
				!strings.Contains(strings.ToLower(inv.CustomerName), q) {
				continue
			}
		}
		out = append(out, inv)
	}
	return out
}

func (l *Invoices) ExportCSV(w io.Writer) error {
	rows := l.Visible()
	if len(rows) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Invoice #", "Customer", "Date", "Net Payable", "Status"}); err != nil {
		return err
	}
	for _, inv := range rows {
		rec := []string{
			inv.InvoiceID,
			inv.CustomerName,
			inv.Date,
			inv.NetPayable,
			string(inv.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
