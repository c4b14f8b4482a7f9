package listview

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log"
	"strings"
	"sync"

	"bizdesk/internal/domain/model"
)

const FilterAll = "All"

var ErrNothingToExport = errors.New("nothing to export")

// 楽観更新した行の状態
type RowSync int

const (
	SyncConfirmed RowSync = iota
	SyncPending
	SyncRejected
)

type OrderRow struct {
	model.Order
	Sync RowSync
}

// OrdersAPIはビューが使うエンドポイントの約束
type OrdersAPI interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderNumber string, status model.OrderStatus, payment model.PaymentStatus) error
}

// Ordersはダッシュボードの注文一覧。
// コレクションは全件取得して、検索・絞り込みはクライアント側で行う。
type Orders struct {
	api OrdersAPI

	mu            sync.Mutex
	rows          []OrderRow
	search        string
	statusFilter  string
	paymentFilter string
}

func NewOrders(api OrdersAPI) *Orders {
	return &Orders{
		api:           api,
		statusFilter:  FilterAll,
		paymentFilter: FilterAll,
	}
}

// 全件を取り直してローカルを丸ごと差し替える
func (l *Orders) Load(ctx context.Context) error {
	orders, err := l.api.ListOrders(ctx)
	if err != nil {
		return err
	}

	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, OrderRow{Order: o, Sync: SyncConfirmed})
	}

	l.mu.Lock()
	l.rows = rows
	l.mu.Unlock()
	return nil
}

func (l *Orders) SetSearch(q string) {
	l.mu.Lock()
	l.search = q
	l.mu.Unlock()
}

func (l *Orders) SetStatusFilter(s string) {
	l.mu.Lock()
	l.statusFilter = s
	l.mu.Unlock()
}

func (l *Orders) SetPaymentFilter(p string) {
	l.mu.Lock()
	l.paymentFilter = p
	l.mu.Unlock()
}

func (l *Orders) ClearFilters() {
	l.mu.Lock()
	l.statusFilter = FilterAll
	l.paymentFilter = FilterAll
	l.mu.Unlock()
}

// 現在のフィルタを全部満たす行。呼ぶたびに計算し直す。
func (l *Orders) Visible() []OrderRow {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []OrderRow
	for _, r := range l.rows {
		if !l.matches(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (l *Orders) matches(r OrderRow) bool {
	if l.statusFilter != FilterAll && !strings.EqualFold(string(r.Status), l.statusFilter) {
		return false
	}
	if l.paymentFilter != FilterAll && !strings.EqualFold(string(r.PaymentStatus), l.paymentFilter) {
		return false
	}
	if l.search != "" {
		q := strings.ToLower(l.search)
		if !strings.Contains(strings.ToLower(r.OrderNumber), q) &&
			!strings.Contains(strings.ToLower(r.CustomerName), q) {
			return false
		}
	}
	return true
}

type Stats struct {
	Total      int
	Pending    int
	Processing int
	Shipped    int
	Completed  int
}

// 集計カード用の件数。絞り込みとは無関係に全行で数える。
func (l *Orders) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Stats{Total: len(l.rows)}
	for _, r := range l.rows {
		switch strings.ToLower(string(r.Status)) {
		case "pending":
			s.Pending++
		case "shipped":
			s.Shipped++
		case "confirmed", "processing":
			s.Processing++
		case "received", "delivered", "completed":
			s.Completed++
		}
	}
	return s
}

// 状態変更。行を先にPENDINGで書き換えてからPATCHを送り、
// 失敗したら全件取り直してサーバーの値に戻す（行単位のロールバックはしない）。
func (l *Orders) UpdateStatus(ctx context.Context, orderNumber string, newStatus model.OrderStatus) error {
	l.mu.Lock()
	idx := -1
	for i := range l.rows {
		if l.rows[i].OrderNumber == orderNumber {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return errors.New("order not found: " + orderNumber)
	}

	payment := l.rows[idx].PaymentStatus
	l.rows[idx].Status = newStatus
	l.rows[idx].Sync = SyncPending
	l.mu.Unlock()

	if err := l.api.UpdateOrderStatus(ctx, orderNumber, newStatus, payment); err != nil {
		l.mu.Lock()
		if idx < len(l.rows) && l.rows[idx].OrderNumber == orderNumber {
			l.rows[idx].Sync = SyncRejected
		}
		l.mu.Unlock()

		//楽観更新を捨てて正にそろえる
		if loadErr := l.Load(ctx); loadErr != nil {
			log.Printf("listview: reload after failed status update: %v", loadErr)
		}
		return err
	}

	l.mu.Lock()
	if idx < len(l.rows) && l.rows[idx].OrderNumber == orderNumber {
		l.rows[idx].Sync = SyncConfirmed
	}
	l.mu.Unlock()
	return nil
}

// 表示中の行をCSVに書き出す。金額はサーバーの文字列をそのまま出す。
func (l *Orders) ExportCSV(w io.Writer) error {
	rows := l.Visible()
	if len(rows) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Order #", "Customer", "Date", "Amount", "Payment", "Status"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.OrderNumber,
			r.CustomerName,
			r.Date,
			r.TotalAmount,
			string(r.PaymentStatus),
			string(r.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
