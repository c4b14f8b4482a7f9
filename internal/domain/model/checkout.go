package model

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

type CheckoutCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type CheckoutPreviewItem struct {
	Qty      int64  `json:"qty"`
	Name     string `json:"name"`
	Subtotal string `json:"subtotal"`
}

// チェックアウト直前にサーバーが計算するプレビュー。
// 顧客情報のスナップショットと明細・合計を含む。
type CheckoutPreview struct {
	Customer    CheckoutCustomer      `json:"customer"`
	Items       []CheckoutPreviewItem `json:"items"`
	TotalAmount string                `json:"total_amount"`
}
