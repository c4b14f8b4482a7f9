package model

type InvoiceStatus string

const (
	InvoiceStatusPaid   InvoiceStatus = "Paid"
	InvoiceStatusUnpaid InvoiceStatus = "Unpaid"
)

type InvoiceItem struct {
	Item            int64  `json:"item"`
	Quantity        int64  `json:"quantity"`
	Rate            string `json:"rate"`
	DiscountPercent string `json:"discount_percent"`
	GSTPercent      string `json:"gst_percent"`
	TotalValue      string `json:"total_value"`
}

// 請求書。税・丸めはサーバー計算済みの値を保持するだけ。
type Invoice struct {
	ID           int64         `json:"id"`
	InvoiceID    string        `json:"invoice_id"`
	Date         string        `json:"date"`
	CustomerName string        `json:"customer_name"`
	TotalValue   string        `json:"total_value"`
	TotalGST     string        `json:"total_gst"`
	RoundOff     string        `json:"round_off"`
	NetPayable   string        `json:"net_payable"`
	PaymentMode  string        `json:"payment_mode"`
	Status       InvoiceStatus `json:"status"`
	Note         string        `json:"note"`
	InvoiceItems []InvoiceItem `json:"invoice_items"`
}
