package model

// カート数量変更の操作種別（サーバーにそのまま送る）
type CartItemAction string

const (
	ActionIncrease CartItemAction = "increase"
	ActionDecrease CartItemAction = "decrease"
	ActionRemove   CartItemAction = "remove"
)

// カート明細。金額はサーバーが計算した10進文字列をそのまま保持する。
// クライアント側では再計算しない。
type CartItem struct {
	ID         int64  `json:"id"`
	Item       int64  `json:"item"`
	ItemName   string `json:"item_name"`
	BasePrice  string `json:"mrp_baseprice"`
	GrossPrice string `json:"gross_amount"`
	Quantity   int64  `json:"quantity"`
	Subtotal   string `json:"subtotal"`
}

// 表示用の実効単価。セール価格（gross）があればそれ、無ければ定価。
func (i CartItem) Price() string {
	if i.GrossPrice != "" {
		return i.GrossPrice
	}
	return i.BasePrice
}

// サーバーが返すカートのスナップショット
type Cart struct {
	ID          int64      `json:"id"`
	Items       []CartItem `json:"items"`
	TotalAmount string     `json:"total_amount"`
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}
