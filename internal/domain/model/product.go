package model

// ダッシュボード側の商品（サービスも同じテーブルで扱う）
type Product struct {
	ID          int64  `json:"id"`
	ItemType    string `json:"item_type"`
	ItemName    string `json:"item_name"`
	Brand       string `json:"brand_product"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Unit        string `json:"unit_product"`
	Quantity    int64  `json:"quantity_product"`
	BasePrice   string `json:"mrp_baseprice"`
	CostPrice   string `json:"cost_price_product"`
	GSTPercent  string `json:"gst_percent"`
	MinStock    int64  `json:"min_stock_product"`
	ImageURL    string `json:"item_image_url"`
	CreatedDate string `json:"created_date"`
}
