package model

// アクセス/リフレッシュのトークンペア。
// refreshはローテーションされない場合は空で返ることがある。
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
