package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bizdesk/internal/domain/model"
)

// Namespaceは保存キーの組。
// ダッシュボード運営者とストアフロント顧客は別ペアで共存する。
type Namespace struct {
	AccessKey  string
	RefreshKey string
	NameKey    string
}

var (
	Dashboard  = Namespace{AccessKey: "accessToken", RefreshKey: "refreshToken", NameKey: "userName"}
	Storefront = Namespace{AccessKey: "customer_token", RefreshKey: "customer_refresh", NameKey: "customer_name"}
)

// TokenStoreは1つの身元（namespace）のトークンペアと表示名を扱う。
// 値は保持せず、毎回Storageから読む。
type TokenStore struct {
	st Storage
	ns Namespace
}

func NewTokenStore(st Storage, ns Namespace) *TokenStore {
	return &TokenStore{st: st, ns: ns}
}

func (t *TokenStore) AccessToken() (string, error) {
	return t.st.Get(t.ns.AccessKey)
}

func (t *TokenStore) RefreshToken() (string, error) {
	return t.st.Get(t.ns.RefreshKey)
}

func (t *TokenStore) DisplayName() (string, error) {
	return t.st.Get(t.ns.NameKey)
}

func (t *TokenStore) SetDisplayName(name string) error {
	return t.st.Set(t.ns.NameKey, name)
}

// ログイン時に保存する
func (t *TokenStore) SetPair(pair model.TokenPair) error {
	if err := t.st.Set(t.ns.AccessKey, pair.Access); err != nil {
		return err
	}
	return t.st.Set(t.ns.RefreshKey, pair.Refresh)
}

// リフレッシュ後の保存。refreshが空ならアクセスだけ差し替える。
func (t *TokenStore) SetRefreshed(pair model.TokenPair) error {
	if err := t.st.Set(t.ns.AccessKey, pair.Access); err != nil {
		return err
	}
	if pair.Refresh == "" {
		return nil
	}
	return t.st.Set(t.ns.RefreshKey, pair.Refresh)
}

// ログアウトと回復不能なリフレッシュ失敗で呼ぶ
func (t *TokenStore) Clear() error {
	if err := t.st.Delete(t.ns.AccessKey); err != nil {
		return err
	}
	if err := t.st.Delete(t.ns.RefreshKey); err != nil {
		return err
	}
	return t.st.Delete(t.ns.NameKey)
}

// アクセストークンを保持しているか（有効期限は見ない）
func (t *TokenStore) Authenticated() bool {
	access, err := t.AccessToken()
	return err == nil && access != ""
}

// アクセストークンのexpをパースして返す。
// 署名検証はしない（シークレットはサーバーのもの）。
func (t *TokenStore) AccessExpiresAt() (time.Time, bool) {
	access, err := t.AccessToken()
	if err != nil || access == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
