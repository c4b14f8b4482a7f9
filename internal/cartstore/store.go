package cartstore

import (
	"context"
	"errors"
	"sync"

	"bizdesk/internal/domain/model"
	"bizdesk/internal/session"
)

var (
	// 同じ明細への操作が進行中
	ErrItemUpdating = errors.New("cart item update in flight")
)

// CartAPIはStoreが使うエンドポイントの約束
type CartAPI interface {
	ViewCart(ctx context.Context) (model.Cart, error)
	AddToCart(ctx context.Context, itemID int64, quantity int64) error
	UpdateCartItem(ctx context.Context, itemID int64, action model.CartItemAction) error
}

// Storeはサーバー正のカート状態を保持する。
//
// 正しさ（在庫上限・価格変更・丸め）は全部サーバーに委ねる設計で、
// どの変更も「意図を送って、成功したら全体を取り直す」。
// クライアント側で数量や合計を先回りして書き換えることはない。
type Store struct {
	api    CartAPI
	tokens *session.TokenStore

	mu       sync.Mutex
	cart     *model.Cart
	updating map[int64]bool
}

func New(api CartAPI, tokens *session.TokenStore) *Store {
	return &Store{
		api:      api,
		tokens:   tokens,
		updating: map[int64]bool{},
	}
}

// 最後に取得したスナップショット。未取得ならnil。
func (s *Store) Cart() *model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil {
		return nil
	}
	c := *s.cart
	c.Items = append([]model.CartItem(nil), s.cart.Items...)
	return &c
}

// itemIDの明細が更新中か。UI側は更新中の明細の操作を無効化する。
func (s *Store) Updating(itemID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating[itemID]
}

// カートを取り直してローカル状態を丸ごと差し替える。
// 未ログインなら何もしない（エラーにもしない）。認証状態は呼び出し側が見ること。
func (s *Store) Fetch(ctx context.Context) error {
	if !s.tokens.Authenticated() {
		return nil
	}

	cart, err := s.api.ViewCart(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart = &cart
	s.mu.Unlock()
	return nil
}

// 数量変更。成功したら無条件に再取得する。
// 失敗したらローカル状態は触らずエラーを返す（部分更新は仮定しない）。
func (s *Store) UpdateQuantity(ctx context.Context, itemID int64, action model.CartItemAction) error {
	if !s.tokens.Authenticated() {
		return nil
	}

	if err := s.begin(itemID); err != nil {
		return err
	}
	defer s.end(itemID)

	if err := s.api.UpdateCartItem(ctx, itemID, action); err != nil {
		return err
	}

	//合計・小計はサーバー計算なので必ず取り直す
	return s.refetch(ctx)
}

// 商品追加。更新と同じく追加後に再取得する。
func (s *Store) AddItem(ctx context.Context, itemID int64, quantity int64) error {
	if !s.tokens.Authenticated() {
		return nil
	}

	if err := s.begin(itemID); err != nil {
		return err
	}
	defer s.end(itemID)

	if err := s.api.AddToCart(ctx, itemID, quantity); err != nil {
		return err
	}

	return s.refetch(ctx)
}

func (s *Store) refetch(ctx context.Context) error {
	cart, err := s.api.ViewCart(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart = &cart
	s.mu.Unlock()
	return nil
}

// 同一明細の二重送信ガード。別の明細は並行してよい。
func (s *Store) begin(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updating[itemID] {
		return ErrItemUpdating
	}
	s.updating[itemID] = true
	return nil
}

func (s *Store) end(itemID int64) {
	s.mu.Lock()
	delete(s.updating, itemID)
	s.mu.Unlock()
}
