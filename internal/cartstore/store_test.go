package cartstore

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/api"
	"bizdesk/internal/domain/model"
	"bizdesk/internal/session"
)

// =====================
// 偽バックエンド：数量と金額はサーバーだけが計算する
// =====================

type fakeCartServer struct {
	mu          sync.Mutex
	quantity    int64 //1明細だけのカート
	unitPrice   int64
	failUpdate  bool
	updateDelay time.Duration
	fetchCount  int
	updateCount int
}

func (s *fakeCartServer) start() *httptest.Server {
	e := echo.New()

	e.GET("/api/v1/customer/cart/", func(c echo.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.fetchCount++

		cart := map[string]any{"id": 1, "items": []any{}, "total_amount": "0.00"}
		if s.quantity > 0 {
			subtotal := fmt.Sprintf("%d.00", s.quantity*s.unitPrice)
			cart["items"] = []any{map[string]any{
				"id": 10, "item": 42, "item_name": "Masala Tea",
				"mrp_baseprice": fmt.Sprintf("%d.00", s.unitPrice),
				"quantity":      s.quantity,
				"subtotal":      subtotal,
			}}
			cart["total_amount"] = subtotal
		}
		return c.JSON(http.StatusOK, cart)
	})

	e.POST("/api/v1/customer/cart/update/", func(c echo.Context) error {
		var req struct {
			Item   int64  `json:"item"`
			Action string `json:"action"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid"})
		}

		if s.updateDelay > 0 {
			time.Sleep(s.updateDelay)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.updateCount++
		if s.failUpdate {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		switch model.CartItemAction(req.Action) {
		case model.ActionIncrease:
			s.quantity++
		case model.ActionDecrease:
			if s.quantity > 0 {
				s.quantity--
			}
		case model.ActionRemove:
			s.quantity = 0
		default:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid action"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	e.POST("/api/v1/customer/cart/add/", func(c echo.Context) error {
		var req struct {
			Item     int64 `json:"item"`
			Quantity int64 `json:"quantity"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid"})
		}
		s.mu.Lock()
		s.quantity += req.Quantity
		s.mu.Unlock()
		return c.JSON(http.StatusCreated, map[string]string{"message": "added"})
	})

	return httptest.NewServer(e)
}

func newStore(t *testing.T, srv *httptest.Server, loggedIn bool) *Store {
	t.Helper()

	tokens := session.NewTokenStore(session.NewMemoryStore(), session.Storefront)
	if loggedIn {
		require.NoError(t, tokens.SetPair(model.TokenPair{Access: "a", Refresh: "r"}))
	}
	return New(api.New(srv.URL, nil), tokens)
}

// =====================
// tests
// =====================

func TestStore_Fetch_NoopWithoutToken(t *testing.T) {
	s := &fakeCartServer{quantity: 1, unitPrice: 100}
	srv := s.start()
	defer srv.Close()

	store := newStore(t, srv, false)
	assert.NoError(t, store.Fetch(context.Background()))
	assert.Nil(t, store.Cart(), "未ログインでは取得しない")
	assert.Equal(t, 0, s.fetchCount)
}

func TestStore_Fetch_OverwritesWholesale(t *testing.T) {
	s := &fakeCartServer{quantity: 1, unitPrice: 100}
	srv := s.start()
	defer srv.Close()

	store := newStore(t, srv, true)
	require.NoError(t, store.Fetch(context.Background()))

	cart := store.Cart()
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "100.00", cart.TotalAmount)

	//サーバー側が変わったら次のFetchで丸ごと置き換わる
	s.mu.Lock()
	s.quantity = 0
	s.mu.Unlock()
	require.NoError(t, store.Fetch(context.Background()))
	assert.True(t, store.Cart().Empty())
}

// 数量1・単価₹100のカートでincreaseを1回 → サーバー再取得で数量2、小計・合計₹200
func TestStore_UpdateQuantity_ServerAuthoritativeTotals(t *testing.T) {
	s := &fakeCartServer{quantity: 1, unitPrice: 100}
	srv := s.start()
	defer srv.Close()

	store := newStore(t, srv, true)
	require.NoError(t, store.Fetch(context.Background()))

	require.NoError(t, store.UpdateQuantity(context.Background(), 42, model.ActionIncrease))

	cart := store.Cart()
	require.Len(t, cart.Items, 1)
	assert.EqualValues(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "200.00", cart.Items[0].Subtotal)
	assert.Equal(t, "200.00", cart.TotalAmount)
	assert.Equal(t, 1, s.updateCount)
	assert.Equal(t, 2, s.fetchCount, "変更のたびに再取得する")
}

// increaseを2回順番に待って実行 → サーバー報告の数量が開始値+2
func TestStore_UpdateQuantity_SequentialIncreasesAreIdempotentIntents(t *testing.T) {
	s := &fakeCartServer{quantity: 1, unitPrice: 100}
	srv := s.start()
	defer srv.Close()

	store := newStore(t, srv, true)
	require.NoError(t, store.UpdateQuantity(context.Background(), 42, model.ActionIncrease))
	require.NoError(t, store.UpdateQuantity(context.Background(), 42, model.ActionIncrease))

	cart := store.Cart()
	require.Len(t, cart.Items, 1)
	assert.EqualValues(t, 3, cart.Items[0].Quantity, "クライアント計算ではなくサーバー報告の値")
	assert.Equal(t, "300.00", cart.TotalAmount)
}

func TestStore_UpdateQuantity_FailureLeavesStateUntouched(t *testing.T) {
	s := &fakeCartServer{quantity: 1, unitPrice: 100}
	srv := s.start()
	defer srv.Close()

	store := newStore(t, srv, true)
	require.NoError(t, store.Fetch(context.Background()))
	before := store.Cart()

	s.mu.Lock()
	s.failUpdate = true
	s.mu.Unlock()

	err := store.UpdateQuantity(context.Background(), 42, model.ActionIncrease)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, before, store.Cart(), "失敗時はローカル状態を触らない")
}

func TestStore_UpdateQuantity_RemoveEmptiesCart(t *testing.T) {
	s := &fakeCartServer{quantity: 3, unitPrice: 100}
	srv := s.start()
	defer srv.Close()

	store := newStore(t, srv, true)
	require.NoError(t, store.UpdateQuantity(context.Background(), 42, model.ActionRemove))
	assert.True(t, store.Cart().Empty())
}

// 同じ明細の更新が進行中の間、その明細への二重送信は弾かれる
func TestStore_UpdateQuantity_GuardsSameItemInFlight(t *testing.T) {
	s := &fakeCartServer{quantity: 1, unitPrice: 100, updateDelay: 60 * time.Millisecond}
	srv := s.start()
	defer srv.Close()

	store := newStore(t, srv, true)

	done := make(chan error, 1)
	go func() {
		done <- store.UpdateQuantity(context.Background(), 42, model.ActionIncrease)
	}()

	//進行中になるのを待つ
	require.Eventually(t, func() bool { return store.Updating(42) }, time.Second, 5*time.Millisecond)

	err := store.UpdateQuantity(context.Background(), 42, model.ActionIncrease)
	assert.ErrorIs(t, err, ErrItemUpdating)

	require.NoError(t, <-done)
	assert.False(t, store.Updating(42), "完了したらマーカーは外れる")
	assert.Equal(t, 1, s.updateCount)
}

func TestStore_AddItem_Resyncs(t *testing.T) {
	s := &fakeCartServer{quantity: 0, unitPrice: 100}
	srv := s.start()
	defer srv.Close()

	store := newStore(t, srv, true)
	require.NoError(t, store.AddItem(context.Background(), 42, 2))

	cart := store.Cart()
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
	assert.EqualValues(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "200.00", cart.TotalAmount)
}
