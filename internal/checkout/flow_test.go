package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/domain/model"
	"bizdesk/internal/session"
)

// =====================
// Mock: CheckoutAPI
// =====================

type MockCheckoutAPI struct {
	mock.Mock
}

func (m *MockCheckoutAPI) CheckoutPreview(ctx context.Context) (model.CheckoutPreview, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(model.CheckoutPreview)
	return p, args.Error(1)
}

func (m *MockCheckoutAPI) CashCheckout(ctx context.Context, method model.PaymentMethod, idempotencyKey string) error {
	args := m.Called(ctx, method, idempotencyKey)
	return args.Error(0)
}

var _ CheckoutAPI = (*MockCheckoutAPI)(nil)

// =====================
// helper
// =====================

func testTokens(t *testing.T, loggedIn bool) *session.TokenStore {
	t.Helper()
	tokens := session.NewTokenStore(session.NewMemoryStore(), session.Storefront)
	if loggedIn {
		require.NoError(t, tokens.SetPair(model.TokenPair{Access: "a", Refresh: "r"}))
	}
	return tokens
}

func samplePreview() model.CheckoutPreview {
	return model.CheckoutPreview{
		Customer:    model.CheckoutCustomer{Name: "Asha", Phone: "9900112233", Email: "asha@example.com"},
		Items:       []model.CheckoutPreviewItem{{Qty: 2, Name: "Masala Tea", Subtotal: "200.00"}},
		TotalAmount: "200.00",
	}
}

// =====================
// tests
// =====================

func TestFlow_Start_RedirectsWithoutToken(t *testing.T) {
	m := &MockCheckoutAPI{}
	flow := NewFlow(m, testTokens(t, false))

	nav, err := flow.Start(context.Background())

	assert.NoError(t, err, "ガードであってエラーではない")
	assert.Equal(t, NavStorefront, nav)
	m.AssertNotCalled(t, "CheckoutPreview", mock.Anything)
}

func TestFlow_Start_PreviewFailureRedirects(t *testing.T) {
	m := &MockCheckoutAPI{}
	m.On("CheckoutPreview", mock.Anything).Return(model.CheckoutPreview{}, errors.New("boom"))

	flow := NewFlow(m, testTokens(t, true))
	nav, err := flow.Start(context.Background())

	assert.Error(t, err)
	assert.Equal(t, NavStorefront, nav, "プレビューなしでチェックアウトに留まらせない")
	assert.Equal(t, StateLoadingPreview, flow.State())
}

func TestFlow_Start_LoadsPreview(t *testing.T) {
	m := &MockCheckoutAPI{}
	m.On("CheckoutPreview", mock.Anything).Return(samplePreview(), nil)

	flow := NewFlow(m, testTokens(t, true))
	assert.Equal(t, StateLoadingPreview, flow.State())

	nav, err := flow.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NavNone, nav)
	assert.Equal(t, StatePreviewReady, flow.State())

	preview, ok := flow.Preview()
	require.True(t, ok)
	assert.Equal(t, "200.00", preview.TotalAmount)
	assert.Equal(t, "Asha", preview.Customer.Name)
}

func TestFlow_PlaceOrder_Succeeds(t *testing.T) {
	m := &MockCheckoutAPI{}
	m.On("CheckoutPreview", mock.Anything).Return(samplePreview(), nil)
	m.On("CashCheckout", mock.Anything, model.PaymentMethodCash, mock.AnythingOfType("string")).Return(nil)

	flow := NewFlow(m, testTokens(t, true))
	_, err := flow.Start(context.Background())
	require.NoError(t, err)

	nav, err := flow.PlaceOrder(context.Background(), model.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, NavOrderHistory, nav, "成功したら注文履歴へ")
	assert.Equal(t, StatePlaced, flow.State())
}

func TestFlow_PlaceOrder_BeforePreviewIsRejected(t *testing.T) {
	m := &MockCheckoutAPI{}
	flow := NewFlow(m, testTokens(t, true))

	_, err := flow.PlaceOrder(context.Background(), model.PaymentMethodCash)
	assert.ErrorIs(t, err, ErrNotReady)
	m.AssertNotCalled(t, "CashCheckout", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlow_PlaceOrder_DisabledMethodIsRejected(t *testing.T) {
	m := &MockCheckoutAPI{}
	m.On("CheckoutPreview", mock.Anything).Return(samplePreview(), nil)

	flow := NewFlow(m, testTokens(t, true))
	_, err := flow.Start(context.Background())
	require.NoError(t, err)

	//オンライン決済は画面上は見えるが未配線
	_, err = flow.PlaceOrder(context.Background(), model.PaymentMethodOnline)
	assert.ErrorIs(t, err, ErrPaymentMethodDisabled)
	m.AssertNotCalled(t, "CashCheckout", mock.Anything, mock.Anything, mock.Anything)
}

// 失敗 → FAILEDのまま再送できる。同じ試行なので冪等キーは同じ。
func TestFlow_PlaceOrder_RetryReusesIdempotencyKey(t *testing.T) {
	m := &MockCheckoutAPI{}
	m.On("CheckoutPreview", mock.Anything).Return(samplePreview(), nil)

	var keys []string
	m.On("CashCheckout", mock.Anything, model.PaymentMethodCash, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { keys = append(keys, args.String(2)) }).
		Return(errors.New("network down")).Once()
	m.On("CashCheckout", mock.Anything, model.PaymentMethodCash, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { keys = append(keys, args.String(2)) }).
		Return(nil).Once()

	flow := NewFlow(m, testTokens(t, true))
	_, err := flow.Start(context.Background())
	require.NoError(t, err)

	_, err = flow.PlaceOrder(context.Background(), model.PaymentMethodCash)
	require.Error(t, err)
	assert.Equal(t, StateFailed, flow.State(), "失敗しても再送可能のまま")

	nav, err := flow.PlaceOrder(context.Background(), model.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, NavOrderHistory, nav)

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1], "同じ試行の再送は同じキー")
}

// 新しいフロー（新しい試行）は新しい冪等キーを採番する
func TestFlow_NewAttemptMintsNewKey(t *testing.T) {
	newKey := func() string {
		m := &MockCheckoutAPI{}
		m.On("CheckoutPreview", mock.Anything).Return(samplePreview(), nil)

		var key string
		m.On("CashCheckout", mock.Anything, model.PaymentMethodCash, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { key = args.String(2) }).
			Return(nil)

		flow := NewFlow(m, testTokens(t, true))
		_, err := flow.Start(context.Background())
		require.NoError(t, err)
		_, err = flow.PlaceOrder(context.Background(), model.PaymentMethodCash)
		require.NoError(t, err)
		return key
	}

	assert.NotEqual(t, newKey(), newKey())
}
