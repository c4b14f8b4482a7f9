package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"bizdesk/internal/domain/model"
	"bizdesk/internal/session"
)

type State string

const (
	StateLoadingPreview State = "LOADING_PREVIEW"
	StatePreviewReady   State = "PREVIEW_READY"
	StatePlacingOrder   State = "PLACING_ORDER"
	StatePlaced         State = "PLACED"
	StateFailed         State = "FAILED"
)

// Navigationは呼び出し側（UI層）への遷移指示。
// ルーティング自体はこのパッケージの仕事ではない。
type Navigation int

const (
	NavNone Navigation = iota
	NavStorefront
	NavOrderHistory
)

var (
	ErrNotReady              = errors.New("checkout: preview not ready")
	ErrPlacing               = errors.New("checkout: order placement in flight")
	ErrPaymentMethodDisabled = errors.New("checkout: payment method not available")
)

type PaymentOption struct {
	Method  model.PaymentMethod
	Enabled bool
}

// CheckoutAPIはFlowが使うエンドポイントの約束
type CheckoutAPI interface {
	CheckoutPreview(ctx context.Context) (model.CheckoutPreview, error)
	CashCheckout(ctx context.Context, method model.PaymentMethod, idempotencyKey string) error
}

// Flowは1回のチェックアウト試行。
//
//	LOADING_PREVIEW → PREVIEW_READY → PLACING_ORDER → PLACED | FAILED
//
// 冪等キーはStart成功時に1つ採番し、同じFlowの再送では使い回す。
// 新しい試行は新しいFlowを作ること。
type Flow struct {
	api    CheckoutAPI
	tokens *session.TokenStore

	mu      sync.Mutex
	state   State
	preview model.CheckoutPreview
	idemKey string
}

func NewFlow(api CheckoutAPI, tokens *session.TokenStore) *Flow {
	return &Flow{
		api:    api,
		tokens: tokens,
		state:  StateLoadingPreview,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// プレビュー。2番目の戻り値はStart成功後にtrue。
func (f *Flow) Preview() (model.CheckoutPreview, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview, f.state != StateLoadingPreview
}

// 選べる支払い方法。オンライン決済は画面上は見えるが未配線。
func (f *Flow) PaymentMethods() []PaymentOption {
	return []PaymentOption{
		{Method: model.PaymentMethodCash, Enabled: true},
		{Method: model.PaymentMethodOnline, Enabled: false},
	}
}

// チェックアウト開始。プレビューをサーバーから取る。
//   - 未ログインならストアフロントへ戻す（ガードであってエラーではない）
//   - プレビュー取得に失敗したらストアフロントへ戻し、エラーも返す
func (f *Flow) Start(ctx context.Context) (Navigation, error) {
	if !f.tokens.Authenticated() {
		return NavStorefront, nil
	}

	preview, err := f.api.CheckoutPreview(ctx)
	if err != nil {
		//プレビューなしでチェックアウト画面に留まらせない
		return NavStorefront, err
	}

	f.mu.Lock()
	f.preview = preview
	f.state = StatePreviewReady
	f.idemKey = uuid.NewString()
	f.mu.Unlock()

	return NavNone, nil
}

// 注文確定。成功したら注文履歴へ。
// 失敗時はFAILEDに落として再送可能のまま返す（カートはサーバー側で温存される前提）。
func (f *Flow) PlaceOrder(ctx context.Context, method model.PaymentMethod) (Navigation, error) {
	if !f.enabled(method) {
		return NavNone, ErrPaymentMethodDisabled
	}

	f.mu.Lock()
	switch f.state {
	case StatePreviewReady, StateFailed:
		//進める
	case StatePlacingOrder:
		f.mu.Unlock()
		return NavNone, ErrPlacing
	default:
		f.mu.Unlock()
		return NavNone, ErrNotReady
	}
	f.state = StatePlacingOrder
	key := f.idemKey
	f.mu.Unlock()

	if err := f.api.CashCheckout(ctx, method, key); err != nil {
		f.mu.Lock()
		f.state = StateFailed
		f.mu.Unlock()
		return NavNone, err
	}

	f.mu.Lock()
	f.state = StatePlaced
	f.mu.Unlock()
	return NavOrderHistory, nil
}

func (f *Flow) enabled(method model.PaymentMethod) bool {
	for _, opt := range f.PaymentMethods() {
		if opt.Method == method {
			return opt.Enabled
		}
	}
	return false
}
