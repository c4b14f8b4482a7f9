package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"bizdesk/internal/domain/model"
	"bizdesk/internal/session"
)

var (
	// リフレッシュ不能。呼び出し側は強制ログアウト済みとして扱う。
	ErrSessionExpired = errors.New("session expired")
)

// 内部用。5xxをブレーカーの失敗として数えるためのマーカー。
var errServerUnavailable = errors.New("server unavailable")

// TokenRefresherはリフレッシュトークンから新しいペアを取得する。
// 実装は認証なしの素のクライアントであること（401の再帰を避ける）。
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
}

type RefreshFunc func(ctx context.Context, refreshToken string) (model.TokenPair, error)

func (f RefreshFunc) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	return f(ctx, refreshToken)
}

// AuthTransportは全リクエストにBearerトークンを付け、
// 401のときに一度だけリフレッシュして再送するRoundTripper。
//
//   - トークンは送信のたびにTokenStoreから読む（ローテーション即反映）
//   - 並行する401は singleflight で1回のリフレッシュに合流する
//   - 再送後の401は致命扱い：トークンを消してOnLogoutを呼ぶ
type AuthTransport struct {
	base      http.RoundTripper
	tokens    *session.TokenStore
	refresher TokenRefresher

	// 強制ログアウト時のフック（任意）
	OnLogout func()

	breaker *gobreaker.CircuitBreaker[*http.Response]
	sf      singleflight.Group
}

func NewAuthTransport(base http.RoundTripper, tokens *session.TokenStore, refresher TokenRefresher) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	})

	return &AuthTransport{
		base:      base,
		tokens:    tokens,
		refresher: refresher,
		breaker:   cb,
	}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	access, err := t.tokens.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("read access token: %w", err)
	}

	first := cloneRequest(req)
	if access != "" {
		first.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := t.send(first)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		//401以外はそのまま呼び出し側に返す
		return resp, nil
	}
	resp.Body.Close()

	pair, err := t.refreshOnce(req.Context())
	if err != nil {
		t.forceLogout()
		return nil, err
	}

	//再送は一度だけ。再び401なら致命。
	retry := cloneRequest(req)
	retry.Header.Set("Authorization", "Bearer "+pair.Access)

	resp, err = t.send(retry)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		t.forceLogout()
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// 並行リクエストの401を1回のリフレッシュに合流させる
func (t *AuthTransport) refreshOnce(ctx context.Context) (model.TokenPair, error) {
	v, err, _ := t.sf.Do("refresh", func() (any, error) {
		refresh, err := t.tokens.RefreshToken()
		if err != nil {
			return nil, err
		}
		if refresh == "" {
			//リフレッシュトークンが無ければネットワークは叩かない
			return nil, ErrSessionExpired
		}

		pair, err := t.refresher.Refresh(ctx, refresh)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		if err := t.tokens.SetRefreshed(pair); err != nil {
			return nil, err
		}
		return pair, nil
	})
	if err != nil {
		return model.TokenPair{}, err
	}
	return v.(model.TokenPair), nil
}

func (t *AuthTransport) forceLogout() {
	if err := t.tokens.Clear(); err != nil {
		log.Printf("transport: clear tokens: %v", err)
	}
	if t.OnLogout != nil {
		t.OnLogout()
	}
}

// ブレーカー越しに送る。失敗として数えるのはネットワークエラーと5xxのみで、
// 4xxはアプリケーションの結果なので成功扱い。
func (t *AuthTransport) send(req *http.Request) (*http.Response, error) {
	resp, err := t.breaker.Execute(func() (*http.Response, error) {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerUnavailable
		}
		return resp, nil
	})
	if errors.Is(err, errServerUnavailable) {
		//呼び出し側には普通のレスポンスとして返す
		return resp, nil
	}
	return resp, err
}

// 再送できるように元のリクエストからボディを作り直す
func cloneRequest(req *http.Request) *http.Request {
	r := req.Clone(req.Context())
	if req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			r.Body = body
		}
	}
	return r
}
