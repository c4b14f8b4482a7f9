package api

import (
	"context"

	"bizdesk/internal/domain/model"
)

// TokenClientはトークン発行・更新専用の認証なしクライアント。
// AuthTransportを通すとリフレッシュ自身が401で再帰するので分けている。
type TokenClient struct {
	c *Client
}

func NewTokenClient(baseURL string) *TokenClient {
	return &TokenClient{c: New(baseURL, nil)}
}

type obtainTokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

// ダッシュボードのログイン
func (t *TokenClient) Obtain(ctx context.Context, username string, password string) (model.TokenPair, error) {
	var pair model.TokenPair
	err := t.c.post(ctx, "/token/", obtainTokenRequest{Username: username, Password: password}, &pair)
	return pair, err
}

// ダッシュボードのアクセストークン更新
func (t *TokenClient) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	var pair model.TokenPair
	err := t.c.post(ctx, "/token/refresh/", refreshTokenRequest{Refresh: refreshToken}, &pair)
	return pair, err
}

// ストアフロント顧客のアクセストークン更新
func (t *TokenClient) RefreshCustomer(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	var pair model.TokenPair
	err := t.c.post(ctx, "/customer/token/refresh/", refreshTokenRequest{Refresh: refreshToken}, &pair)
	return pair, err
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// 運営者アカウント登録
func (t *TokenClient) Register(ctx context.Context, username string, email string, password string) error {
	return t.c.post(ctx, "/register/", registerRequest{Username: username, Email: email, Password: password}, nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (t *TokenClient) ForgotPassword(ctx context.Context, email string) error {
	return t.c.post(ctx, "/forgot-password/", forgotPasswordRequest{Email: email}, nil)
}

func (t *TokenClient) ResetPassword(ctx context.Context, email string, otp string, newPassword string) error {
	return t.c.post(ctx, "/reset-password/", resetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword}, nil)
}
