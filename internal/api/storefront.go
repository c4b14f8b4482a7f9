package api

import (
	"context"
	"net/url"

	"bizdesk/internal/domain/model"
)

// ストアフロント（/business/{slug}/...）の顧客向けAPI。
// slugごとに別テナントのストアになる。

func (c *Client) StorefrontItems(ctx context.Context, slug string) ([]model.Product, error) {
	var out []model.Product
	err := c.get(ctx, "/business/"+url.PathEscape(slug)+"/items/", &out)
	return out, err
}

type CustomerSignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ログイン系が返すトークンと表示名
type CustomerAuth struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Name    string `json:"name"`
}

func (a CustomerAuth) TokenPair() model.TokenPair {
	return model.TokenPair{Access: a.Access, Refresh: a.Refresh}
}

func (c *Client) CustomerSignup(ctx context.Context, slug string, req CustomerSignupRequest) error {
	return c.post(ctx, storefrontPath(slug, "signup"), req, nil)
}

type customerLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) CustomerLogin(ctx context.Context, slug string, email string, password string) (CustomerAuth, error) {
	var out CustomerAuth
	err := c.post(ctx, storefrontPath(slug, "login"), customerLoginRequest{Email: email, Password: password}, &out)
	return out, err
}

type customerOTPRequest struct {
	Email string `json:"email"`
}

type customerOTPVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ログイン用OTPをメールに送ってもらう
func (c *Client) CustomerRequestLoginOTP(ctx context.Context, slug string, email string) error {
	return c.post(ctx, storefrontPath(slug, "login/otp"), customerOTPRequest{Email: email}, nil)
}

func (c *Client) CustomerVerifyLoginOTP(ctx context.Context, slug string, email string, otp string) (CustomerAuth, error) {
	var out CustomerAuth
	err := c.post(ctx, storefrontPath(slug, "login/otp/verify"), customerOTPVerifyRequest{Email: email, OTP: otp}, &out)
	return out, err
}

func (c *Client) CustomerForgotPassword(ctx context.Context, slug string, email string) error {
	return c.post(ctx, storefrontPath(slug, "forgot-password"), customerOTPRequest{Email: email}, nil)
}

type customerResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (c *Client) CustomerResetPassword(ctx context.Context, slug string, email string, otp string, newPassword string) error {
	return c.post(ctx, storefrontPath(slug, "reset-password"), customerResetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword}, nil)
}

func storefrontPath(slug string, op string) string {
	return "/business/" + url.PathEscape(slug) + "/customer/" + op + "/"
}
