package api

import (
	"context"
	"net/http"
	"net/url"

	"bizdesk/internal/domain/model"
)

// 注文確定の多重送信をバックエンド側で弾くためのキー
const idempotencyKeyHeader = "Idempotency-Key"

func (c *Client) ViewCart(ctx context.Context) (model.Cart, error) {
	var out model.Cart
	err := c.get(ctx, "/customer/cart/", &out)
	return out, err
}

type addToCartRequest struct {
	Item     int64 `json:"item"`
	Quantity int64 `json:"quantity"`
}

func (c *Client) AddToCart(ctx context.Context, itemID int64, quantity int64) error {
	return c.post(ctx, "/customer/cart/add/", addToCartRequest{Item: itemID, Quantity: quantity}, nil)
}

type updateCartItemRequest struct {
	Item   int64                `json:"item"`
	Action model.CartItemAction `json:"action"`
}

// 数量変更の意図だけを送る。結果の数量・金額は再取得で受け取る。
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, action model.CartItemAction) error {
	return c.post(ctx, "/customer/cart/update/", updateCartItemRequest{Item: itemID, Action: action}, nil)
}

func (c *Client) CheckoutPreview(ctx context.Context) (model.CheckoutPreview, error) {
	var out model.CheckoutPreview
	err := c.get(ctx, "/customer/cart/checkout/preview/", &out)
	return out, err
}

type cashCheckoutRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

// 注文確定。idempotencyKeyは同じ試行の再送で同じ値を渡すこと。
func (c *Client) CashCheckout(ctx context.Context, method model.PaymentMethod, idempotencyKey string) error {
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set(idempotencyKeyHeader, idempotencyKey)
	}
	return c.do(ctx, http.MethodPost, "/customer/cart/checkout/cash/", header, cashCheckoutRequest{PaymentMethod: method}, nil)
}

func (c *Client) CustomerOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := c.get(ctx, "/customer/orders/", &out)
	return out, err
}

func (c *Client) CancelOrder(ctx context.Context, orderNumber string) error {
	return c.post(ctx, "/customer/order/"+url.PathEscape(orderNumber)+"/cancel/", nil, nil)
}
