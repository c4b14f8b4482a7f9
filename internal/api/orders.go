package api

import (
	"context"
	"fmt"
	"net/url"

	"bizdesk/internal/domain/model"
)

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := c.get(ctx, "/orders/", &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, orderNumber string) (model.Order, error) {
	var out model.Order
	err := c.get(ctx, "/orders/"+url.PathEscape(orderNumber)+"/", &out)
	return out, err
}

type updateOrderStatusRequest struct {
	Status        model.OrderStatus   `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

// 注文状態の更新。statusとpayment_statusを両方送る（サーバーの契約）。
func (c *Client) UpdateOrderStatus(ctx context.Context, orderNumber string, status model.OrderStatus, payment model.PaymentStatus) error {
	path := fmt.Sprintf("/orders/%s/update-status/", url.PathEscape(orderNumber))
	return c.patch(ctx, path, updateOrderStatusRequest{Status: status, PaymentStatus: payment}, nil)
}
