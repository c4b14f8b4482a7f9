package api

import (
	"context"
	"fmt"

	"bizdesk/internal/domain/model"
)

func (c *Client) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var out []model.Customer
	err := c.get(ctx, "/customers/", &out)
	return out, err
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	var out model.Customer
	err := c.get(ctx, fmt.Sprintf("/customers/%d/", id), &out)
	return out, err
}

func (c *Client) CreateCustomer(ctx context.Context, cu model.Customer) (model.Customer, error) {
	var out model.Customer
	err := c.post(ctx, "/customers/", cu, &out)
	return out, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, cu model.Customer) (model.Customer, error) {
	var out model.Customer
	err := c.patch(ctx, fmt.Sprintf("/customers/%d/", id), cu, &out)
	return out, err
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/customers/%d/", id))
}
