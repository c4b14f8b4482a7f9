package api

import (
	"context"
	"fmt"

	"bizdesk/internal/domain/model"
)

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := c.get(ctx, "/products/", &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	var out model.Product
	err := c.get(ctx, fmt.Sprintf("/products/%d/", id), &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	var out model.Product
	err := c.post(ctx, "/products/", p, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, p model.Product) (model.Product, error) {
	var out model.Product
	err := c.put(ctx, fmt.Sprintf("/products/%d/", id), p, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/products/%d/", id))
}
