package api

import (
	"context"
	"fmt"

	"bizdesk/internal/domain/model"
)

func (c *Client) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	var out []model.Invoice
	err := c.get(ctx, "/invoices/", &out)
	return out, err
}

func (c *Client) GetInvoice(ctx context.Context, id int64) (model.Invoice, error) {
	var out model.Invoice
	err := c.get(ctx, fmt.Sprintf("/invoices/%d/", id), &out)
	return out, err
}

func (c *Client) CreateInvoice(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	var out model.Invoice
	err := c.post(ctx, "/invoices/", inv, &out)
	return out, err
}
