package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/idilsaglam/coolsave/internal/model"
)

// ListFood fetches every food item in server order.
func (c *Client) ListFood(ctx context.Context) ([]model.FoodItem, error) {
	const op = "list food"
	data, err := c.do(ctx, op, http.MethodGet, c.url(pathFood), nil)
	if err != nil {
		return nil, err
	}
	var items []model.FoodItem
	if err := decode(op, data, &items); err != nil {
		return nil, err
	}
	if err := validateAll(op, items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetFood fetches one item, used to prefill the edit form.
func (c *Client) GetFood(ctx context.Context, id string) (model.FoodItem, error) {
	const op = "get food"
	target, err := c.itemURL(op, pathFood, id)
	if err != nil {
		return model.FoodItem{}, err
	}
	data, err := c.do(ctx, op, http.MethodGet, target, nil)
	if err != nil {
		return model.FoodItem{}, err
	}
	var it model.FoodItem
	if err := decode(op, data, &it); err != nil {
		return model.FoodItem{}, err
	}
	if err := it.Validate(); err != nil {
		return model.FoodItem{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
	}
	return it, nil
}

// CreateFood posts a new item. The echoed item is best effort: success is
// all the caller relies on, so an unusable body yields ok=false, not an error.
func (c *Client) CreateFood(ctx context.Context, in model.FoodInput) (it model.FoodItem, ok bool, err error) {
	data, err := c.do(ctx, "create food", http.MethodPost, c.url(pathFood), in)
	if err != nil {
		return model.FoodItem{}, false, err
	}
	it, ok = c.echoed("create food", data)
	return it, ok, nil
}

// UpdateFood replaces an item. See CreateFood for the echoed result.
func (c *Client) UpdateFood(ctx context.Context, id string, in model.FoodInput) (it model.FoodItem, ok bool, err error) {
	target, err := c.itemURL("update food", pathFood, id)
	if err != nil {
		return model.FoodItem{}, false, err
	}
	data, err := c.do(ctx, "update food", http.MethodPut, target, in)
	if err != nil {
		return model.FoodItem{}, false, err
	}
	it, ok = c.echoed("update food", data)
	return it, ok, nil
}

// DeleteFood removes an item. The response body is ignored.
func (c *Client) DeleteFood(ctx context.Context, id string) error {
	target, err := c.itemURL("delete food", pathFood, id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "delete food", http.MethodDelete, target, nil)
	return err
}

func (c *Client) echoed(op string, data []byte) (model.FoodItem, bool) {
	var it model.FoodItem
	if err := decode(op, data, &it); err != nil {
		c.log.Debug("ignoring response body", "op", op, "err", err)
		return model.FoodItem{}, false
	}
	if err := it.Validate(); err != nil {
		c.log.Debug("ignoring response body", "op", op, "err", err)
		return model.FoodItem{}, false
	}
	return it, true
}
