package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/idilsaglam/coolsave/internal/model"
)

func (c *Client) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	const op = "list recipes"
	data, err := c.do(ctx, op, http.MethodGet, c.url(pathRecipe), nil)
	if err != nil {
		return nil, err
	}
	var recipes []model.Recipe
	if err := decode(op, data, &recipes); err != nil {
		return nil, err
	}
	if err := validateAll(op, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GenerateRecipe asks the server to build a recipe from the current inventory.
func (c *Client) GenerateRecipe(ctx context.Context) (model.Recipe, error) {
	const op = "generate recipe"
	data, err := c.do(ctx, op, http.MethodGet, c.url(pathGenerate), nil)
	if err != nil {
		return model.Recipe{}, err
	}
	var r model.Recipe
	if err := decode(op, data, &r); err != nil {
		return model.Recipe{}, err
	}
	if err := r.Validate(); err != nil {
		return model.Recipe{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
	}
	return r, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	target, err := c.itemURL("delete recipe", pathRecipe, id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "delete recipe", http.MethodDelete, target, nil)
	return err
}
