package fakeapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/idilsaglam/coolsave/internal/model"
)

const (
	MessageFailedBodyRequest = "failed to parse request body"
	MessageFailedValidation  = "invalid food product"
	MessageNotFound          = "not found"
	MessageInjectedFailure   = "injected failure"
)

type foodRequest struct {
	Name           string         `json:"name" validate:"required"`
	Category       model.Category `json:"category" validate:"required"`
	ExpirationDate string         `json:"expirationDate" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func (b *Backend) routes() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true, Immutable: true})
	app.Use(b.recorder)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	{
		food := api.Group("/food-products")
		food.Get("/", b.listFood)
		food.Post("/", b.createFood)
		food.Get("/:id", b.showFood)
		food.Put("/:id", b.editFood)
		food.Delete("/:id", b.removeFood)

		recipe := api.Group("/recipe")
		recipe.Get("/", b.listRecipes)
		recipe.Get("/generate", b.generateRecipe)
		recipe.Delete("/:id", b.removeRecipe)

		api.Get("/sensors/latest", func(c *fiber.Ctx) error {
			return c.JSON(b.latest())
		})
	}
	return app
}

// recorder logs every request and applies injected failures.
func (b *Backend) recorder(c *fiber.Ctx) error {
	if status := b.record(c.Method(), c.Path()); status != 0 {
		return errorResponse(c, status, MessageInjectedFailure, nil)
	}
	err := c.Next()
	b.log.Debug("fakeapi", "method", c.Method(), "path", c.Path(), "status", c.Response().StatusCode())
	return err
}

func errorResponse(c *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

func (b *Backend) listFood(c *fiber.Ctx) error {
	items := b.Food()
	if items == nil {
		items = []model.FoodItem{}
	}
	return c.JSON(items)
}

func (b *Backend) showFood(c *fiber.Ctx) error {
	it, err := b.getFood(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, MessageNotFound, err)
	}
	return c.JSON(it)
}

// parseFood decodes and checks a create/update body. On failure it returns
// the message to answer with.
func (b *Backend) parseFood(c *fiber.Ctx) (model.FoodInput, string, error) {
	req := new(foodRequest)
	if err := c.BodyParser(req); err != nil {
		return model.FoodInput{}, MessageFailedBodyRequest, err
	}
	if err := b.validate.Struct(req); err != nil {
		return model.FoodInput{}, MessageFailedValidation, err
	}
	if !req.Category.Known() {
		return model.FoodInput{}, MessageFailedValidation, errors.New("unknown category")
	}
	in := model.FoodInput{Name: req.Name, Category: req.Category}
	if err := in.ExpirationDate.UnmarshalText([]byte(req.ExpirationDate)); err != nil {
		return model.FoodInput{}, MessageFailedValidation, err
	}
	return in, "", nil
}

func (b *Backend) createFood(c *fiber.Ctx) error {
	in, msg, err := b.parseFood(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	it, err := b.addFood(in)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "failed to persist", err)
	}
	return c.Status(fiber.StatusCreated).JSON(it)
}

func (b *Backend) editFood(c *fiber.Ctx) error {
	in, msg, err := b.parseFood(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	it, err := b.updateFood(c.Params("id"), in)
	if errors.Is(err, ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, MessageNotFound, err)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "failed to persist", err)
	}
	return c.JSON(it)
}

func (b *Backend) removeFood(c *fiber.Ctx) error {
	err := b.deleteFood(c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, MessageNotFound, err)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "failed to persist", err)
	}
	return c.JSON(fiber.Map{"message": "food product deleted"})
}

func (b *Backend) listRecipes(c *fiber.Ctx) error {
	rs := b.Recipes()
	if rs == nil {
		rs = []model.Recipe{}
	}
	return c.JSON(rs)
}

func (b *Backend) generateRecipe(c *fiber.Ctx) error {
	r, err := b.generate()
	if errors.Is(err, ErrNoIngredients) {
		return errorResponse(c, fiber.StatusUnprocessableEntity, err.Error(), nil)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "failed to persist", err)
	}
	return c.JSON(r)
}

func (b *Backend) removeRecipe(c *fiber.Ctx) error {
	err := b.deleteRecipe(c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, MessageNotFound, err)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "failed to persist", err)
	}
	return c.JSON(fiber.Map{"message": "recipe deleted"})
}
