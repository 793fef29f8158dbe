// Package fakeapi is an in-memory stand-in for the Cool Save backend.
//
// It serves the same REST surface the client consumes so the client can be
// exercised locally and in tests. It is not the production server: recipe
// generation is a trivial template over the freshest items.
package fakeapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/idilsaglam/coolsave/internal/inventory"
	"github.com/idilsaglam/coolsave/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNoIngredients  = errors.New("no unexpired items to cook with")
	defaultTemp       = 5.0
	defaultHumidity   = 50.0
	maxRecipeElements = 5
)

// Request is one call the backend received.
type Request struct {
	Method string
	Path   string
}

func (r Request) String() string { return r.Method + " " + r.Path }

type failure struct {
	method, prefix string
	status         int
}

// Backend holds the inventory and records every request it serves.
type Backend struct {
	mu       sync.Mutex
	food     []model.FoodItem
	recipes  []model.Recipe
	reading  model.SensorReading
	requests []Request
	failures []failure

	path     string
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
	validate *validator.Validate
	app      *fiber.App
}

// Option configures a Backend.
type Option func(*Backend)

// WithFile persists the inventory to path after every mutation.
func WithFile(path string) Option { return func(b *Backend) { b.path = path } }

// WithClock fixes the time used for timestamps and recipe generation.
func WithClock(now func() time.Time) Option { return func(b *Backend) { b.now = now } }

// WithIDs replaces the uuid generator, for deterministic tests.
func WithIDs(next func() string) Option { return func(b *Backend) { b.newID = next } }

func WithLogger(l *slog.Logger) Option { return func(b *Backend) { b.log = l } }

// WithFood seeds the inventory.
func WithFood(items ...model.FoodItem) Option {
	return func(b *Backend) { b.food = append(b.food, items...) }
}

// WithRecipes seeds the recipe list.
func WithRecipes(rs ...model.Recipe) Option {
	return func(b *Backend) { b.recipes = append(b.recipes, rs...) }
}

// WithReading sets the sensor sample returned by api/sensors/latest.
func WithReading(r model.SensorReading) Option { return func(b *Backend) { b.reading = r } }

// New builds a backend. With WithFile, a previously saved inventory is loaded.
func New(opts ...Option) (*Backend, error) {
	t, h := defaultTemp, defaultHumidity
	b := &Backend{
		reading:  model.SensorReading{Temperature: &t, Humidity: &h},
		now:      time.Now,
		newID:    uuid.NewString,
		log:      slog.New(slog.DiscardHandler),
		validate: validator.New(),
	}
	for _, o := range opts {
		o(b)
	}
	if b.path != "" {
		snap, err := Load(b.path)
		if err != nil {
			return nil, err
		}
		if len(snap.Food) > 0 || len(snap.Recipes) > 0 {
			b.food, b.recipes = snap.Food, snap.Recipes
		}
		if snap.Reading.Temperature != nil || snap.Reading.Humidity != nil {
			b.reading = snap.Reading
		}
	}
	b.app = b.routes()
	return b, nil
}

// App is the Fiber application serving the REST surface.
func (b *Backend) App() *fiber.App { return b.app }

// Listen serves on addr until the app is shut down.
func (b *Backend) Listen(addr string) error { return b.app.Listen(addr) }

func (b *Backend) Shutdown() error { return b.app.Shutdown() }

// Transport routes client requests straight into the app, without a socket.
func (b *Backend) Transport() http.RoundTripper { return roundTripper{app: b.app} }

// Requests returns the calls served so far, oldest first.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Fail makes every request matching method and path prefix answer status,
// until Heal is called.
func (b *Backend) Fail(method, pathPrefix string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method: method, prefix: pathPrefix, status: status})
}

// Heal drops every injected failure.
func (b *Backend) Heal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = nil
}

func (b *Backend) record(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, Request{Method: strings.Clone(method), Path: strings.Clone(path)})
	for _, f := range b.failures {
		if f.method == method && strings.HasPrefix(path, f.prefix) {
			return f.status
		}
	}
	return 0
}

// Food returns the current inventory.
func (b *Backend) Food() []model.FoodItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.FoodItem(nil), b.food...)
}

func (b *Backend) Recipes() []model.Recipe {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Recipe(nil), b.recipes...)
}

// SetReading replaces the sensor sample.
func (b *Backend) SetReading(r model.SensorReading) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reading = r
}

func (b *Backend) latest() model.SensorReading {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reading
}

func (b *Backend) getFood(id string) (model.FoodItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, it := range b.food {
		if it.ID == id {
			return it, nil
		}
	}
	return model.FoodItem{}, fmt.Errorf("food %q: %w", id, ErrNotFound)
}

func (b *Backend) addFood(in model.FoodInput) (model.FoodItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now().UTC()
	it := model.FoodItem{
		ID:             b.newID(),
		Name:           in.Name,
		Category:       in.Category,
		ExpirationDate: in.ExpirationDate.UTC(),
		CreatedAt:      &now,
		UpdatedAt:      &now,
	}
	b.food = append(b.food, it)
	return it, b.persistLocked()
}

func (b *Backend) updateFood(id string, in model.FoodInput) (model.FoodItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, it := range b.food {
		if it.ID != id {
			continue
		}
		now := b.now().UTC()
		it.Name = in.Name
		it.Category = in.Category
		it.ExpirationDate = in.ExpirationDate.UTC()
		it.UpdatedAt = &now
		b.food[i] = it
		return it, b.persistLocked()
	}
	return model.FoodItem{}, fmt.Errorf("food %q: %w", id, ErrNotFound)
}

func (b *Backend) deleteFood(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, it := range b.food {
		if it.ID == id {
			b.food = append(b.food[:i], b.food[i+1:]...)
			return b.persistLocked()
		}
	}
	return fmt.Errorf("food %q: %w", id, ErrNotFound)
}

// generate builds a recipe from the unexpired items that expire soonest.
func (b *Backend) generate() (model.Recipe, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	today := model.DateOf(now)

	var fresh []model.FoodItem
	for _, it := range inventory.SortByExpiration(b.food) {
		if !inventory.IsExpired(it, today) {
			fresh = append(fresh, it)
		}
	}
	if len(fresh) == 0 {
		return model.Recipe{}, ErrNoIngredients
	}
	if len(fresh) > maxRecipeElements {
		fresh = fresh[:maxRecipeElements]
	}

	ingredients := make([]string, 0, len(fresh))
	for _, it := range fresh {
		ingredients = append(ingredients, it.Name)
	}
	steps := []string{
		"1. Wash and prepare " + strings.Join(ingredients, ", ") + ".",
		"2. Cook " + fresh[0].Name + " first; it expires soonest.",
		"3. Combine everything, season to taste and serve.",
	}
	r := model.Recipe{
		ID:           b.newID(),
		Title:        fresh[0].Name + " skillet",
		Ingredients:  ingredients,
		Instructions: strings.Join(steps, "\n"),
		CreatedAt:    now.UTC(),
	}
	b.recipes = append([]model.Recipe{r}, b.recipes...)
	return r, b.persistLocked()
}

func (b *Backend) deleteRecipe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.recipes {
		if r.ID == id {
			b.recipes = append(b.recipes[:i], b.recipes[i+1:]...)
			return b.persistLocked()
		}
	}
	return fmt.Errorf("recipe %q: %w", id, ErrNotFound)
}

func (b *Backend) persistLocked() error {
	if b.path == "" {
		return nil
	}
	return Save(b.path, Snapshot{Food: b.food, Recipes: b.recipes, Reading: b.reading})
}
