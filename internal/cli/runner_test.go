package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/coolsave/internal/api"
	"github.com/idilsaglam/coolsave/internal/config"
	"github.com/idilsaglam/coolsave/internal/fakeapi"
	"github.com/idilsaglam/coolsave/internal/form"
	"github.com/idilsaglam/coolsave/internal/logging"
	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/tui"
)

var fixedNow = time.Date(2027, time.March, 10, 9, 0, 0, 0, time.UTC)

type env struct {
	backend  *fakeapi.Backend
	opt      Options
	out, err *bytes.Buffer
}

func newEnv(t *testing.T, opts ...fakeapi.Option) *env {
	t.Helper()
	b, err := fakeapi.New(append([]fakeapi.Option{fakeapi.WithClock(func() time.Time { return fixedNow })}, opts...)...)
	require.NoError(t, err)
	c, err := api.New("http://coolsave.test", api.WithTransport(b.Transport()))
	require.NoError(t, err)

	e := &env{backend: b, out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	e.opt = Options{
		Backend: c,
		Config:  config.Default(),
		Out:     e.out,
		Err:     e.err,
		Today:   func() model.CalendarDate { return model.DateOf(fixedNow) },
	}
	return e
}

func (e *env) run(args ...string) int {
	return Run(context.Background(), args, e.opt)
}

func pantry() fakeapi.Option {
	item := func(id, name string, cat model.Category, days int) model.FoodItem {
		return model.FoodItem{ID: id, Name: name, Category: cat, ExpirationDate: fixedNow.AddDate(0, 0, days)}
	}
	return fakeapi.WithFood(
		item("f1", "Milk", model.CategoryDairy, 3),
		item("f2", "Yogurt", model.CategoryDairy, -2),
		item("f3", "Apples", model.CategoryFruit, 10),
	)
}

func TestUsage(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, 2, e.run())
	assert.Equal(t, 2, e.run("bogus"))
	assert.Contains(t, e.err.String(), "unknown subcommand: bogus")
	assert.Equal(t, 2, e.run("food", "add", "Milk"))
	assert.Equal(t, 0, e.run("help"))
	assert.Contains(t, e.out.String(), "Subcommands:")
}

func TestAddRejectedLocallySendsNothing(t *testing.T) {
	cases := []struct {
		name, category, date, msg string
	}{
		{"  ", "lactate", "2027-03-20", form.MsgFillAllFields},
		{"Milk", "cheese", "2027-03-20", form.MsgFillAllFields},
		{"Milk", "lactate", "2027-03", form.MsgIncompleteDate},
		{"Milk", "lactate", "2027-03-01", form.MsgPastDate},
		{"Milk", "lactate", "2027-02-30", form.MsgPastDate},
		{"Milk", "lactate", "2027-04-31", form.MsgInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.date+"/"+tc.name, func(t *testing.T) {
			e := newEnv(t)
			assert.Equal(t, 2, e.run("food", "add", tc.name, tc.category, tc.date))
			assert.Contains(t, e.err.String(), tc.msg)
			assert.Empty(t, e.backend.Requests())
		})
	}
}

func TestAddAndEdit(t *testing.T) {
	e := newEnv(t, pantry())
	require.Equal(t, 0, e.run("food", "add", "Eggs", "ouă", "2027-03-20"))
	assert.Contains(t, e.out.String(), "Food product added successfully!")

	food := e.backend.Food()
	require.Len(t, food, 4)
	added := food[3]
	assert.Equal(t, model.CalendarDate{Year: 2027, Month: time.March, Day: 20}, added.Expires())

	require.Equal(t, 0, e.run("food", "edit", "f1", "Oat milk", "lactate", "2027-04-01"))
	assert.Contains(t, e.out.String(), "Food product updated successfully!")
	assert.Equal(t, "Oat milk", e.backend.Food()[0].Name)
}

func TestFoodListMarksExpired(t *testing.T) {
	e := newEnv(t, pantry())
	require.Equal(t, 0, e.run("food", "ls", "--sort"))
	out := e.out.String()
	assert.Contains(t, out, "expired 2027-03-08")
	assert.Contains(t, out, "33.3% expired")
	assert.Less(t, strings.Index(out, "Yogurt"), strings.Index(out, "Milk"))
	assert.Less(t, strings.Index(out, "Milk"), strings.Index(out, "Apples"))
}

func TestEmptyFoodList(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, 0, e.run("food", "ls"))
	assert.Contains(t, e.out.String(), "No food products found")
}

func TestBackendFailureExitsOne(t *testing.T) {
	e := newEnv(t, pantry())
	var logs bytes.Buffer
	e.opt.Logger = logging.New(&logs, "debug")
	e.backend.Fail("DELETE", "/api/food-products", 500)
	assert.Equal(t, 1, e.run("food", "rm", "f1"))
	assert.Contains(t, e.err.String(), "HTTP error! status: 500")
	assert.Len(t, e.backend.Food(), 3)
	assert.Contains(t, logs.String(), "status=500")
	assert.Contains(t, logs.String(), "network=false")
}

func TestConfigSave(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	e.opt.Config.Theme = "neon"
	e.opt.Config.PollInterval = 30 * time.Second
	e.opt.ConfigPath = path

	require.Equal(t, 0, e.run("config", "save"))
	assert.Contains(t, e.out.String(), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: neon")
	assert.Contains(t, string(data), "poll_interval: 30s")

	other := filepath.Join(t.TempDir(), "other.yaml")
	require.Equal(t, 0, e.run("config", "save", other))
	assert.FileExists(t, other)

	assert.Equal(t, 2, e.run("config", "load"))
}

func TestHelpListsEveryRootFlag(t *testing.T) {
	var buf bytes.Buffer
	PrintHelp(&buf)
	for _, f := range []string{"-config", "-api-url", "-theme", "-log-level", "-color", "-no-color"} {
		assert.Contains(t, buf.String(), f+" ")
	}
}

func TestSummaryAndSensors(t *testing.T) {
	e := newEnv(t, pantry())
	require.Equal(t, 0, e.run("summary"))
	assert.Contains(t, e.out.String(), "33.3%")
	assert.Contains(t, e.out.String(), string(model.CategoryDairy))

	require.Equal(t, 0, e.run("sensors"))
	assert.Contains(t, e.out.String(), "5.0° C")
	assert.Contains(t, e.out.String(), "50%")
}

func TestRecipeCommands(t *testing.T) {
	e := newEnv(t, pantry())
	require.Equal(t, 0, e.run("recipe", "generate"))
	assert.Contains(t, e.out.String(), "New recipe generated successfully!")

	recipes := e.backend.Recipes()
	require.Len(t, recipes, 1)
	require.Equal(t, 0, e.run("recipe", "ls"))
	assert.Contains(t, e.out.String(), recipes[0].Title)

	require.Equal(t, 0, e.run("recipe", "rm", recipes[0].ID))
	assert.Empty(t, e.backend.Recipes())
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, 0, e.run("health"))
	assert.Contains(t, e.out.String(), `"status":"ok"`)
}

func TestWatchPrintsUntilCancelled(t *testing.T) {
	e := newEnv(t, pantry())
	e.opt.Config.PollInterval = 20 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	assert.Equal(t, 0, Run(ctx, []string{"watch"}, e.opt))
	assert.GreaterOrEqual(t, strings.Count(e.out.String(), "Cool Save"), 2)
}

func TestTUIGetsConfiguredTiming(t *testing.T) {
	e := newEnv(t)
	e.opt.Config.PollInterval = 3 * time.Second
	var got tui.Options
	e.opt.runTUI = func(_ context.Context, _ tui.Backend, o tui.Options) error {
		got = o
		return nil
	}
	require.Equal(t, 0, e.run("tui"))
	assert.Equal(t, 3*time.Second, got.PollInterval)
	assert.Equal(t, config.DefaultMinRefresh, got.MinRefresh)
}

func TestCategories(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, 0, e.run("categories"))
	assert.Equal(t, len(model.Categories), strings.Count(e.out.String(), "\n"))
}
