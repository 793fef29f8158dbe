package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/coolsave/internal/api"
	"github.com/idilsaglam/coolsave/internal/config"
	"github.com/idilsaglam/coolsave/internal/form"
	"github.com/idilsaglam/coolsave/internal/inventory"
	"github.com/idilsaglam/coolsave/internal/logging"
	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/refresh"
	"github.com/idilsaglam/coolsave/internal/tui"
	"github.com/idilsaglam/coolsave/internal/ui"
)

// Options carry what every subcommand needs.
type Options struct {
	Backend tui.Backend
	Config  config.Config
	// ConfigPath is the -config flag; config save writes there by default.
	ConfigPath string
	Logger     *slog.Logger
	Out        io.Writer
	Err        io.Writer
	Today      func() model.CalendarDate

	// runTUI replaces the interactive program in tests.
	runTUI func(context.Context, tui.Backend, tui.Options) error
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Today == nil {
		o.Today = model.Today
	}
	if o.runTUI == nil {
		o.runTUI = tui.Run
	}
	return o
}

// soonDays marks products close to expiring in listings.
const soonDays = 3

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt = opt.withDefaults()
	if len(args) == 0 {
		PrintHelp(opt.Err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "tui":
		return doTUI(ctx, opt)

	case "food":
		return runFood(ctx, a, opt)

	case "recipe":
		return runRecipe(ctx, a, opt)

	case "sensors":
		return doSensors(ctx, opt)

	case "summary":
		return doSummary(ctx, opt)

	case "health":
		return doHealth(ctx, opt)

	case "watch":
		return doWatch(ctx, opt)

	case "config":
		return runConfig(a, opt)

	case "categories":
		for i, c := range model.Categories {
			fmt.Fprintf(opt.Out, "%s %s\n", ui.Dim(fmt.Sprintf("%2d.", i+1)), c)
		}
		return 0
	}

	ui.Fail(opt.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func runFood(ctx context.Context, a []string, opt Options) int {
	if len(a) == 0 {
		ui.Fail(opt.Err, "usage: coolsave food ls|add|edit|rm")
		return 2
	}
	switch a[0] {
	case "ls":
		sorted := len(a) > 1 && (a[1] == "--sort" || a[1] == "-sort")
		return doFoodList(ctx, opt, sorted)
	case "add":
		if len(a) != 4 {
			ui.Fail(opt.Err, "usage: coolsave food add <name> <category> <YYYY-MM-DD>")
			return 2
		}
		return doFoodSave(ctx, opt, "", a[1], a[2], a[3])
	case "edit":
		if len(a) != 5 {
			ui.Fail(opt.Err, "usage: coolsave food edit <id> <name> <category> <YYYY-MM-DD>")
			return 2
		}
		return doFoodSave(ctx, opt, a[1], a[2], a[3], a[4])
	case "rm":
		if len(a) != 2 {
			ui.Fail(opt.Err, "usage: coolsave food rm <id>")
			return 2
		}
		if err := opt.Backend.DeleteFood(ctx, a[1]); err != nil {
			return failed(opt, "Failed to delete food product", err)
		}
		ui.OK(opt.Out, "removed")
		return 0
	}
	ui.Fail(opt.Err, "unknown food subcommand: "+a[0])
	return 2
}

func runRecipe(ctx context.Context, a []string, opt Options) int {
	if len(a) == 0 {
		ui.Fail(opt.Err, "usage: coolsave recipe ls|generate|rm")
		return 2
	}
	switch a[0] {
	case "ls":
		return doRecipeList(ctx, opt)
	case "generate":
		r, err := opt.Backend.GenerateRecipe(ctx)
		if err != nil {
			return failed(opt, "Failed to generate recipe", err)
		}
		ui.OK(opt.Out, "New recipe generated successfully!")
		ui.Panel(opt.Out, recipeLines(r, 0))
		return 0
	case "rm":
		if len(a) != 2 {
			ui.Fail(opt.Err, "usage: coolsave recipe rm <id>")
			return 2
		}
		if err := opt.Backend.DeleteRecipe(ctx, a[1]); err != nil {
			return failed(opt, "Failed to delete recipe", err)
		}
		ui.OK(opt.Out, "removed")
		return 0
	}
	ui.Fail(opt.Err, "unknown recipe subcommand: "+a[0])
	return 2
}

func runConfig(a []string, opt Options) int {
	if len(a) == 0 || a[0] != "save" || len(a) > 2 {
		ui.Fail(opt.Err, "usage: coolsave config save [path]")
		return 2
	}
	path := opt.ConfigPath
	if len(a) == 2 {
		path = a[1]
	}
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			ui.Fail(opt.Err, err.Error())
			return 1
		}
		path = p
	}
	if err := config.Save(path, opt.Config); err != nil {
		opt.Logger.Error("config save failed", "path", path, "err", err)
		ui.Fail(opt.Err, "config: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, "saved "+path)
	return 0
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `coolsave - keep track of what is in the fridge

Usage:
  coolsave [flags] <subcommand> [args]

Flags:
  -config <path>     YAML config file (default ~/.coolsave/config.yaml)
  -api-url <url>     backend base URL
  -theme <name>      classic, neon or mono
  -log-level <lvl>   debug, info, warn or error
  -color             force colored output
  -no-color          disable colored output (also NO_COLOR)

Subcommands:
  tui                                     Interactive app (default on a terminal)
  food ls [--sort]                        List food products
  food add <name> <category> <date>       Add a product, date as YYYY-MM-DD
  food edit <id> <name> <category> <date> Update a product
  food rm <id>                            Delete a product
  recipe ls                               List recipes
  recipe generate                         Generate a recipe from the fridge
  recipe rm <id>                          Delete a recipe
  sensors                                 Latest temperature and humidity
  summary                                 Expiration summary
  watch                                   Print the dashboard every poll interval
  health                                  Backend health probe
  categories                              List valid categories
  config save [path]                      Write the resolved settings as YAML

Examples:
  coolsave food add "Milk" lactate 2027-03-20
  coolsave food ls --sort
  coolsave recipe generate
`)
}

// -------------- subcommand impls ----------------

func doTUI(ctx context.Context, opt Options) int {
	err := opt.runTUI(ctx, opt.Backend, tui.Options{
		PollInterval: opt.Config.PollInterval,
		MinRefresh:   opt.Config.MinRefresh,
		Today:        opt.Today,
		Logger:       opt.Logger,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		opt.Logger.Error("tui exited", "err", err)
		ui.Fail(opt.Err, "tui: "+err.Error())
		return 1
	}
	return 0
}

func doFoodList(ctx context.Context, opt Options, sorted bool) int {
	items, err := opt.Backend.ListFood(ctx)
	if err != nil {
		return failed(opt, "load", err)
	}
	if sorted {
		items = inventory.SortByExpiration(items)
	}
	today := opt.Today()
	sum := inventory.Summarize(items, today)
	t := ui.Current()

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Food"),
		ui.C(t.Success, t.SymFresh), sum.Total-sum.Expired,
		ui.C(t.Error, t.SymExpired), sum.Expired,
		ui.C(t.Accent, "Total"), sum.Total,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(sum.PercentExpired, 28)+" "+sum.PercentLabel()+" expired"))
	lines = append(lines, "")
	lines = append(lines, foodLines(items, today)...)
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `coolsave food add Milk lactate 2027-03-20`"))
	ui.Panel(opt.Out, lines)
	return 0
}

func doFoodSave(ctx context.Context, opt Options, id, name, category, date string) int {
	today := opt.Today()
	d := form.Draft{Name: name, Category: model.Category(category)}
	d.Day, d.Month, d.Year = splitDate(date)

	in, err := d.Submit(today)
	if err != nil {
		ui.Fail(opt.Err, err.Error())
		if d.Category != "" && !d.Category.Known() {
			fmt.Fprintln(opt.Err, ui.Dim("Hint: run `coolsave categories` to see valid categories"))
		}
		return 2
	}

	if id == "" {
		it, echoed, err := opt.Backend.CreateFood(ctx, in)
		if err != nil {
			return failed(opt, "Failed to add food product", err)
		}
		ui.OK(opt.Out, "Food product added successfully!"+idSuffix(it, echoed))
		return 0
	}
	it, echoed, err := opt.Backend.UpdateFood(ctx, id, in)
	if err != nil {
		return failed(opt, "Failed to update food product", err)
	}
	ui.OK(opt.Out, "Food product updated successfully!"+idSuffix(it, echoed))
	return 0
}

func doRecipeList(ctx context.Context, opt Options) int {
	recipes, err := opt.Backend.ListRecipes(ctx)
	if err != nil {
		return failed(opt, "load", err)
	}
	t := ui.Current()
	lines := []string{fmt.Sprintf("%s  %s %d", ui.C(t.Title, "Recipes"), ui.C(t.Accent, "Total"), len(recipes)), ""}
	if len(recipes) == 0 {
		lines = append(lines, ui.C(t.Muted, "no recipes yet"))
	}
	for i, r := range recipes {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, recipeLines(r, 2)...)
	}
	ui.Panel(opt.Out, lines)
	return 0
}

func doSensors(ctx context.Context, opt Options) int {
	r, err := opt.Backend.LatestReading(ctx)
	if err != nil {
		return failed(opt, "sensors", err)
	}
	ui.Panel(opt.Out, sensorLines(r))
	return 0
}

func doSummary(ctx context.Context, opt Options) int {
	items, err := opt.Backend.ListFood(ctx)
	if err != nil {
		return failed(opt, "load", err)
	}
	ui.Panel(opt.Out, summaryLines(inventory.Summarize(items, opt.Today())))
	return 0
}

func doHealth(ctx context.Context, opt Options) int {
	body, err := opt.Backend.Health(ctx)
	if err != nil {
		return failed(opt, "health", err)
	}
	fmt.Fprintln(opt.Out, strings.TrimSpace(string(body)))
	return 0
}

// doWatch prints the dashboard every poll interval until ctx ends.
func doWatch(ctx context.Context, opt Options) int {
	p := refresh.NewPoller(opt.Config.PollInterval, func(ctx context.Context) {
		lines := []string{ui.C(ui.Current().Title, "Cool Save") + "  " + ui.Dim(time.Now().Format(time.TimeOnly)), ""}
		r, err := opt.Backend.LatestReading(ctx)
		if err != nil {
			opt.Logger.Error("sensor reading failed", "err", err)
		}
		lines = append(lines, sensorLines(r)...)
		lines = append(lines, "")

		items, err := opt.Backend.ListFood(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			opt.Logger.Error("watch refresh failed", "err", err)
			lines = append(lines, ui.C(ui.Current().Error, userMessage(err)))
		} else {
			lines = append(lines, summaryLines(inventory.Summarize(items, opt.Today()))...)
		}
		ui.Panel(opt.Out, lines)
	})
	p.Start(ctx)
	<-ctx.Done()
	p.Stop()
	return 0
}

// -------------- rendering helpers --------------

func foodLines(items []model.FoodItem, today model.CalendarDate) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "No food products found")}
	}
	t := ui.Current()
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		days := inventory.DaysLeft(it, today)
		sym, color := t.SymFresh, t.Success
		when := fmt.Sprintf("expires %s (%d days)", it.Expires(), days)
		switch {
		case inventory.IsExpired(it, today):
			sym, color = t.SymExpired, t.Error
			when = "expired " + it.Expires().String()
		case days <= soonDays:
			sym, color = t.SymSoon, t.Warning
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s  %s  %s",
			ui.Dim(idx), ui.C(color, sym), ui.Truncate(it.Name, 40),
			ui.C(t.Muted, string(it.Category)), ui.C(color, when), ui.Dim(it.ID)))
	}
	return out
}

func recipeLines(r model.Recipe, maxLines int) []string {
	t := ui.Current()
	lines := []string{
		ui.C(t.Title, r.Title) + "  " + ui.Dim(r.ID),
		ui.C(t.Muted, fmt.Sprintf("Ingredients: %d items  Created: %s",
			len(r.Ingredients), model.DateOf(r.CreatedAt.Local()))),
	}
	for _, l := range r.InstructionLines(maxLines) {
		lines = append(lines, "  "+ui.Truncate(l, 72))
	}
	return lines
}

func sensorLines(r model.SensorReading) []string {
	t := ui.Current()
	return []string{
		ui.C(t.Accent, "Temperature") + "  " + r.TemperatureLabel(),
		ui.C(t.Accent, "Humidity   ") + "  " + r.HumidityLabel(),
	}
}

func summaryLines(s model.ExpirationSummary) []string {
	t := ui.Current()
	return []string{
		fmt.Sprintf("%s  %d", ui.C(t.Accent, "Products    "), s.Total),
		fmt.Sprintf("%s  %d", ui.C(t.Accent, "Expired     "), s.Expired),
		fmt.Sprintf("%s  %s %s", ui.C(t.Accent, "Expired %   "), ui.C(t.Muted, ui.ProgressBar(s.PercentExpired, 20)), s.PercentLabel()),
		fmt.Sprintf("%s  %s", ui.C(t.Accent, "Top expired "), s.TopExpiredCategory),
	}
}

// splitDate reads YYYY-MM-DD into form fields without judging the date;
// the form decides what is missing or invalid.
func splitDate(s string) (day string, month time.Month, year int) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return "", 0, 0
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", 0, 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return "", 0, y
	}
	day = strings.TrimLeft(parts[2], "0")
	if !form.AcceptDayKey("", day) {
		day = ""
	}
	return day, time.Month(m), y
}

func idSuffix(it model.FoodItem, echoed bool) string {
	if !echoed {
		return ""
	}
	return " (" + it.ID + ")"
}

func userMessage(err error) string {
	var msg interface{ UserMessage() string }
	if errors.As(err, &msg) {
		return msg.UserMessage()
	}
	return err.Error()
}

// failed reports a backend failure and returns the error exit code.
func failed(opt Options, what string, err error) int {
	opt.Logger.Error(what, "err", err, "status", api.StatusOf(err), "network", api.IsNetwork(err))
	ui.Fail(opt.Err, what+": "+userMessage(err))
	return 1
}
