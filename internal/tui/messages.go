package tui

import (
	"encoding/json"

	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/refresh"
	"github.com/idilsaglam/coolsave/internal/screen"
)

type navigateMsg struct {
	to  screenID
	arg string
}

// backMsg pops the stack; the revealed page gets it through resume.
// created and updated carry a product the server echoed back.
type backMsg struct {
	notice  string
	created *model.FoodItem
	updated *model.FoodItem
}

type healthMsg struct {
	body json.RawMessage
	err  error
}

type dashboardMsg struct {
	ticket     refresh.Ticket
	items      []model.FoodItem
	err        error
	reading    model.SensorReading
	readingErr error
}

// pollMsg fires the dashboard's periodic refresh. Ticks from an older
// activation are dropped and not re-armed.
type pollMsg struct {
	epoch uint64
}

type foodLoadedMsg struct {
	ticket refresh.Ticket
	items  []model.FoodItem
	err    error
}

// Mutation results carry the activation epoch they were started in; a screen
// drops them once it has been closed or reopened.
type foodDeletedMsg struct {
	epoch   uint64
	removal screen.Removal[model.FoodItem]
	err     error
}

type productLoadedMsg struct {
	ticket refresh.Ticket
	item   model.FoodItem
	err    error
}

type productSavedMsg struct {
	ticket  refresh.Ticket
	editing bool
	item    model.FoodItem
	echoed  bool
	err     error
}

type recipesLoadedMsg struct {
	ticket refresh.Ticket
	items  []model.Recipe
	err    error
}

type recipeGeneratedMsg struct {
	epoch  uint64
	recipe model.Recipe
	err    error
}

type recipeDeletedMsg struct {
	epoch   uint64
	removal screen.Removal[model.Recipe]
	err     error
}
