package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/coolsave/internal/form"
	"github.com/idilsaglam/coolsave/internal/model"
	"github.com/idilsaglam/coolsave/internal/screen"
)

func idsOf(items []model.FoodItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func openFood(t *testing.T, h *harness) {
	t.Helper()
	h.press("f")
	h.waitFor("food list", func() bool { return h.food().ctrl.State() == screen.Ready })
}

func openForm(t *testing.T, h *harness, k, title string) {
	t.Helper()
	h.press(k)
	h.waitFor(title, func() bool { return h.root().Screen() == title })
}

func TestFoodListRendersItems(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)

	view := h.m.View()
	assert.Contains(t, view, "Milk")
	assert.Contains(t, view, "Expired: ")
	assert.Contains(t, view, "Expires: ")
}

func TestFoodEmptyState(t *testing.T) {
	h := newHarness(t)
	openFood(t, h)
	assert.True(t, h.food().ctrl.Empty())
	assert.Contains(t, h.m.View(), "No food products found")
}

func TestFoodLoadFailureShowsError(t *testing.T) {
	h := newHarness(t, pantry())
	h.backend.Fail("GET", "/api/food-products", 503)
	h.press("f")
	h.waitFor("error state", func() bool { return h.food().ctrl.State() == screen.Failed })
	assert.Contains(t, h.m.View(), "HTTP error! status: 503")

	h.backend.Heal()
	h.press("ctrl+r")
	h.waitFor("retry", func() bool { return h.food().ctrl.State() == screen.Ready })
	assert.Equal(t, 3, h.food().ctrl.Len())
}

func TestDeleteFailureRestoresItem(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	before := idsOf(h.food().ctrl.Items())
	h.backend.Fail("DELETE", "/api/food-products", 500)

	h.press("d")
	require.NotNil(t, h.food().confirming)
	assert.Contains(t, h.m.View(), "Are you sure you want to delete Milk?")

	h.press("y")
	assert.Equal(t, before[1:], idsOf(h.food().ctrl.Items()), "removed before the server answers")

	h.waitFor("failure notice", func() bool { return h.food().ctrl.Notice() != "" })
	assert.Equal(t, msgFoodDeleteFailed, h.food().ctrl.Notice())
	assert.Equal(t, before, idsOf(h.food().ctrl.Items()))

	h.press("x")
	assert.Empty(t, h.food().ctrl.Notice())
}

func TestDeleteSucceeds(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)

	h.press("d", "y")
	h.waitFor("delete sent", func() bool { return h.count("DELETE", "/api/food-products/f1") == 1 })
	h.waitFor("server updated", func() bool { return len(h.backend.Food()) == 2 })
	assert.Equal(t, []string{"f2", "f3"}, idsOf(h.food().ctrl.Items()))
}

func TestCancelDeleteKeepsItem(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	h.press("d", "n")
	assert.Nil(t, h.food().confirming)
	assert.Equal(t, 3, h.food().ctrl.Len())
	assert.Zero(t, h.count("DELETE", "/api/food-products/f1"))
}

func TestRefreshWhileInFlightIsCoalesced(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)

	first := h.update(keyMsg("ctrl+r"))
	require.NotNil(t, first)
	assert.Equal(t, screen.Refreshing, h.food().ctrl.State())
	assert.Nil(t, h.update(keyMsg("ctrl+r")))

	h.dispatch(first)
	h.waitFor("refreshed", func() bool { return h.food().ctrl.State() == screen.Ready })
	assert.Equal(t, 3, h.count("GET", "/api/food-products"), "home, mount and one refresh")
}

func TestSortToggle(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	h.press("s")
	var names []string
	for _, it := range h.food().list.Items() {
		names = append(names, it.(foodItem).item.Name)
	}
	assert.Equal(t, []string{"Yogurt", "Milk", "Apples"}, names)
}

func TestInvalidFormSendsNothing(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	openForm(t, h, "a", "Add Food")
	sent := len(h.backend.Requests())

	assert.Nil(t, h.update(keyMsg("enter")))
	assert.Equal(t, form.MsgFillAllFields, h.form().err)

	h.press("B", "r", "e", "a", "d")
	assert.Nil(t, h.update(keyMsg("enter")))
	assert.Equal(t, form.MsgIncompleteDate, h.form().err)

	h.press("tab", "tab", "0", "5")
	assert.Nil(t, h.update(keyMsg("enter")))
	assert.Equal(t, form.MsgPastDate, h.form().err)

	assert.Equal(t, sent, len(h.backend.Requests()))
	assert.Contains(t, h.m.View(), form.MsgPastDate)
}

func TestDayFieldRejectsNonDigits(t *testing.T) {
	h := newHarness(t)
	openFood(t, h)
	openForm(t, h, "a", "Add Food")
	h.press("tab", "tab", "x", "1", "2", "3")
	assert.Equal(t, "12", h.form().day.Value())
}

func TestMonthChangeClearsDayThatDoesNotFit(t *testing.T) {
	h := newHarness(t)
	openFood(t, h)
	openForm(t, h, "a", "Add Food")
	h.press("tab", "tab", "3", "1", "tab")
	require.Equal(t, fieldMonth, h.form().focus)
	h.press("right") // March -> April
	assert.Equal(t, "April", h.form().draft.Month.String())
	assert.Empty(t, h.form().day.Value())
}

func TestAddFoodReturnsToListWithNotice(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	openForm(t, h, "a", "Add Food")
	h.press("E", "g", "g", "s", "tab", "left", "tab", "2", "0", "enter")

	h.waitFor("back on list", func() bool {
		return h.root().Screen() == "Food" && h.food().ctrl.State() == screen.Ready
	})
	assert.Equal(t, msgFoodAdded, h.food().ctrl.Notice())
	assert.Equal(t, 1, h.count("POST", "/api/food-products"))
	assert.Equal(t, "Eggs", h.food().ctrl.Items()[0].Name, "echoed product is prepended")
	assert.Equal(t, 2, h.count("GET", "/api/food-products"), "no refetch after an echoed create")

	stored := h.backend.Food()
	require.Len(t, stored, 4)
	added := stored[len(stored)-1]
	assert.Equal(t, "Eggs", added.Name)
	assert.Equal(t, model.CategoryCanned, added.Category)
	assert.Equal(t, model.CalendarDate{Year: 2027, Month: 3, Day: 20}, added.Expires())
}

func TestEditPrefillsAndSaves(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	openForm(t, h, "e", "Edit Food")
	h.waitFor("prefill", func() bool { return !h.form().loading })
	assert.Equal(t, "Milk", h.form().name.Value())
	assert.Equal(t, model.CategoryDairy, h.form().draft.Category)

	h.press(" ", "2", "enter")
	h.waitFor("saved", func() bool { return h.root().Screen() == "Food" })
	assert.Equal(t, msgFoodUpdated, h.food().ctrl.Notice())
	assert.Equal(t, 1, h.count("PUT", "/api/food-products/f1"))
	assert.Equal(t, "Milk 2", h.backend.Food()[0].Name)
	assert.Equal(t, "Milk 2", h.food().ctrl.Items()[0].Name)
}

func TestUpdateOfVanishedItemShowsNotice(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	openForm(t, h, "a", "Add Food")

	ghost := food("gone", "Ghost", model.CategoryOther, 5)
	h.dispatch(h.update(backMsg{notice: msgFoodUpdated, updated: &ghost}))
	require.Equal(t, "Food", h.root().Screen())
	assert.Contains(t, h.food().ctrl.Notice(), "no longer exists")
	assert.Equal(t, 3, h.food().ctrl.Len())
}

func TestEditPrefillFailureGoesBack(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	h.backend.Fail("GET", "/api/food-products/", 404)
	h.press("e")
	h.waitFor("back on list", func() bool {
		return h.root().Screen() == "Food" && h.food().ctrl.Notice() != ""
	})
	assert.Equal(t, msgLoadProductFailed, h.food().ctrl.Notice())
}

func TestSaveFailureStaysOnForm(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	h.backend.Fail("POST", "/api/food-products", 500)
	openForm(t, h, "a", "Add Food")
	h.press("T", "e", "a", "tab", "tab", "2", "5", "enter")
	h.waitFor("save failed", func() bool { return h.form().err != "" })
	assert.Equal(t, msgAddFailed, h.form().err)
	assert.Equal(t, "Add Food", h.root().Screen())
}

func TestDeleteResultAfterLeavingIsDropped(t *testing.T) {
	h := newHarness(t, pantry())
	openFood(t, h)
	h.backend.Fail("DELETE", "/api/food-products", 500)

	h.press("d")
	msgs := h.hold(h.update(keyMsg("y")))
	require.Equal(t, 2, h.food().ctrl.Len())
	h.press("esc")
	h.waitFor("home", func() bool { return h.root().Screen() == "Cool Save" })

	for _, m := range msgs {
		h.update(m)
	}
	assert.Empty(t, h.food().ctrl.Notice())

	openFood(t, h)
	assert.Empty(t, h.food().ctrl.Notice())
	assert.Equal(t, 3, h.food().ctrl.Len(), "the server still has it")
}
