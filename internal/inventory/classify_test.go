package inventory

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/coolsave/internal/model"
)

var today = model.CalendarDate{Year: 2027, Month: time.March, Day: 10}

func food(id string, c model.Category, daysFromToday int) model.FoodItem {
	d := today.AddDays(daysFromToday)
	return model.FoodItem{
		ID:             id,
		Name:           "item " + id,
		Category:       c,
		ExpirationDate: d.Midnight(time.Local).Add(15 * time.Hour),
	}
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name string
		days int
		want bool
	}{
		{"yesterday", -1, true},
		{"today", 0, true},
		{"tomorrow", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpired(food("x", model.CategoryEggs, tt.days), today))
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, today)
	assert.Equal(t, 0.0, s.PercentExpired)
	assert.Equal(t, "0%", s.PercentLabel())
	assert.Equal(t, model.NotApplicable, s.TopExpiredCategory)
}

func TestSummarizeHalfDairy(t *testing.T) {
	items := []model.FoodItem{
		food("a", model.CategoryDairy, 3),
		food("b", model.CategoryDairy, -2),
	}
	s := Summarize(items, today)
	assert.Equal(t, 50.0, s.PercentExpired)
	assert.Equal(t, "50.0%", s.PercentLabel())
	assert.Equal(t, string(model.CategoryDairy), s.TopExpiredCategory)
}

func TestSummarizeBounds(t *testing.T) {
	all := []model.FoodItem{
		food("a", model.CategoryFruit, -1),
		food("b", model.CategoryEggs, 0),
		food("c", model.CategoryFruit, -9),
	}
	assert.Equal(t, 100.0, Summarize(all, today).PercentExpired)

	none := []model.FoodItem{
		food("a", model.CategoryFruit, 1),
		food("b", model.CategoryEggs, 5),
	}
	s := Summarize(none, today)
	assert.Equal(t, 0.0, s.PercentExpired)
	assert.Equal(t, "0.0%", s.PercentLabel())
	assert.Equal(t, model.NotApplicable, s.TopExpiredCategory)
}

func TestSummarizeRoundsToOneDecimal(t *testing.T) {
	items := []model.FoodItem{
		food("a", model.CategoryFruit, -1),
		food("b", model.CategoryFruit, 1),
		food("c", model.CategoryFruit, 1),
	}
	assert.Equal(t, 33.3, Summarize(items, today).PercentExpired)
}

func TestSummarizeTieGoesToFirstSeen(t *testing.T) {
	items := []model.FoodItem{
		food("a", model.CategoryEggs, -1),
		food("b", model.CategoryFruit, -1),
		food("c", model.CategoryFruit, -1),
		food("d", model.CategoryEggs, -1),
	}
	assert.Equal(t, string(model.CategoryEggs), Summarize(items, today).TopExpiredCategory)

	items[0], items[1] = items[1], items[0]
	assert.Equal(t, string(model.CategoryFruit), Summarize(items, today).TopExpiredCategory)
}

func TestSummarizeMajorityIgnoresOrder(t *testing.T) {
	var items []model.FoodItem
	for i := 0; i < 5; i++ {
		items = append(items, food(string(rune('a'+i)), model.CategoryVegetables, -1))
	}
	items = append(items,
		food("x", model.CategoryCanned, -1),
		food("y", model.CategoryCanned, -3),
		food("z", model.CategoryDessert, 4),
	)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		r.Shuffle(len(items), func(a, b int) { items[a], items[b] = items[b], items[a] })
		s := Summarize(items, today)
		require.Equal(t, string(model.CategoryVegetables), s.TopExpiredCategory)
		require.InDelta(t, 87.5, s.PercentExpired, 1e-9)
	}
}

func TestSummarizeIgnoresTimeOfDay(t *testing.T) {
	late := model.FoodItem{
		ID:             "late",
		Name:           "milk",
		Category:       model.CategoryDairy,
		ExpirationDate: today.Midnight(time.Local).Add(23*time.Hour + 59*time.Minute),
	}
	assert.True(t, IsExpired(late, today))
	assert.Equal(t, 0, DaysLeft(late, today))
}

func TestSortByExpiration(t *testing.T) {
	items := []model.FoodItem{
		food("a", model.CategoryFruit, 4),
		food("b", model.CategoryFruit, -1),
		food("c", model.CategoryFruit, 2),
	}
	sorted := SortByExpiration(items)
	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
	assert.Equal(t, "a", items[0].ID, "input must not be reordered")
}

func TestFilter(t *testing.T) {
	items := []model.FoodItem{
		{ID: "1", Name: "Milk", Category: model.CategoryDairy},
		{ID: "2", Name: "Apples", Category: model.CategoryFruit},
		{ID: "3", Name: "Cheese", Category: model.CategoryDairy},
	}
	assert.Len(t, Filter(items, "LACT"), 2)
	assert.Len(t, Filter(items, "app"), 1)
	assert.Len(t, Filter(items, "  "), 3)
	assert.Empty(t, Filter(items, "fish"))
}
