package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/coolsave/internal/model"
)

var today = model.CalendarDate{Year: 2026, Month: time.October, Day: 17}

func draft(day string, m time.Month, y int) Draft {
	return Draft{Name: "Milk", Category: model.CategoryDairy, Day: day, Month: m, Year: y}
}

func message(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Message
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  string
	}{
		{"empty name", Draft{Category: model.CategoryDairy, Day: "1", Month: 1, Year: 2027}, MsgFillAllFields},
		{"blank name", Draft{Name: "   ", Category: model.CategoryDairy, Day: "1", Month: 1, Year: 2027}, MsgFillAllFields},
		{"no category", Draft{Name: "Milk", Day: "1", Month: 1, Year: 2027}, MsgFillAllFields},
		{"unknown category", Draft{Name: "Milk", Category: "fish", Day: "1", Month: 1, Year: 2027}, MsgFillAllFields},
		{"empty name beats missing date", Draft{Category: model.CategoryDairy}, MsgFillAllFields},
		{"no day", draft("", time.November, 2026), MsgIncompleteDate},
		{"no month", draft("3", 0, 2026), MsgIncompleteDate},
		{"no year", draft("3", time.November, 0), MsgIncompleteDate},
		{"yesterday", draft("16", time.October, 2026), MsgPastDate},
		{"last year", draft("30", time.December, 2025), MsgPastDate},
		{"april 31", draft("31", time.April, 2027), MsgInvalidDate},
		{"feb 29 non-leap", draft("29", time.February, 2027), MsgInvalidDate},
		{"day zero next month", draft("0", time.November, 2026), MsgInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Validate(today)
			assert.Equal(t, tt.want, message(t, err))
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  model.CalendarDate
	}{
		{"today", draft("17", time.October, 2026), today},
		{"feb 29 leap", draft("29", time.February, 2028), model.CalendarDate{Year: 2028, Month: time.February, Day: 29}},
		{"leading zero", draft("05", time.January, 2027), model.CalendarDate{Year: 2027, Month: time.January, Day: 5}},
		{"april 30", draft("30", time.April, 2027), model.CalendarDate{Year: 2027, Month: time.April, Day: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.draft.Validate(today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitBuildsLocalMidnight(t *testing.T) {
	d := Draft{Name: "  Yogurt ", Category: model.CategoryDairy, Day: "2", Month: time.March, Year: 2027}
	in, err := d.Submit(today)
	require.NoError(t, err)
	assert.Equal(t, "Yogurt", in.Name)
	assert.Equal(t, model.CategoryDairy, in.Category)
	assert.Equal(t, time.UTC, in.ExpirationDate.Location())

	local := in.ExpirationDate.Local()
	assert.Equal(t, 0, local.Hour())
	assert.Equal(t, model.CalendarDate{Year: 2027, Month: time.March, Day: 2}, model.DateOf(local))
}

func TestAcceptDayKey(t *testing.T) {
	tests := []struct {
		current, key string
		want         bool
	}{
		{"", "3", true},
		{"3", "1", true},
		{"31", "1", false},
		{"", "a", false},
		{"1", "-", false},
		{"", "12", true},
		{"", "123", false},
		{"", "", false},
		{"", "٣", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AcceptDayKey(tt.current, tt.key), "%q + %q", tt.current, tt.key)
	}
}

func TestChangingMonthClearsImpossibleDay(t *testing.T) {
	d := draft("31", time.March, 2027)
	d.SetMonth(time.April)
	assert.Empty(t, d.Day)

	d = draft("30", time.March, 2027)
	d.SetMonth(time.April)
	assert.Equal(t, "30", d.Day)
}

func TestChangingYearClearsLeapDay(t *testing.T) {
	d := draft("29", time.February, 2028)
	d.SetYear(2027)
	assert.Empty(t, d.Day)
	assert.Equal(t, 28, d.MaxDay())
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft(today)
	assert.Equal(t, model.CategoryOther, d.Category)
	assert.Equal(t, time.October, d.Month)
	assert.Equal(t, 2026, d.Year)
	assert.Empty(t, d.Day)
}

func TestFromItem(t *testing.T) {
	exp := time.Date(2027, time.May, 9, 0, 0, 0, 0, time.Local)
	d := FromItem(model.FoodItem{ID: "1", Name: "Eggs", Category: model.CategoryEggs, ExpirationDate: exp})
	assert.Equal(t, Draft{Name: "Eggs", Category: model.CategoryEggs, Day: "9", Month: time.May, Year: 2027}, d)
}

func TestYearChoices(t *testing.T) {
	assert.Equal(t, []int{2026, 2027, 2028, 2029, 2030, 2031}, YearChoices(today))
}
