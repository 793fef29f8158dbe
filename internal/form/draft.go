// Package form holds the food add/edit draft and its submission rules.
package form

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/idilsaglam/coolsave/internal/model"
)

const (
	MsgFillAllFields  = "Please fill in all fields"
	MsgIncompleteDate = "Please select a complete date"
	MsgPastDate       = "Date cannot be in the past"
	MsgInvalidDate    = "Invalid date"
)

// YearsAhead is how many years past the current one the year picker offers.
const YearsAhead = 5

// ValidationError rejects a draft before anything reaches the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string       { return e.Message }
func (e *ValidationError) UserMessage() string { return e.Message }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Known()
	})
	return v
}

// Draft is the editable state of the add/edit food form.
type Draft struct {
	Name     string         `validate:"required"`
	Category model.Category `validate:"required,category"`
	Day      string
	Month    time.Month
	Year     int
}

// NewDraft starts an empty form on the current month and year with the
// catch-all category selected.
func NewDraft(today model.CalendarDate) Draft {
	return Draft{
		Category: model.CategoryOther,
		Month:    today.Month,
		Year:     today.Year,
	}
}

// FromItem prefills the form for editing.
func FromItem(it model.FoodItem) Draft {
	d := it.Expires()
	return Draft{
		Name:     it.Name,
		Category: it.Category,
		Day:      strconv.Itoa(d.Day),
		Month:    d.Month,
		Year:     d.Year,
	}
}

// Validate applies the submission checks in order and returns the composed
// expiration date.
func (d Draft) Validate(today model.CalendarDate) (model.CalendarDate, error) {
	fields := d
	fields.Name = strings.TrimSpace(d.Name)
	if err := validate.Struct(fields); err != nil {
		return model.CalendarDate{}, &ValidationError{Message: MsgFillAllFields}
	}

	if d.Day == "" || d.Month == 0 || d.Year == 0 {
		return model.CalendarDate{}, &ValidationError{Message: MsgIncompleteDate}
	}
	day, err := strconv.Atoi(d.Day)
	if err != nil {
		return model.CalendarDate{}, &ValidationError{Message: MsgInvalidDate}
	}

	date := model.CalendarDate{Year: d.Year, Month: d.Month, Day: day}
	if date.Before(today) {
		return model.CalendarDate{}, &ValidationError{Message: MsgPastDate}
	}
	if !date.Valid() {
		return model.CalendarDate{}, &ValidationError{Message: MsgInvalidDate}
	}
	return date, nil
}

// Input builds the request body; the expiration instant is local midnight
// of date, sent in UTC.
func (d Draft) Input(date model.CalendarDate) model.FoodInput {
	return model.FoodInput{
		Name:           strings.TrimSpace(d.Name),
		Category:       d.Category,
		ExpirationDate: date.Midnight(time.Local).UTC(),
	}
}

// Submit validates the draft and returns the request body to send.
func (d Draft) Submit(today model.CalendarDate) (model.FoodInput, error) {
	date, err := d.Validate(today)
	if err != nil {
		return model.FoodInput{}, err
	}
	return d.Input(date), nil
}

// AcceptDayKey reports whether typing key after current keeps the day field
// valid: digits only, at most two of them.
func AcceptDayKey(current, key string) bool {
	if key == "" || len(current)+len(key) > 2 {
		return false
	}
	for _, r := range key {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// SetMonth changes the month and clears a day that no longer fits.
func (d *Draft) SetMonth(m time.Month) {
	d.Month = m
	d.clampDay()
}

// SetYear changes the year and clears a day that no longer fits.
func (d *Draft) SetYear(y int) {
	d.Year = y
	d.clampDay()
}

// MaxDay is the last selectable day for the chosen month and year.
func (d Draft) MaxDay() int {
	if d.Month == 0 || d.Year == 0 {
		return 31
	}
	return model.DaysIn(d.Month, d.Year)
}

func (d *Draft) clampDay() {
	if d.Day == "" {
		return
	}
	if n, err := strconv.Atoi(d.Day); err == nil && n > d.MaxDay() {
		d.Day = ""
	}
}

// YearChoices is the current year followed by YearsAhead more.
func YearChoices(today model.CalendarDate) []int {
	out := make([]int, 0, YearsAhead+1)
	for i := 0; i <= YearsAhead; i++ {
		out = append(out, today.Year+i)
	}
	return out
}
