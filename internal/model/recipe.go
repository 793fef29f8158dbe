package model

import (
	"fmt"
	"strings"
	"time"
)

// Recipe is generated server-side from the current inventory.
// The client only lists and deletes recipes.
type Recipe struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r Recipe) Key() string { return r.ID }

func (r Recipe) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("recipe: %w: _id", ErrMissingField)
	case r.Title == "":
		return fmt.Errorf("recipe %s: %w: title", r.ID, ErrMissingField)
	}
	return nil
}

// InstructionLines splits the instructions for display and cuts them to max
// lines, marking the cut with an ellipsis. max <= 0 keeps everything.
func (r Recipe) InstructionLines(max int) []string {
	lines := strings.Split(strings.TrimSpace(r.Instructions), "\n")
	if max <= 0 || len(lines) <= max {
		return lines
	}
	out := append([]string(nil), lines[:max]...)
	out[max-1] = strings.TrimRight(out[max-1], " ") + "…"
	return out
}
