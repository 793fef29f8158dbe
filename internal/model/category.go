package model

// Category is one of the fixed food categories the backend accepts.
type Category string

const (
	CategoryDairy       Category = "lactate"
	CategoryTraditional Category = "mâncare tradițională"
	CategoryGrill       Category = "grătar"
	CategoryVegetables  Category = "legume"
	CategoryDessert     Category = "desert"
	CategorySweets      Category = "dulciuri"
	CategoryEggs        Category = "ouă"
	CategoryFruit       Category = "fructe"
	CategoryCanned      Category = "conserve"
	CategoryOther       Category = "altă categorie"
)

// Categories lists every category in picker order; the catch-all is last.
var Categories = []Category{
	CategoryDairy,
	CategoryTraditional,
	CategoryGrill,
	CategoryVegetables,
	CategoryDessert,
	CategorySweets,
	CategoryEggs,
	CategoryFruit,
	CategoryCanned,
	CategoryOther,
}

// Known reports whether c is one of Categories.
func (c Category) Known() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// CategoryIndex returns c's position in Categories, or -1.
func CategoryIndex(c Category) int {
	for i, k := range Categories {
		if k == c {
			return i
		}
	}
	return -1
}
