package classify

import "strings"

// Category is the closed set of knowledge base topics. Everything the
// keyword tables do not recognize maps to CategoryGeneral.
type Category string

const (
	CategoryGeneral       Category = "General"
	CategoryAirCargo      Category = "Air Cargo"
	CategoryBarley        Category = "Barley"
	CategoryChickpeas     Category = "Chickpeas"
	CategoryGreenLentils  Category = "Green Lentils"
	CategoryMillet        Category = "Millet"
	CategoryOats          Category = "Oats"
	CategoryOOGCargo      Category = "OOG Cargo"
	CategoryPeas          Category = "Peas"
	CategoryRailLogistics Category = "Rail Logistics"
	CategoryRedLentils    Category = "Red Lentils"
)

func (c Category) String() string {
	return string(c)
}

// Categories returns every known category, General first.
func Categories() []Category {
	return []Category{
		CategoryGeneral,
		CategoryAirCargo,
		CategoryBarley,
		CategoryChickpeas,
		CategoryGreenLentils,
		CategoryMillet,
		CategoryOats,
		CategoryOOGCargo,
		CategoryPeas,
		CategoryRailLogistics,
		CategoryRedLentils,
	}
}

// keywordTable maps lowercase trigger phrases to categories.
var keywordTable = map[string]Category{
	"air cargo":     CategoryAirCargo,
	"air freight":   CategoryAirCargo,
	"airfreight":    CategoryAirCargo,
	"by air":        CategoryAirCargo,
	"oog":           CategoryOOGCargo,
	"out of gauge":  CategoryOOGCargo,
	"oversized":     CategoryOOGCargo,
	"heavy lift":    CategoryOOGCargo,
	"rail":          CategoryRailLogistics,
	"railway":       CategoryRailLogistics,
	"train":         CategoryRailLogistics,
	"wagon":         CategoryRailLogistics,
	"green lentil":  CategoryGreenLentils,
	"green lentils": CategoryGreenLentils,
	"red lentil":    CategoryRedLentils,
	"red lentils":   CategoryRedLentils,
	"lentil":        CategoryGreenLentils,
	"barley":        CategoryBarley,
	"chickpea":      CategoryChickpeas,
	"chickpeas":     CategoryChickpeas,
	"garbanzo":      CategoryChickpeas,
	"millet":        CategoryMillet,
	"oat":           CategoryOats,
	"oats":          CategoryOats,
	"pea":           CategoryPeas,
	"peas":          CategoryPeas,
	"field peas":    CategoryPeas,
	"yellow peas":   CategoryPeas,
}

// orderedTriggers fixes evaluation order so that more specific phrases win
// over their substrings ("green lentil" before "lentil") and commodity names
// beat the generic transport triggers they might ride along with.
var orderedTriggers = []string{
	"green lentils", "green lentil",
	"red lentils", "red lentil",
	"chickpeas", "chickpea", "garbanzo",
	"field peas", "yellow peas",
	"barley", "millet", "oats", "oat",
	"air cargo", "air freight", "airfreight", "by air",
	"out of gauge", "oog", "oversized", "heavy lift",
	"railway", "rail", "train", "wagon",
	"lentil", "peas", "pea",
}

// Classify maps a question to a knowledge category. It is pure and total:
// any input, including empty strings, yields a category, defaulting to
// General when no trigger matches.
func Classify(question string) Category {
	q := strings.ToLower(question)
	words := fieldSet(q)

	for _, trigger := range orderedTriggers {
		if strings.Contains(trigger, " ") {
			if strings.Contains(q, trigger) {
				return keywordTable[trigger]
			}
			continue
		}
		// Single-word triggers match whole words only, so "railing" or
		// "peasant" don't misfire.
		if words[trigger] {
			return keywordTable[trigger]
		}
	}
	return CategoryGeneral
}

func fieldSet(q string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(q, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		set[w] = true
	}
	return set
}
