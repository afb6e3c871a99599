package config

import "sort"

// FallbackContextWindow is used for models missing from the catalog.
const FallbackContextWindow = 100_000

// modelCatalog maps known model identifiers to their context windows.
var modelCatalog = map[string]int{
	"gpt-4o-mini":            128_000,
	"gpt-4o-mini-2024-07-18": 128_000,
	"gpt-4o":                 128_000,
	"gpt-4.1-mini":           128_000,
	"gpt-4.1":                128_000,
	"gpt-5-nano":             64_000,
	"gpt-5-mini":             128_000,
	"gpt-5":                  200_000,
	"gpt-5.1":                200_000,
	"o1":                     200_000,
	"o1-preview":             200_000,
	"o1-mini":                200_000,
}

// ModelContextWindow returns the context window for a model identifier.
func ModelContextWindow(model string) int {
	if window, ok := modelCatalog[model]; ok {
		return window
	}
	return FallbackContextWindow
}

// KnownModels lists the catalog's model identifiers in sorted order.
func KnownModels() []string {
	models := make([]string, 0, len(modelCatalog))
	for model := range modelCatalog {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}
