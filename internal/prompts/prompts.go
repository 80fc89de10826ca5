// Package prompts provides the segment generation prompt templates,
// embedded at compile time and keyed by segment.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed generation.json
var generationJSON []byte

var load = sync.OnceValues(func() (map[string]string, error) {
	templates := make(map[string]string)
	if err := json.Unmarshal(generationJSON, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse embedded prompts: %w", err)
	}
	return templates, nil
})

// Get returns the prompt template for a segment key.
func Get(key string) (string, error) {
	templates, err := load()
	if err != nil {
		return "", err
	}
	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("no prompt template for segment %q", key)
	}
	return template, nil
}

// MustGet is Get for templates required at initialization time.
func MustGet(key string) string {
	template, err := Get(key)
	if err != nil {
		panic(err)
	}
	return template
}

// Format substitutes {{.Name}} placeholders with the given values.
// Placeholders without a value are left in place.
func Format(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{."+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Keys lists the available segment keys in sorted order.
func Keys() ([]string, error) {
	templates, err := load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
