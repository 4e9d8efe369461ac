package api

import (
	"fmt"
	"strings"
)

// DefaultModel is the catalog key used when a request names none.
const DefaultModel = "claude-3.5-sonnet-v2"

// ModelInfo describes one selectable model.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

type catalogEntry struct {
	info      ModelInfo
	bedrockID string
}

// Catalog maps UI model keys to Bedrock model identifiers.
type Catalog struct {
	entries []catalogEntry
	byKey   map[string]int
}

// NewCatalog builds a catalog in display order. Each model's ID is both its
// catalog key and its Bedrock model id.
func NewCatalog(models ...ModelInfo) *Catalog {
	c := &Catalog{byKey: make(map[string]int)}
	for _, m := range models {
		c.add(m, "")
	}
	return c
}

func (c *Catalog) add(info ModelInfo, bedrockID string) {
	if bedrockID == "" {
		bedrockID = info.ID
	}
	if info.Provider == "" {
		info.Provider = providerFor(info.ID)
	}
	c.byKey[info.ID] = len(c.entries)
	c.entries = append(c.entries, catalogEntry{info: info, bedrockID: bedrockID})
}

// DefaultCatalog returns the Anthropic models available through Bedrock in us-west-2.
func DefaultCatalog() *Catalog {
	c := &Catalog{byKey: make(map[string]int)}
	c.add(ModelInfo{ID: "claude-3.5-sonnet-v2", Name: "Claude 3.5 Sonnet v2"}, "anthropic.claude-3-5-sonnet-20241022-v2:0")
	c.add(ModelInfo{ID: "claude-3.5-sonnet", Name: "Claude 3.5 Sonnet"}, "anthropic.claude-3-5-sonnet-20240620-v1:0")
	c.add(ModelInfo{ID: "claude-3.5-haiku", Name: "Claude 3.5 Haiku"}, "anthropic.claude-3-5-haiku-20241022-v1:0")
	c.add(ModelInfo{ID: "claude-3.7-sonnet", Name: "Claude 3.7 Sonnet"}, "us.anthropic.claude-3-7-sonnet-20250219-v1:0")
	c.add(ModelInfo{ID: "claude-sonnet-4", Name: "Claude Sonnet 4"}, "us.anthropic.claude-sonnet-4-20250514-v1:0")
	c.add(ModelInfo{ID: "claude-3-sonnet", Name: "Claude 3 Sonnet"}, "anthropic.claude-3-sonnet-20240229-v1:0")
	c.add(ModelInfo{ID: "claude-3-haiku", Name: "Claude 3 Haiku"}, "anthropic.claude-3-haiku-20240307-v1:0")
	c.add(ModelInfo{ID: "claude-3-opus", Name: "Claude 3 Opus"}, "anthropic.claude-3-opus-20240229-v1:0")
	return c
}

// Models returns the catalog in display order.
func (c *Catalog) Models() []ModelInfo {
	out := make([]ModelInfo, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.info)
	}
	return out
}

// Has reports whether the key is in the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// Resolve returns the Bedrock model id for a catalog key.
func (c *Catalog) Resolve(key string) (string, error) {
	i, ok := c.byKey[key]
	if !ok {
		keys := make([]string, 0, len(c.entries))
		for _, e := range c.entries {
			keys = append(keys, e.info.ID)
		}
		return "", fmt.Errorf("%w: %s. Available models: %s", ErrUnknownModel, key, strings.Join(keys, ", "))
	}
	return c.entries[i].bedrockID, nil
}

func providerFor(key string) string {
	switch {
	case strings.Contains(key, "claude"):
		return "Anthropic"
	case strings.Contains(key, "llama"):
		return "Meta"
	case strings.Contains(key, "mistral"), strings.Contains(key, "mixtral"):
		return "Mistral AI"
	case strings.Contains(key, "titan"):
		return "Amazon"
	default:
		return "Unknown"
	}
}
