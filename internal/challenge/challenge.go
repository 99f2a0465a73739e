package challenge

import (
	"embed"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"strings"

	"darevote/internal/dare"
)

//go:embed catalog/*.txt
var catalogFS embed.FS

// Catalog is a fixed list of challenges.
type Catalog struct {
	items []dare.Challenge
	pick  func(n int) int
}

// New builds a catalog over items, drawing uniformly at random.
func New(items []dare.Challenge) *Catalog {
	return &Catalog{items: items, pick: rand.IntN}
}

// Default loads the embedded English catalog.
func Default() *Catalog {
	items, err := Load("en")
	if err != nil {
		// The embedded file ships with the binary; failing here is a build defect.
		panic(err)
	}
	return New(items)
}

// WithPicker replaces the random index source, for tests.
func (c *Catalog) WithPicker(pick func(n int) int) *Catalog {
	if pick != nil {
		c.pick = pick
	}
	return c
}

// Load reads the embedded catalog for lang. Lines are id|category|difficulty|text;
// blank lines and lines starting with # are skipped.
func Load(lang string) ([]dare.Challenge, error) {
	name := strings.TrimSpace(lang)
	if name == "" {
		name = "en"
	}
	b, err := fs.ReadFile(catalogFS, "catalog/"+name+".txt")
	if err != nil {
		return nil, err
	}
	return Parse(string(b))
}

// Parse reads challenges in the catalog line format.
func Parse(src string) ([]dare.Challenge, error) {
	var out []dare.Challenge
	for n, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("challenge catalog line %d: want 4 fields, got %d", n+1, len(parts))
		}
		out = append(out, dare.Challenge{
			ID:         strings.TrimSpace(parts[0]),
			Category:   strings.TrimSpace(parts[1]),
			Difficulty: strings.TrimSpace(parts[2]),
			Text:       strings.TrimSpace(parts[3]),
		})
	}
	return out, nil
}

// All returns a copy of every challenge in the catalog.
func (c *Catalog) All() []dare.Challenge {
	return append([]dare.Challenge(nil), c.items...)
}

// Lookup finds a challenge by id.
func (c *Catalog) Lookup(id string) (dare.Challenge, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return dare.Challenge{}, false
}

// Pick returns a random challenge other than excludeID, unless it is the only one.
func (c *Catalog) Pick(excludeID string) dare.Challenge {
	pool := make([]dare.Challenge, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != excludeID {
			pool = append(pool, item)
		}
	}
	if len(pool) == 0 {
		pool = c.items
	}
	if len(pool) == 0 {
		return dare.Challenge{}
	}
	return pool[c.pick(len(pool))]
}
