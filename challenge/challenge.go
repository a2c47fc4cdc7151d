package challenge

import (
	"strings"

	"github.com/JamiaHub/JAMIAHUB/sandbox"
)

// Challenge is a coding puzzle solved by defining solve in JavaScript.
type Challenge struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Signature   string             `json:"signature"`
	Examples    []string           `json:"examples"`
	Hint        string             `json:"hint"`
	Starter     string             `json:"starter"`
	Tests       []sandbox.TestCase `json:"tests"`
}

// Slug is the lower-case, dash separated title, e.g. "sum-of-array".
func (c Challenge) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(c.Title)), "-")
}

// Find looks a challenge up by slug or title, ignoring case.
func Find(name string) (Challenge, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Catalog() {
		if strings.EqualFold(c.Slug(), name) || strings.EqualFold(c.Title, name) {
			return c, true
		}
	}
	return Challenge{}, false
}
