package suppliers

import (
	"fmt"

	"hotels_merge/internal/domain"
)

// Build returns one adapter per enabled supplier, in the given order. That
// order is the merge order.
func Build(c *Client, enabled []string, urls map[string]string) ([]domain.Supplier, error) {
	out := make([]domain.Supplier, 0, len(enabled))
	seen := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		if seen[name] {
			return nil, fmt.Errorf("supplier %q enabled twice", name)
		}
		seen[name] = true

		url := urls[name]
		if url == "" {
			return nil, fmt.Errorf("supplier %q has no URL", name)
		}
		switch name {
		case NameAcme:
			out = append(out, NewAcme(c, url))
		case NamePatagonia:
			out = append(out, NewPatagonia(c, url))
		case NamePaperflies:
			out = append(out, NewPaperflies(c, url))
		default:
			return nil, fmt.Errorf("unknown supplier %q", name)
		}
	}
	return out, nil
}
