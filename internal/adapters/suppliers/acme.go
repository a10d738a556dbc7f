package suppliers

import (
	"context"
	"strings"

	"hotels_merge/internal/domain"
)

const NameAcme = "acme"

// Acme serves flat, PascalCase records with a single facilities list and no
// images or booking conditions.
type Acme struct {
	client *Client
	url    string
}

func NewAcme(c *Client, url string) *Acme { return &Acme{client: c, url: url} }

func (a *Acme) Name() string { return NameAcme }

func (a *Acme) FetchHotels(ctx context.Context) ([]domain.Hotel, error) {
	raw, err := a.client.FetchArray(ctx, NameAcme, a.url)
	if err != nil {
		return nil, err
	}
	return mapAcme(raw), nil
}

func mapAcme(in []map[string]any) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(in))
	for _, r := range in {
		name := strings.TrimSpace(lookupStr(r, "Name"))
		addr := strings.TrimSpace(lookupStr(r, "Address"))
		if name == "" || addr == "" {
			continue
		}
		out = append(out, domain.Hotel{
			ID:            truthyStr(r, "Id"),
			DestinationID: intFlexible(r, "DestinationId"),
			Name:          name,
			Location: domain.Location{
				Address: addr,
				City:    truthyStr(r, "City"),
				Country: truthyStr(r, "Country"),
				Lat:     truthyStr(r, "Latitude"),
				Lng:     truthyStr(r, "Longitude"),
			},
			Description: truthyStr(r, "Description"),
			Amenities: domain.Amenities{
				General: uniqueStrings(stringList(r, "Facilities")),
				Room:    []string{},
			},
			Images: domain.Images{
				Rooms:     []domain.Image{},
				Site:      []domain.Image{},
				Amenities: []domain.Image{},
			},
			BookingConditions: []string{},
		})
	}
	return out
}
