package suppliers

import (
	"context"
	"strings"

	"hotels_merge/internal/domain"
)

const NamePatagonia = "patagonia"

// Patagonia serves lowercase records with coordinates and {url, description}
// images. Its address is passed through untrimmed.
type Patagonia struct {
	client *Client
	url    string
}

func NewPatagonia(c *Client, url string) *Patagonia { return &Patagonia{client: c, url: url} }

func (p *Patagonia) Name() string { return NamePatagonia }

func (p *Patagonia) FetchHotels(ctx context.Context) ([]domain.Hotel, error) {
	raw, err := p.client.FetchArray(ctx, NamePatagonia, p.url)
	if err != nil {
		return nil, err
	}
	return mapPatagonia(raw), nil
}

func mapPatagonia(in []map[string]any) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(in))
	for _, r := range in {
		name, addr := lookupStr(r, "name"), lookupStr(r, "address")
		if name == "" || addr == "" {
			continue
		}
		out = append(out, domain.Hotel{
			ID:            stringify(lookupAny(r, "id")),
			DestinationID: intNumber(r, "destination"),
			Name:          strings.TrimSpace(name),
			Location: domain.Location{
				Address: addr,
				Lat:     truthyStr(r, "lat"),
				Lng:     truthyStr(r, "lng"),
			},
			Description: strings.TrimSpace(lookupStr(r, "info")),
			Amenities: domain.Amenities{
				General: uniqueStrings(stringList(r, "amenities")),
				Room:    []string{},
			},
			Images: domain.Images{
				Rooms:     images(r, "images.rooms", "url", "description"),
				Site:      []domain.Image{},
				Amenities: images(r, "images.amenities", "url", "description"),
			},
			BookingConditions: []string{},
		})
	}
	return out
}
