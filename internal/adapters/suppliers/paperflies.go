package suppliers

import (
	"context"
	"strings"

	"hotels_merge/internal/domain"
)

const NamePaperflies = "paperflies"

// Paperflies serves nested records with pre-bucketed amenities, {link, caption}
// images and booking conditions.
type Paperflies struct {
	client *Client
	url    string
}

func NewPaperflies(c *Client, url string) *Paperflies { return &Paperflies{client: c, url: url} }

func (p *Paperflies) Name() string { return NamePaperflies }

func (p *Paperflies) FetchHotels(ctx context.Context) ([]domain.Hotel, error) {
	raw, err := p.client.FetchArray(ctx, NamePaperflies, p.url)
	if err != nil {
		return nil, err
	}
	return mapPaperflies(raw), nil
}

func mapPaperflies(in []map[string]any) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(in))
	for _, r := range in {
		name := strings.TrimSpace(lookupStr(r, "hotel_name"))
		addr := strings.TrimSpace(lookupStr(r, "location.address"))
		if name == "" || addr == "" {
			continue
		}
		out = append(out, domain.Hotel{
			ID:            stringify(lookupAny(r, "hotel_id")),
			DestinationID: intNumber(r, "destination_id"),
			Name:          name,
			Location: domain.Location{
				Address: addr,
				Country: lookupStr(r, "location.country"),
			},
			Description: strings.TrimSpace(lookupStr(r, "details")),
			Amenities: domain.Amenities{
				General: stringList(r, "amenities.general"),
				Room:    stringList(r, "amenities.room"),
			},
			Images: domain.Images{
				Rooms:     images(r, "images.rooms", "link", "caption"),
				Site:      images(r, "images.site", "link", "caption"),
				Amenities: images(r, "images.amenities", "link", "caption"),
			},
			BookingConditions: stringList(r, "booking_conditions"),
		})
	}
	return out
}
