package domain

// Hotel is the canonical record for one physical hotel. Adapters emit stubs of
// the same shape; the reconcile engine folds stubs sharing an ID into one.
type Hotel struct {
	ID                string    `json:"id"`
	DestinationID     int       `json:"destination_id"`
	Name              string    `json:"name"`
	Location          Location  `json:"location"`
	Description       string    `json:"description"`
	Amenities         Amenities `json:"amenities"`
	Images            Images    `json:"images"`
	BookingConditions []string  `json:"booking_conditions"`
}

// Location keeps coordinates as the strings suppliers sent; they are never parsed.
type Location struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Lat     string `json:"lat"`
	Lng     string `json:"lng"`
}

type Amenities struct {
	General []string `json:"general"`
	Room    []string `json:"room"`
}

type Images struct {
	Rooms     []Image `json:"rooms"`
	Site      []Image `json:"site"`
	Amenities []Image `json:"amenities"`
}

type Image struct {
	Link        string `json:"link"`
	Description string `json:"description"`
}

// SupplierBatch is one supplier's stubs for a cycle. Batch order is the merge order.
type SupplierBatch struct {
	Supplier string
	Hotels   []Hotel
}
