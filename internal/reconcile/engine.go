package reconcile

import (
	"slices"
	"strings"

	"hotels_merge/internal/domain"
)

// Engine merges supplier batches into the canonical catalog. It holds no state
// between calls and is safe to share.
type Engine struct {
	rules   RuleSet
	general whitelist
	room    whitelist
}

func NewEngine(rules RuleSet) *Engine {
	rules = rules.clone()
	return &Engine{
		rules:   rules,
		general: newWhitelist(rules.Amenities.ValidGeneral),
		room:    newWhitelist(rules.Amenities.ValidRoom),
	}
}

// anchored is a canonical record plus the supplier that created it. The
// anchor never changes once set; every later conflict is decided against it.
type anchored struct {
	hotel  domain.Hotel
	anchor string
}

// Merge flattens batches in order and folds records sharing an ID. Output is
// in first-seen order.
func (e *Engine) Merge(batches []domain.SupplierBatch) []domain.Hotel {
	index := make(map[string]int)
	var entries []anchored

	for _, b := range batches {
		for _, h := range b.Hotels {
			i, ok := index[h.ID]
			if !ok {
				index[h.ID] = len(entries)
				entries = append(entries, anchored{hotel: e.ApplyRules(h), anchor: b.Supplier})
				continue
			}
			cur := entries[i]
			entries[i] = anchored{
				hotel:  e.mergePair(cur.hotel, cur.anchor, h, b.Supplier),
				anchor: cur.anchor,
			}
		}
	}

	out := make([]domain.Hotel, 0, len(entries))
	for _, en := range entries {
		out = append(out, en.hotel)
	}
	return out
}

// ApplyRules whitelists both amenity buckets and trims the name when enabled.
// The result shares no slices with h.
func (e *Engine) ApplyRules(h domain.Hotel) domain.Hotel {
	out := h
	out.Amenities = domain.Amenities{
		General: e.general.filter(h.Amenities.General),
		Room:    e.room.filter(h.Amenities.Room),
	}
	out.Images = domain.Images{
		Rooms:     concatImages(h.Images.Rooms),
		Site:      concatImages(h.Images.Site),
		Amenities: concatImages(h.Images.Amenities),
	}
	out.BookingConditions = cloneStrings(h.BookingConditions)
	if e.rules.Name.Normalize {
		out.Name = strings.TrimSpace(out.Name)
	}
	return out
}

func (e *Engine) mergePair(existing domain.Hotel, existingSupplier string, incoming domain.Hotel, incomingSupplier string) domain.Hotel {
	merged := existing

	merged.Name = SelectBySupplierPriority(existing.Name, incoming.Name,
		existingSupplier, incomingSupplier, e.rules.Name.Preference)
	merged.Description = SelectBySupplierPriority(existing.Description, incoming.Description,
		existingSupplier, incomingSupplier, e.rules.Description.Preference)

	general, room := incoming.Amenities.General, incoming.Amenities.Room
	if e.rules.Amenities.FilterOnMerge {
		general = e.general.filter(general)
		room = e.room.filter(room)
	}
	merged.Amenities = domain.Amenities{
		General: unionExact(existing.Amenities.General, general),
		Room:    unionExact(existing.Amenities.Room, room),
	}

	merged.Images = domain.Images{
		Rooms:     concatImages(existing.Images.Rooms, incoming.Images.Rooms),
		Site:      concatImages(existing.Images.Site, incoming.Images.Site),
		Amenities: concatImages(existing.Images.Amenities, incoming.Images.Amenities),
	}

	if src := e.rules.BookingConditions.Source; src != "" && incomingSupplier == src {
		merged.BookingConditions = cloneStrings(incoming.BookingConditions)
	}

	if !e.rules.Location.FillGaps {
		return merged
	}
	// anchor wins; only its gaps are filled
	merged.Location = domain.Location{
		Address: firstNonEmpty(existing.Location.Address, incoming.Location.Address),
		City:    firstNonEmpty(existing.Location.City, incoming.Location.City),
		Country: firstNonEmpty(existing.Location.Country, incoming.Location.Country),
		Lat:     firstNonEmpty(existing.Location.Lat, incoming.Location.Lat),
		Lng:     firstNonEmpty(existing.Location.Lng, incoming.Location.Lng),
	}
	if merged.DestinationID == 0 {
		merged.DestinationID = incoming.DestinationID
	}

	return merged
}

// SelectBySupplierPriority resolves a scalar conflict. Lower index in
// priority wins; a supplier missing from priority gets index -1 and therefore
// beats every listed supplier.
func SelectBySupplierPriority(existingValue, incomingValue, existingSupplier, incomingSupplier string, priority []string) string {
	if existingValue == "" {
		return strings.TrimSpace(incomingValue)
	}
	ei := slices.Index(priority, existingSupplier)
	ii := slices.Index(priority, incomingSupplier)
	if incomingValue != "" && ii < ei {
		return strings.TrimSpace(incomingValue)
	}
	return strings.TrimSpace(existingValue)
}

// FilterAmenities keeps the candidates whose normalized form matches a
// whitelist entry, rewritten to the whitelist spelling, deduplicated in
// input order.
func FilterAmenities(candidates, valid []string) []string {
	return newWhitelist(valid).filter(candidates)
}

// whitelist maps normalized spelling to canonical spelling.
type whitelist map[string]string

func newWhitelist(valid []string) whitelist {
	w := make(whitelist, len(valid))
	for _, v := range valid {
		w[Normalize(v)] = v
	}
	return w
}

func (w whitelist) filter(candidates []string) []string {
	set := newOrderedSet(len(candidates))
	for _, c := range candidates {
		n := Normalize(c)
		if canonical, ok := w[n]; ok {
			set.Add(n, canonical)
		}
	}
	return set.Values()
}

func concatImages(lists ...[]domain.Image) []domain.Image {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make([]domain.Image, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func cloneStrings(in []string) []string {
	return append(make([]string, 0, len(in)), in...)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
