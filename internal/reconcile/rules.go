package reconcile

import (
	"fmt"
	"slices"

	"github.com/spf13/viper"
)

// RuleSet is the static merge configuration. It is loaded once and passed by
// value; nothing in this package mutates it after construction.
type RuleSet struct {
	Amenities         AmenityRules      `mapstructure:"amenities"`
	Name              NameRules         `mapstructure:"name"`
	Description       PreferenceRules   `mapstructure:"description"`
	BookingConditions BookingConditions `mapstructure:"booking_conditions"`
	Location          LocationRules     `mapstructure:"location"`
}

type AmenityRules struct {
	ValidGeneral []string `mapstructure:"valid_general"`
	ValidRoom    []string `mapstructure:"valid_room"`
	// FilterOnMerge runs the whitelist over the incoming side of a merge too.
	// When false, incoming amenities are unioned in unfiltered.
	FilterOnMerge bool `mapstructure:"filter_on_merge"`
}

type NameRules struct {
	Normalize  bool     `mapstructure:"normalize"`
	Preference []string `mapstructure:"preference"`
}

type PreferenceRules struct {
	Preference []string `mapstructure:"preference"`
}

type BookingConditions struct {
	Source string `mapstructure:"source"`
}

type LocationRules struct {
	// FillGaps lets a merge fill the anchor's empty location fields and zero
	// destination id. When false the anchor's values are kept as they are.
	FillGaps bool `mapstructure:"fill_gaps"`
}

// DefaultRules returns the production rule set.
func DefaultRules() RuleSet {
	return RuleSet{
		Amenities: AmenityRules{
			ValidGeneral: []string{
				"outdoor pool", "indoor pool", "business center", "childcare", "wifi",
				"dry cleaning", "breakfast", "parking", "bar", "concierge",
			},
			ValidRoom: []string{
				"aircon", "tv", "coffee machine", "kettle", "hair dryer",
				"iron", "bathtub", "minibar", "tub",
			},
			FilterOnMerge: true,
		},
		Name: NameRules{
			Normalize:  true,
			Preference: []string{"acme", "patagonia", "paperflies"},
		},
		Description: PreferenceRules{
			Preference: []string{"paperflies", "acme", "patagonia"},
		},
		BookingConditions: BookingConditions{Source: "paperflies"},
		Location:          LocationRules{FillGaps: true},
	}
}

// LoadRules returns DefaultRules overridden by the YAML (or JSON/TOML) file at
// path. An empty path yields the defaults.
func LoadRules(path string) (RuleSet, error) {
	def := DefaultRules()
	if path == "" {
		return def, nil
	}

	v := viper.New()
	v.SetDefault("amenities.valid_general", def.Amenities.ValidGeneral)
	v.SetDefault("amenities.valid_room", def.Amenities.ValidRoom)
	v.SetDefault("amenities.filter_on_merge", def.Amenities.FilterOnMerge)
	v.SetDefault("name.normalize", def.Name.Normalize)
	v.SetDefault("name.preference", def.Name.Preference)
	v.SetDefault("description.preference", def.Description.Preference)
	v.SetDefault("booking_conditions.source", def.BookingConditions.Source)
	v.SetDefault("location.fill_gaps", def.Location.FillGaps)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return RuleSet{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	var rs RuleSet
	if err := v.Unmarshal(&rs); err != nil {
		return RuleSet{}, fmt.Errorf("decode rules %s: %w", path, err)
	}
	return rs.clone(), nil
}

// Validate reports configuration that is legal but probably unintended.
// A supplier missing from a preference list outranks every listed supplier
// for that field.
func (r RuleSet) Validate(enabled []string) []string {
	var warnings []string
	for _, s := range enabled {
		if !slices.Contains(r.Name.Preference, s) {
			warnings = append(warnings, fmt.Sprintf("supplier %q is not in name.preference and will win every name conflict", s))
		}
		if !slices.Contains(r.Description.Preference, s) {
			warnings = append(warnings, fmt.Sprintf("supplier %q is not in description.preference and will win every description conflict", s))
		}
	}
	if r.BookingConditions.Source != "" && !slices.Contains(enabled, r.BookingConditions.Source) {
		warnings = append(warnings, fmt.Sprintf("booking_conditions.source %q is not enabled; conditions will come from anchor records only", r.BookingConditions.Source))
	}
	return warnings
}

func (r RuleSet) clone() RuleSet {
	out := r
	out.Amenities.ValidGeneral = slices.Clone(r.Amenities.ValidGeneral)
	out.Amenities.ValidRoom = slices.Clone(r.Amenities.ValidRoom)
	out.Name.Preference = slices.Clone(r.Name.Preference)
	out.Description.Preference = slices.Clone(r.Description.Preference)
	return out
}
