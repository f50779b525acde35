package models

import "strings"

// SuggestionOrigin tells where a dropdown row came from.
type SuggestionOrigin string

const (
	OriginRemote   SuggestionOrigin = "remote"
	OriginRecent   SuggestionOrigin = "recent"
	OriginFallback SuggestionOrigin = "fallback"
)

// FallbackIDPrefix marks identifiers minted for fallback-provider results.
// Details are never fetched for them.
const FallbackIDPrefix = "osm:"

// StructuredFormatting mirrors the provider's split of a label into its
// main and secondary parts.
type StructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

// Suggestion is one candidate row of the autocomplete dropdown.
type Suggestion struct {
	PlaceID              string               `json:"place_id,omitempty"`
	Description          string               `json:"description,omitempty"`
	StructuredFormatting StructuredFormatting `json:"structured_formatting"`
	Types                []string             `json:"types,omitempty"`
	Origin               SuggestionOrigin     `json:"origin,omitempty"`
	Error                bool                 `json:"_error,omitempty"`
	Message              string               `json:"message,omitempty"`
}

// ErrorSuggestion builds the single non-interactive placeholder row.
func ErrorSuggestion(message string) Suggestion {
	return Suggestion{Error: true, Message: message}
}

// IsFallback reports whether the suggestion came from the fallback provider.
func (s Suggestion) IsFallback() bool {
	return strings.HasPrefix(s.PlaceID, FallbackIDPrefix)
}

// MainText is the primary label shown for the row.
func (s Suggestion) MainText() string {
	if s.StructuredFormatting.MainText != "" {
		return s.StructuredFormatting.MainText
	}
	return s.Description
}

// Place is a resolved location, either from a details lookup or from the
// suggestion itself when no details are available.
type Place struct {
	PlaceID              string               `json:"place_id,omitempty"`
	Name                 string               `json:"name,omitempty"`
	FormattedAddress     string               `json:"formatted_address,omitempty"`
	Description          string               `json:"description,omitempty"`
	Vicinity             string               `json:"vicinity,omitempty"`
	StructuredFormatting StructuredFormatting `json:"structured_formatting"`
	Types                []string             `json:"types,omitempty"`
	Geometry             *Geometry            `json:"geometry,omitempty"`
}

// Geometry carries the provider's location block.
type Geometry struct {
	Location LatLng `json:"location"`
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DisplayName is the text written back into the input after selection.
func (p Place) DisplayName() string {
	switch {
	case p.FormattedAddress != "":
		return p.FormattedAddress
	case p.Description != "":
		return p.Description
	default:
		return p.Name
	}
}

// PlaceFromSuggestion keeps the suggestion's own labels as the resolved place.
func PlaceFromSuggestion(s Suggestion) Place {
	return Place{
		PlaceID:              s.PlaceID,
		Description:          s.Description,
		StructuredFormatting: s.StructuredFormatting,
		Types:                s.Types,
	}
}

// RecentPlace is one entry of the recent-places list.
// An empty PlaceID stands for an unknown identifier.
type RecentPlace struct {
	PlaceID              string               `json:"place_id"`
	Description          string               `json:"description"`
	StructuredFormatting StructuredFormatting `json:"structured_formatting"`
	Types                []string             `json:"types"`
}

// RecentPlaceFrom normalises a resolved place into the stored shape.
func RecentPlaceFrom(p Place) RecentPlace {
	main := p.Name
	if main == "" {
		main = p.StructuredFormatting.MainText
	}
	types := p.Types
	if types == nil {
		types = []string{}
	}
	return RecentPlace{
		PlaceID:     p.PlaceID,
		Description: p.DisplayName(),
		StructuredFormatting: StructuredFormatting{
			MainText:      main,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		},
		Types: types,
	}
}

// Suggestion converts the entry into a dropdown row marked as recent.
func (r RecentPlace) Suggestion() Suggestion {
	return Suggestion{
		PlaceID:              r.PlaceID,
		Description:          r.Description,
		StructuredFormatting: r.StructuredFormatting,
		Types:                r.Types,
		Origin:               OriginRecent,
	}
}

// Matches is a case-insensitive substring match on the label or primary label.
func (r RecentPlace) Matches(query string) bool {
	if query == "" {
		return false
	}
	q := strings.ToLower(query)
	if r.Description != "" && strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	return r.StructuredFormatting.MainText != "" &&
		strings.Contains(strings.ToLower(r.StructuredFormatting.MainText), q)
}
