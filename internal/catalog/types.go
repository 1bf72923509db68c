// Package catalog defines the normalized component document model produced
// from spreadsheet rows, plus the sheet-definition registry that dispatches
// rows to the mapper for their entity kind. This package has no transport
// dependencies and can be exercised by any frontend.
package catalog

import "fmt"

// ComponentField is one schema level of a document: the template it must
// satisfy and the data validated against that template's schema.
type ComponentField struct {
	TemplateID string         `json:"templateId"`
	Data       map[string]any `json:"data"`
}

// Description carries the three description variants the content service
// stores per component.
type Description struct {
	Web    string `json:"web"`
	Quote  string `json:"quote"`
	Final  string `json:"final,omitempty"`
	Booked string `json:"booked,omitempty"`
}

// Media groups image and video asset references.
type Media struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// SpanItem references a component scheduled within an itinerary day span.
type SpanItem struct {
	ComponentID string `json:"componentId"`
	AllDay      bool   `json:"allDay"`
}

// Span is one day range of an itinerary.
type Span struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Items       []SpanItem `json:"items"`
	StartDay    int        `json:"startDay"`
	EndDay      int        `json:"endDay"`
	Meals       []string   `json:"meals"`
}

// Itinerary is the optional nested package/bundle structure for multi-day
// entities (private tours, cruise packages).
type Itinerary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Spans       []Span `json:"spans,omitempty"`
}

// Document is the unit of upload: one catalog entity normalized into the
// content service's component shape. ComponentFields is ordered outermost
// (most specific template) first; every TemplateID appearing there must have
// a matching schema level at validation time.
type Document struct {
	Name            string           `json:"name"`
	TemplateID      string           `json:"templateId"`
	OrgID           string           `json:"orgId,omitempty"`
	Destination     string           `json:"destination,omitempty"`
	State           string           `json:"state,omitempty"`
	IsBookable      bool             `json:"isBookable,omitempty"`
	Description     *Description     `json:"description,omitempty"`
	Partners        []string         `json:"partners"`
	Regions         []string         `json:"regions"`
	Pricing         map[string]any   `json:"pricing,omitempty"`
	Media           *Media           `json:"media,omitempty"`
	Details         map[string]any   `json:"details,omitempty"`
	Requirements    map[string]any   `json:"requirements,omitempty"`
	Package         *Itinerary       `json:"package,omitempty"`
	Bundle          map[string]any   `json:"bundle,omitempty"`
	StartDate       string           `json:"startDate,omitempty"`
	EndDate         string           `json:"endDate,omitempty"`
	Duration        *int             `json:"duration,omitempty"`
	ComponentFields []ComponentField `json:"componentFields"`
}

// Level returns the component field whose templateId matches, or nil.
func (d *Document) Level(templateID string) *ComponentField {
	for i := range d.ComponentFields {
		if d.ComponentFields[i].TemplateID == templateID {
			return &d.ComponentFields[i]
		}
	}
	return nil
}

// DisplayName returns the document name, falling back to "Untitled" so that
// cache keys and reports never carry an empty name.
func (d *Document) DisplayName() string {
	if d.Name == "" {
		return "Untitled"
	}
	return d.Name
}

// Kind tags the business entity type of a sheet's documents. It is the first
// half of the (kind, name) business key used for identifier lookups.
type Kind string

const (
	KindLocation      Kind = "location"
	KindAccommodation Kind = "accommodation"
	KindShip          Kind = "ship"
	KindActivity      Kind = "activity"
	KindJourney       Kind = "journey"
	KindTour          Kind = "tour"
	KindCruise        Kind = "cruise"
	KindRegion        Kind = "region"
)

// SheetInfo describes a registered sheet definition.
type SheetInfo struct {
	Key   string // Unique identifier: "location", "ground_accom"
	Kind  Kind   // Business key type tag for uploaded documents
	Label string // Display name: "Ground Accommodation"
}

// MapFunc transforms one spreadsheet row into a candidate document.
// templateIDs is the sheet's template chain in chain order (base first).
// Mappers report unresolved references through env and return an error only
// when the row cannot produce a document at all.
type MapFunc func(row Row, templateIDs []string, env *MapEnv) (*Document, error)

// SheetDefinition contains everything needed to process one sheet kind.
type SheetDefinition struct {
	Info SheetInfo
	Map  MapFunc
}

func (d SheetDefinition) validate() error {
	if d.Info.Key == "" {
		return fmt.Errorf("sheet definition missing key")
	}
	if d.Info.Kind == "" {
		return fmt.Errorf("sheet definition %q missing kind", d.Info.Key)
	}
	if d.Map == nil {
		return fmt.Errorf("sheet definition %q missing map func", d.Info.Key)
	}
	return nil
}
