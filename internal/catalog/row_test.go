package catalog

import (
	"reflect"
	"testing"
)

func TestRowStripped(t *testing.T) {
	row := Row{"Name": "  Ushuaia  ", "Empty": "   "}

	if got := row.Stripped("Name"); got != "Ushuaia" {
		t.Errorf("Stripped(Name) = %q, want Ushuaia", got)
	}
	if got := row.Stripped("Empty"); got != "" {
		t.Errorf("Stripped(Empty) = %q, want empty", got)
	}
	if got := row.Stripped("Absent"); got != "" {
		t.Errorf("Stripped(Absent) = %q, want empty", got)
	}
}

func TestRowFloat(t *testing.T) {
	row := Row{"Lat": "-54.8", "Bad": "south", "Blank": ""}

	if f, ok := row.Float("Lat"); !ok || f != -54.8 {
		t.Errorf("Float(Lat) = (%v, %v), want (-54.8, true)", f, ok)
	}
	if _, ok := row.Float("Bad"); ok {
		t.Error("Float(Bad) should fail")
	}
	if _, ok := row.Float("Blank"); ok {
		t.Error("Float(Blank) should fail")
	}
}

func TestRowInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   int
		want  int
	}{
		{"plain integer", "3", -1, 3},
		{"spreadsheet float", "3.0", -1, 3},
		{"truncates fraction", "3.7", -1, 3},
		{"blank uses default", "", -1, -1},
		{"garbage uses default", "three", 7, 7},
		{"whitespace trimmed", " 12 ", -1, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{"N": tt.value}
			if got := row.Int("N", tt.def); got != tt.want {
				t.Errorf("Int(%q, %d) = %d, want %d", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestRowBool(t *testing.T) {
	row := Row{"Wifi": "Included", "Pool": "included", "Gym": "TRUE", "Bar": "no"}

	if !row.Bool("Wifi", "Included") {
		t.Error("Bool(Wifi, Included) = false")
	}
	if !row.Bool("Pool", "Included") {
		t.Error("Bool should match case-insensitively")
	}
	if !row.Bool("Gym", "true") {
		t.Error("Bool(Gym, true) = false")
	}
	if row.Bool("Bar", "Included") {
		t.Error("Bool(Bar, Included) = true")
	}
	if row.Bool("Absent", "TRUE") {
		t.Error("Bool(Absent) = true")
	}
}

func TestRowList(t *testing.T) {
	row := Row{"Meals": "Breakfast, Lunch , ,Dinner", "Blank": "  "}

	got := row.List("Meals", ",")
	want := []string{"Breakfast", "Lunch", "Dinner"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List(Meals) = %v, want %v", got, want)
	}
	if got := row.List("Blank", ","); got != nil {
		t.Errorf("List(Blank) = %v, want nil", got)
	}
}

func TestDocumentLevel(t *testing.T) {
	doc := &Document{
		ComponentFields: []ComponentField{
			{TemplateID: "t_loc", Data: map[string]any{"type": "Town"}},
			{TemplateID: "t_base", Data: map[string]any{}},
		},
	}

	cf := doc.Level("t_loc")
	if cf == nil {
		t.Fatal("Level(t_loc) = nil")
	}
	if cf.Data["type"] != "Town" {
		t.Errorf("level data = %v", cf.Data)
	}
	if doc.Level("t_other") != nil {
		t.Error("Level(t_other) should be nil")
	}
}

func TestDocumentDisplayName(t *testing.T) {
	if got := (&Document{Name: "Ushuaia"}).DisplayName(); got != "Ushuaia" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := (&Document{}).DisplayName(); got != "Untitled" {
		t.Errorf("DisplayName fallback = %q, want Untitled", got)
	}
}

func TestMapEnvRef(t *testing.T) {
	env := &MapEnv{Sheet: "Ground Accom", Row: 7}
	ref := env.Ref("location", "Hotel Azul", true)

	want := RefContext{Sheet: "Ground Accom", Row: 7, Field: "location", RowName: "Hotel Azul", Required: true}
	if ref != want {
		t.Errorf("Ref = %+v, want %+v", ref, want)
	}
}
