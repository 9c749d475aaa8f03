package display

import (
	"testing"

	"codeberg.org/snonux/recipetrans/internal/catalog"
)

func TestName(t *testing.T) {
	flour := catalog.NamePair{Singular: "flour", Plural: "flours"}
	mehl := catalog.NamePair{Singular: "Mehl", Plural: "Mehle"}

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "singular",
			in:   Input{Stored: flour, IsPlural: false},
			want: "flour",
		},
		{
			name: "plural",
			in:   Input{Stored: flour, IsPlural: true},
			want: "flours",
		},
		{
			name: "translated wins over stored",
			in:   Input{Stored: flour, Translated: mehl},
			want: "Mehl",
		},
		{
			name: "override wins over translated",
			in:   Input{Override: "Bio-Mehl", Stored: flour, Translated: mehl, IsPlural: true},
			want: "Bio-Mehl",
		},
		{
			name: "blank override ignored",
			in:   Input{Override: "  ", Stored: flour, Translated: mehl, IsPlural: true},
			want: "Mehle",
		},
		{
			name: "missing plural falls back to singular",
			in:   Input{Stored: catalog.NamePair{Singular: "salt"}, IsPlural: true},
			want: "salt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.in); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNameIdempotent(t *testing.T) {
	in := Input{Stored: catalog.NamePair{Singular: "egg", Plural: "eggs"}, IsPlural: true}
	first := Name(in)
	second := Name(in)
	if first != second {
		t.Errorf("Name() not idempotent: %q then %q", first, second)
	}
}
