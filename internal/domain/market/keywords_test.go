package market

import (
	"reflect"
	"testing"
)

func TestExtractTopKeywords(t *testing.T) {
	titles := []string{
		"Boho Wall Art Print",
		"Boho Wall Decor",
	}
	got := ExtractTopKeywords(titles)
	want := []string{"boho", "wall", "print", "decor"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractTopKeywordsSkipsShortWords(t *testing.T) {
	got := ExtractTopKeywords([]string{"Art for the big sale now"})
	for _, w := range got {
		if len(w) <= 3 {
			t.Errorf("short word leaked through: %q", w)
		}
	}
}

func TestExtractTopKeywordsStripsPunctuation(t *testing.T) {
	got := ExtractTopKeywords([]string{"Vintage! Vintage? (vintage)"})
	want := []string{"vintage"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractTopKeywordsCapsAtTen(t *testing.T) {
	titles := []string{
		"alpha bravo charlie delta echoes foxtrot golfs hotel india juliett kilos limas",
	}
	got := ExtractTopKeywords(titles)
	if len(got) != 10 {
		t.Fatalf("expected 10 keywords, got %d: %v", len(got), got)
	}
}

func TestAveragePrice(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
		want   float64
	}{
		{"mixed valid and invalid", []string{"$10.00", "invalid", "$20.00"}, 15},
		{"all invalid", []string{"free", "", "n/a"}, 0},
		{"empty", nil, 0},
		{"sign stripped like currency symbols", []string{"$30.00", "-5"}, 17.5},
		{"zero skipped", []string{"$30.00", "0"}, 30},
		{"rounds to cents", []string{"$10.00", "$10.01", "$10.01"}, 10.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AveragePrice(tt.prices); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPopularTags(t *testing.T) {
	got := PopularTags([][]string{
		{"Boho", "wall art", "print"},
		{"boho", "digital download"},
	})
	if got[0] != "boho" {
		t.Fatalf("expected boho first, got %v", got)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 tags, got %v", got)
	}
}
