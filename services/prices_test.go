package services

import (
	"errors"
	"testing"

	"github.com/gca01/pm-price-ss/utils"
)

func newTestParser() *PriceParser { return NewPriceParser(utils.NewLogger()) }

func TestParseOne(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		raw       string
		wantTeam  string
		wantPrice float64
		wantErr   bool
	}{
		{"IND62¢", "IND", 0.62, false},
		{"SAC39¢", "SAC", 0.39, false},
		{"NY100¢", "NY", 1.00, false},
		{"BOS0¢", "BOS", 0.00, false},
		{" IND62¢\n", "IND", 0.62, false}, // whitespace and newlines stripped
		{"IND101¢", "", 0, true},          // out of range
		{"IND+6.5", "", 0, true},          // spread button, no cents marker
		{"62¢", "", 0, true},              // no team token
		{"INDIANA62¢", "", 0, true},       // token too long
		{"", "", 0, true},
	}

	for _, tt := range tests {
		team, price, err := p.parseOne(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseOne(%q) expected error, got (%q, %.2f)", tt.raw, team, price)
			} else if !errors.Is(err, ErrParse) {
				t.Errorf("parseOne(%q) error is not ErrParse: %v", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseOne(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if team != tt.wantTeam || price != tt.wantPrice {
			t.Errorf("parseOne(%q) = (%q, %.2f), want (%q, %.2f)",
				tt.raw, team, price, tt.wantTeam, tt.wantPrice)
		}
	}
}

func TestSampleMatchesByIdentityNotPosition(t *testing.T) {
	p := newTestParser()

	for _, texts := range [][]string{
		{"IND62¢", "SAC39¢"},
		{"SAC39¢", "IND62¢"},
	} {
		sample, err := p.Sample(texts, "IND", "SAC")
		if err != nil {
			t.Fatalf("Sample(%v) unexpected error: %v", texts, err)
		}
		if sample.HomePrice != 0.62 || sample.AwayPrice != 0.39 {
			t.Errorf("Sample(%v) = home %.2f away %.2f, want 0.62/0.39",
				texts, sample.HomePrice, sample.AwayPrice)
		}
	}
}

func TestSampleIgnoresNonPriceTexts(t *testing.T) {
	p := newTestParser()

	// Spread buttons and stray ¢ labels are not valid-looking price texts
	// and must not disturb the pair.
	texts := []string{"IND -6.5 48¢extra", "IND62¢", "More ¢ markets", "SAC39¢"}
	sample, err := p.Sample(texts, "IND", "SAC")
	if err != nil {
		t.Fatalf("Sample(%v) unexpected error: %v", texts, err)
	}
	if sample.HomePrice != 0.62 || sample.AwayPrice != 0.39 {
		t.Errorf("Sample = home %.2f away %.2f, want 0.62/0.39",
			sample.HomePrice, sample.AwayPrice)
	}
}

func TestSampleRejections(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name  string
		texts []string
	}{
		{"too few", []string{"IND62¢"}},
		{"too many", []string{"IND62¢", "SAC39¢", "BOS50¢"}},
		{"unexpected token", []string{"IND62¢", "BOS39¢"}},
		{"duplicate token", []string{"IND62¢", "IND39¢"}},
		{"out of range", []string{"IND162¢", "SAC39¢"}},
		{"empty", nil},
	}

	for _, tt := range tests {
		if _, err := p.Sample(tt.texts, "IND", "SAC"); !errors.Is(err, ErrParse) {
			t.Errorf("%s: Sample(%v) = %v, want ErrParse", tt.name, tt.texts, err)
		}
	}
}
