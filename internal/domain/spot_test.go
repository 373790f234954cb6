package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpot_MatchesSource(t *testing.T) {
	tests := []struct {
		name     string
		spotName string
		source   string
		want     bool
	}{
		{"spot name contains source", "eBay France", "eBay", true},
		{"source contains spot name", "Gamemania", "Gamemania - Part Dieu", true},
		{"case insensitive", "EBAY FRANCE", "ebay", true},
		{"no overlap", "Gamemania", "Amazon", false},
		{"empty source never matches", "Gamemania", "", false},
		{"empty spot name never matches", "", "Amazon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spot := Spot{Name: tt.spotName, Kind: SpotKindOnline}
			assert.Equal(t, tt.want, spot.MatchesSource(tt.source))
		})
	}
}

func TestSpot_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spot    Spot
		wantErr bool
	}{
		{"valid online spot", Spot{Name: "eBay France", Kind: SpotKindOnline, Rating: 5}, false},
		{"valid physical spot", Spot{Name: "Gamemania Part Dieu", Kind: SpotKindPhysical}, false},
		{"empty name fails", Spot{Kind: SpotKindOnline}, true},
		{"unknown kind fails", Spot{Name: "X", Kind: "MAIL_ORDER"}, true},
		{"rating above 5 fails", Spot{Name: "X", Kind: SpotKindOnline, Rating: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spot.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
