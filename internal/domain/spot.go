package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// SpotKind represents the kind of purchase location
type SpotKind string

const (
	SpotKindPhysical SpotKind = "PHYSICAL"
	SpotKindOnline   SpotKind = "ONLINE"
)

// Spot represents a purchase location (a shop or marketplace) the user
// tracks and rates.
type Spot struct {
	ID     uuid.UUID
	Name   string
	Kind   SpotKind
	Rating int // 0 (unrated) to 5
	Note   string
}

// Validate ensures the spot adheres to domain rules
func (s *Spot) Validate() error {
	if s.Name == "" {
		return errors.New("spot name cannot be empty")
	}
	if s.Kind != SpotKindPhysical && s.Kind != SpotKindOnline {
		return errors.New("spot kind must be PHYSICAL or ONLINE")
	}
	if s.Rating < 0 || s.Rating > 5 {
		return errors.New("spot rating must be between 0 and 5")
	}
	return nil
}

// MatchesSource reports whether a lot's free-text source refers to this
// spot. The match is a case-insensitive mutual containment check:
// "eBay France" matches source "eBay", "Gamemania - Part Dieu" matches
// "Gamemania".
func (s *Spot) MatchesSource(source string) bool {
	if s.Name == "" || source == "" {
		return false
	}
	a := strings.ToLower(s.Name)
	b := strings.ToLower(source)
	return strings.Contains(a, b) || strings.Contains(b, a)
}
