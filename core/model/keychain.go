package model

import (
	"fmt"
	"strings"
)

// Vintage distinguishes new-construction from existing-building stock.
type Vintage string

const (
	VintageNew      Vintage = "new"
	VintageExisting Vintage = "existing"
)

// SegmentKind is the leading element of a key chain.
type SegmentKind string

const (
	SegmentPrimary   SegmentKind = "primary"
	SegmentSecondary SegmentKind = "secondary"
)

// KeyChain identifies a market microsegment. It is a lookup key only.
type KeyChain struct {
	Kind       SegmentKind
	Region     string
	Building   string
	Fuel       string
	EndUse     string
	Side       string // supply or demand; empty when the end use has no split
	Technology string
	Vintage    Vintage
}

// ParseKeyChain builds a KeyChain from its ordered elements. Seven elements
// omit the supply/demand split, eight include it.
func ParseKeyChain(parts []string) (KeyChain, error) {
	var k KeyChain
	switch len(parts) {
	case 7:
		k = KeyChain{Kind: SegmentKind(parts[0]), Region: parts[1], Building: parts[2], Fuel: parts[3],
			EndUse: parts[4], Technology: parts[5], Vintage: Vintage(parts[6])}
	case 8:
		k = KeyChain{Kind: SegmentKind(parts[0]), Region: parts[1], Building: parts[2], Fuel: parts[3],
			EndUse: parts[4], Side: parts[5], Technology: parts[6], Vintage: Vintage(parts[7])}
	default:
		return KeyChain{}, fmt.Errorf("key chain needs 7 or 8 elements, got %d", len(parts))
	}
	if k.Kind != SegmentPrimary && k.Kind != SegmentSecondary {
		return KeyChain{}, fmt.Errorf("unknown segment kind %q", k.Kind)
	}
	if k.Vintage != VintageNew && k.Vintage != VintageExisting {
		return KeyChain{}, fmt.Errorf("unknown vintage %q", k.Vintage)
	}
	return k, nil
}

// Parts returns the ordered elements.
func (k KeyChain) Parts() []string {
	parts := []string{string(k.Kind), k.Region, k.Building, k.Fuel, k.EndUse}
	if k.Side != "" {
		parts = append(parts, k.Side)
	}
	return append(parts, k.Technology, string(k.Vintage))
}

func (k KeyChain) String() string { return strings.Join(k.Parts(), "|") }
