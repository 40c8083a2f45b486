package domain

import "strings"

// Direction is the debit/credit flag of a movement row.
type Direction int

const (
	DirectionUnknown Direction = iota
	Inbound                    // "S" (Debe)
	Outbound                   // "H" (Haber)
)

var directionLabels = map[Direction]string{
	Inbound:  "S",
	Outbound: "H",
}

var directionCodes = map[string]Direction{
	"s": Inbound,
	"h": Outbound,
}

// String returns the ERP flag for the direction.
func (d Direction) String() string {
	if label, ok := directionLabels[d]; ok {
		return label
	}

	return ""
}

// ParseDirection returns the direction for an ERP flag (case-insensitive).
func ParseDirection(flag string) Direction {
	return directionCodes[strings.ToLower(strings.TrimSpace(flag))]
}

// Tier is the ABC movement bucket of a material.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Tiers lists tiers in summary order.
var Tiers = []Tier{TierA, TierB, TierC}
