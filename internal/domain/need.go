package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// NeedKind tags the variant held by a Need.
type NeedKind uint8

const (
	NeedQuantity      NeedKind = iota // numeric replenishment quantity
	NeedNotApplicable                 // no maximum stock configured
	NeedNotRequired                   // stock ratio above the replenishment threshold
)

const (
	notApplicableLabel = "NA"
	notRequiredLabel   = "No Comp"
)

// Need is the need-to-purchase value of a material: either a quantity or a
// named non-numeric category.
type Need struct {
	Kind     NeedKind
	Quantity float64
}

// NeedOf returns a numeric need.
func NeedOf(qty float64) Need {
	return Need{Kind: NeedQuantity, Quantity: qty}
}

// NotApplicable returns the "NA" need.
func NotApplicable() Need {
	return Need{Kind: NeedNotApplicable}
}

// NotRequired returns the "No Comp" need.
func NotRequired() Need {
	return Need{Kind: NeedNotRequired}
}

// IsQuantity reports whether the need carries a number.
func (n Need) IsQuantity() bool {
	return n.Kind == NeedQuantity
}

// Effective returns the quantity to purchase, clamping negative needs to zero.
func (n Need) Effective() float64 {
	if n.Kind != NeedQuantity || n.Quantity < 0 {
		return 0
	}
	return n.Quantity
}

func (n Need) String() string {
	switch n.Kind {
	case NeedNotApplicable:
		return notApplicableLabel
	case NeedNotRequired:
		return notRequiredLabel
	default:
		return strconv.FormatFloat(n.Quantity, 'f', -1, 64)
	}
}

// MarshalJSON encodes a quantity as a number and a category as its label.
func (n Need) MarshalJSON() ([]byte, error) {
	if n.Kind == NeedQuantity {
		return json.Marshal(n.Quantity)
	}
	return json.Marshal(n.String())
}

// UnmarshalJSON accepts a number or one of the category labels.
func (n *Need) UnmarshalJSON(data []byte) error {
	var qty float64
	if err := json.Unmarshal(data, &qty); err == nil {
		*n = NeedOf(qty)
		return nil
	}

	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("decode need: %w", err)
	}
	switch label {
	case notApplicableLabel:
		*n = NotApplicable()
	case notRequiredLabel:
		*n = NotRequired()
	default:
		return fmt.Errorf("decode need: unknown label %q", label)
	}
	return nil
}
