package enums

import "fmt"

// ReplacementType distinguishes insurance-funded from out-of-pocket jobs.
type ReplacementType string

const (
	ReplacementTypeInsurance   ReplacementType = "insurance"
	ReplacementTypeOutOfPocket ReplacementType = "out_of_pocket"
)

var validReplacementTypes = []ReplacementType{
	ReplacementTypeInsurance,
	ReplacementTypeOutOfPocket,
}

// String implements fmt.Stringer.
func (r ReplacementType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReplacementType.
func (r ReplacementType) IsValid() bool {
	for _, candidate := range validReplacementTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReplacementType converts raw input into a ReplacementType.
func ParseReplacementType(value string) (ReplacementType, error) {
	for _, candidate := range validReplacementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid replacement type %q", value)
}
