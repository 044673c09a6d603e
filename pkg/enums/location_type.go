package enums

import "fmt"

// LocationType says where the glass gets installed. Anything other than home
// requires an alternate installation address on the appointment.
type LocationType string

const (
	LocationTypeHome  LocationType = "home"
	LocationTypeWork  LocationType = "work"
	LocationTypeOther LocationType = "other"
)

var validLocationTypes = []LocationType{
	LocationTypeHome,
	LocationTypeWork,
	LocationTypeOther,
}

// String implements fmt.Stringer.
func (l LocationType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LocationType.
func (l LocationType) IsValid() bool {
	for _, candidate := range validLocationTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocationType converts raw input into a LocationType.
func ParseLocationType(value string) (LocationType, error) {
	for _, candidate := range validLocationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location type %q", value)
}
