package enums

import "fmt"

// InstallationTime is one of the fixed scheduling slots offered by the shop.
type InstallationTime string

const (
	InstallationTime6To10  InstallationTime = "6-10"
	InstallationTime8To12  InstallationTime = "8-12"
	InstallationTime10To2  InstallationTime = "10-2"
	InstallationTime2To4   InstallationTime = "2-4"
	InstallationTimeAllDay InstallationTime = "all day"
)

var validInstallationTimes = []InstallationTime{
	InstallationTime6To10,
	InstallationTime8To12,
	InstallationTime10To2,
	InstallationTime2To4,
	InstallationTimeAllDay,
}

// InstallationTimes returns the full slot set in display order.
func InstallationTimes() []InstallationTime {
	return append([]InstallationTime(nil), validInstallationTimes...)
}

// String implements fmt.Stringer.
func (i InstallationTime) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InstallationTime.
func (i InstallationTime) IsValid() bool {
	for _, candidate := range validInstallationTimes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInstallationTime converts raw input into an InstallationTime.
func ParseInstallationTime(value string) (InstallationTime, error) {
	for _, candidate := range validInstallationTimes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid installation time slot %q", value)
}
