package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MeetingType is the fixed classification of a meeting.
type MeetingType string

// The full set of recognized meeting types.
const (
	MeetingExecutive       MeetingType = "executive"
	MeetingProjects        MeetingType = "projects_subcommittee"
	MeetingEvents          MeetingType = "events_subcommittee"
	MeetingSponsorships    MeetingType = "sponsorships_subcommittee"
	MeetingMarketing       MeetingType = "marketing_subcommittee"
	MeetingContentCreation MeetingType = "content-creation_subcommittee"
	MeetingHR              MeetingType = "hr_subcommittee"
	MeetingFull            MeetingType = "full"
	MeetingUnscheduled     MeetingType = "unscheduled"
)

// MeetingTypes returns all valid meeting types in declaration order.
func MeetingTypes() []MeetingType {
	return []MeetingType{
		MeetingExecutive,
		MeetingProjects,
		MeetingEvents,
		MeetingSponsorships,
		MeetingMarketing,
		MeetingContentCreation,
		MeetingHR,
		MeetingFull,
		MeetingUnscheduled,
	}
}

// ValidMeetingType reports whether s names a recognized meeting type.
func ValidMeetingType(s string) bool {
	for _, mt := range MeetingTypes() {
		if string(mt) == s {
			return true
		}
	}
	return false
}

var titleCaser = cases.Title(language.English)

// Label returns a human-readable form of the meeting type for display,
// e.g. "sponsorships_subcommittee" becomes "Sponsorships Subcommittee".
func (mt MeetingType) Label() string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(string(mt))
	if mt == MeetingHR {
		return "HR Subcommittee"
	}
	return titleCaser.String(s)
}

func (mt MeetingType) String() string {
	return string(mt)
}
