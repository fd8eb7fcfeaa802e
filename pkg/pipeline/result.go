package pipeline

import "github.com/opencommittee/scribe/pkg/catalog"

// ProcessingResult summarizes one successful transcript processing run.
type ProcessingResult struct {
	RunID       string
	MeetingID   int64
	MeetingName string
	MeetingType catalog.MeetingType

	SummaryLength int

	MembersIdentified int
	MemberNames       []string

	ProjectsLinked int
	ProjectNames   []string

	TopicsLinked     int
	NewTopicsCreated int
	TopicNames       []string

	TasksCreated int
	TaskNames    []string
}
