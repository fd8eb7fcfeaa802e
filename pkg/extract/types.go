package extract

import (
	"bytes"
	"encoding/json"
	"time"
)

// MembersProjects is the result of the members-and-projects extraction.
type MembersProjects struct {
	MemberNames  []string `json:"member_names"`
	ProjectNames []string `json:"project_names"`
}

// TopicCandidate is one extracted discussion topic.
type TopicCandidate struct {
	Name       string `json:"topic_name"`
	Summary    string `json:"topic_summary"`
	IsExisting bool   `json:"is_existing"`
}

// TaskCandidate is one extracted explicitly assigned task.
type TaskCandidate struct {
	Name        string   `json:"task_name"`
	Description string   `json:"task_description"`
	Deadline    Date     `json:"deadline"`
	AssignedTo  []string `json:"assigned_to"`
}

// DateLayout is the deadline format requested from the completion service.
const DateLayout = "2006-01-02"

// Date is a calendar date tolerant of the shapes completion output takes:
// a "YYYY-MM-DD" string, null, an empty string, or the literal string
// "null". A token that is none of these is kept in Raw instead of failing
// the whole extraction.
type Date struct {
	Time  time.Time
	Valid bool
	Raw   string
}

// UnmarshalJSON implements tolerant date decoding.
func (d *Date) UnmarshalJSON(data []byte) error {
	*d = Date{}

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		d.Raw = string(data)
		return nil
	}
	if s == "" || s == "null" {
		return nil
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		d.Raw = s
		return nil
	}
	d.Time = t
	d.Valid = true
	return nil
}

// MarshalJSON renders the date back to "YYYY-MM-DD" or null.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(DateLayout))
}
