package extract

import (
	"fmt"
	"strings"

	"github.com/opencommittee/scribe/pkg/catalog"
)

// descriptionLimit caps project descriptions embedded in prompts so a
// verbose catalog does not crowd out the transcript.
const descriptionLimit = 100

func membersContext(cat *catalog.Catalog, withDetail bool) string {
	members := cat.Members()
	if len(members) == 0 {
		return "No committee members on record"
	}
	var b strings.Builder
	for i, m := range members {
		if i > 0 {
			b.WriteByte('\n')
		}
		if withDetail {
			role := m.Role
			if role == "" {
				role = "Member"
			}
			sub := m.Subcommittee
			if sub == "" {
				sub = "N/A"
			}
			fmt.Fprintf(&b, "- %s (%s, %s)", m.Name, role, sub)
		} else {
			fmt.Fprintf(&b, "- %s", m.Name)
		}
	}
	return b.String()
}

func projectsContext(cat *catalog.Catalog) string {
	projects := cat.Projects()
	if len(projects) == 0 {
		return "No projects on record"
	}
	var b strings.Builder
	for i, p := range projects {
		if i > 0 {
			b.WriteByte('\n')
		}
		desc := p.Description
		if desc == "" {
			desc = "No description"
		}
		if len(desc) > descriptionLimit {
			desc = desc[:descriptionLimit]
		}
		fmt.Fprintf(&b, "- %s: %s", p.Name, desc)
	}
	return b.String()
}

func topicsContext(cat *catalog.Catalog) string {
	topics := cat.Topics()
	if len(topics) == 0 {
		return "No existing topics"
	}
	var b strings.Builder
	for i, tp := range topics {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s", tp.Name)
	}
	return b.String()
}

func membersProjectsPrompt(cat *catalog.Catalog, transcript string, mt catalog.MeetingType) string {
	return fmt.Sprintf(`You are an expert at analyzing meeting transcripts and extracting structured information.

Available committee members:
%s

Available projects and their descriptions:
%s

This is a %s meeting. Analyze the transcript and extract:
1. List of committee members who participated (match names to the available list above)
2. List of projects that were discussed or are relevant to this meeting

Guidelines:
- For member names, match as closely as possible to the available list
- For projects, identify any projects mentioned directly or by context
- Be inclusive - if someone seems to have participated, include them

Transcript:
%s

Return your response in this exact JSON format:
{
    "member_names": ["Name1", "Name2"],
    "project_names": ["Project1", "Project2"]
}`, membersContext(cat, true), projectsContext(cat), mt.Label(), transcript)
}

func topicsPrompt(cat *catalog.Catalog, transcript string, mt catalog.MeetingType) string {
	return fmt.Sprintf(`You are an expert at analyzing meeting transcripts and extracting key discussion topics.

Existing topics in our system:
%s

This is a %s meeting. Analyze the transcript and identify the key topics discussed.

For each topic:
1. If it matches or is very similar to an existing topic, use the EXACT name from the existing list
2. If it's a completely new topic, suggest a clear, concise name
3. Provide a brief summary of how this topic was discussed

Guidelines:
- Focus on substantial topics with meaningful discussion
- Group related discussions under broader topics
- Aim for 3-8 main topics per meeting
- Don't be overly granular

Transcript:
%s

Return your response in this exact JSON format:
{
    "topics": [
        {
            "topic_name": "Topic Name",
            "topic_summary": "Brief summary of the discussion",
            "is_existing": true
        }
    ]
}`, topicsContext(cat), mt.Label(), transcript)
}

func tasksPrompt(cat *catalog.Catalog, transcript string, mt catalog.MeetingType) string {
	return fmt.Sprintf(`You are an expert at analyzing meeting transcripts and extracting task assignments.

Available committee members:
%s

This is a %s meeting. Analyze the transcript and extract ONLY EXPLICITLY ASSIGNED TASKS.

A task is explicitly assigned when:
- Someone says "X will do Y" or "X is assigned to Y"
- Someone says "X, can you handle Y?" and X agrees
- Someone says "X, you're responsible for Y"
- A clear action item is assigned to a specific person

DO NOT include:
- General discussion points
- Ideas or suggestions without clear assignment
- Vague mentions of things that need to be done without assignees

For each task, extract:
1. task_name: A clear, concise name for the task
2. task_description: More detail about what needs to be done
3. deadline: If a deadline is mentioned (date in YYYY-MM-DD format), otherwise null
4. assigned_to: List of member names assigned (match to available list above)

Transcript:
%s

Return your response in this exact JSON format:
{
    "tasks": [
        {
            "task_name": "Task Name",
            "task_description": "Description of what needs to be done",
            "deadline": "YYYY-MM-DD or null",
            "assigned_to": ["Member Name 1", "Member Name 2"]
        }
    ]
}`, membersContext(cat, false), mt.Label(), transcript)
}

func summaryPrompt(cat *catalog.Catalog, transcript string, mt catalog.MeetingType) string {
	return fmt.Sprintf(`You are an expert meeting summarizer.

Available projects:
%s

Available committee members:
%s

This is a %s meeting. Create a comprehensive summary that:
1. Identifies the main topics discussed
2. Lists key decisions made
3. Mentions action items and next steps
4. Relates discussions to relevant projects when possible
5. Notes important deadlines or milestones mentioned

Transcript:
%s

Write a clear, structured summary (2-4 paragraphs) that captures the essential information:`,
		projectsContext(cat), membersContext(cat, true), mt.Label(), transcript)
}
