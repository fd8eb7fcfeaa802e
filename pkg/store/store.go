// Package store persists a processed meeting and all of its relationships
// in a single transaction. Either every row for a transcript lands or none
// do; a partial meeting is never observable to readers.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencommittee/scribe/pkg/catalog"
	scerrors "github.com/opencommittee/scribe/pkg/errors"
	"github.com/opencommittee/scribe/pkg/logging"
)

// TopicInsert is a new topic to create inside the meeting transaction.
type TopicInsert struct {
	Name        string
	Description string
}

// TaskInsert is a task to create for the meeting. Deadline is nil when no
// parseable deadline was extracted. AssigneeIDs may be empty; the task is
// created and linked to the meeting regardless.
type TaskInsert struct {
	Name        string
	Description string
	Deadline    *time.Time
	AssigneeIDs []int64
}

// MeetingPlan is everything to persist for one processing run.
type MeetingPlan struct {
	Name      string
	Type      catalog.MeetingType
	Summary   string
	CreatedAt time.Time

	MemberIDs  []int64
	ProjectIDs []int64
	// TopicIDs are existing topics to link. NewTopics are created in the
	// same transaction and linked alongside them.
	TopicIDs  []int64
	NewTopics []TopicInsert

	Tasks []TaskInsert
}

// InsertResult reports the ids generated by a meeting insert. NewTopicIDs
// parallels MeetingPlan.NewTopics and TaskIDs parallels MeetingPlan.Tasks.
type InsertResult struct {
	MeetingID   int64
	NewTopicIDs []int64
	TaskIDs     []int64
}

// Repository writes meetings to the relational store.
type Repository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewRepository creates a meeting repository over a connection pool.
func NewRepository(pool *pgxpool.Pool, log logging.Logger) *Repository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Repository{pool: pool, log: log}
}

// InsertMeeting writes the meeting, its new topics, its tasks, and every
// junction row in one transaction. Junction identifier sets are
// de-duplicated so an entity referenced twice contributes one row.
func (r *Repository) InsertMeeting(ctx context.Context, plan MeetingPlan) (*InsertResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, scerrors.Persistence("beginning transaction", err)
	}
	defer tx.Rollback(ctx)

	result, err := r.insertAll(ctx, tx, plan)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, scerrors.Persistence("committing meeting transaction", err)
	}

	r.log.Info("meeting persisted",
		logging.F("meeting_id", result.MeetingID),
		logging.F("members", len(dedupeIDs(plan.MemberIDs))),
		logging.F("projects", len(dedupeIDs(plan.ProjectIDs))),
		logging.F("topics", len(dedupeIDs(plan.TopicIDs))+len(result.NewTopicIDs)),
		logging.F("new_topics", len(result.NewTopicIDs)),
		logging.F("tasks", len(result.TaskIDs)))
	return result, nil
}

func (r *Repository) insertAll(ctx context.Context, tx pgx.Tx, plan MeetingPlan) (*InsertResult, error) {
	result := &InsertResult{}

	for _, nt := range plan.NewTopics {
		var id int64
		err := tx.QueryRow(ctx,
			`INSERT INTO topic (topic_name, topic_description) VALUES ($1, $2) RETURNING topic_id`,
			nt.Name, nt.Description).Scan(&id)
		if err != nil {
			return nil, scerrors.Persistence("inserting topic "+nt.Name, err)
		}
		result.NewTopicIDs = append(result.NewTopicIDs, id)
	}

	createdAt := plan.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	err := tx.QueryRow(ctx,
		`INSERT INTO meeting (meeting_name, meeting_type, meeting_summary, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING meeting_id`,
		plan.Name, string(plan.Type), plan.Summary, createdAt).Scan(&result.MeetingID)
	if err != nil {
		return nil, scerrors.Persistence("inserting meeting", err)
	}

	for _, memberID := range dedupeIDs(plan.MemberIDs) {
		if _, err := tx.Exec(ctx,
			`INSERT INTO meeting_members (meeting_id, member_id) VALUES ($1, $2)`,
			result.MeetingID, memberID); err != nil {
			return nil, scerrors.Persistence("linking meeting member", err)
		}
	}
	for _, projectID := range dedupeIDs(plan.ProjectIDs) {
		if _, err := tx.Exec(ctx,
			`INSERT INTO meeting_projects (meeting_id, project_id) VALUES ($1, $2)`,
			result.MeetingID, projectID); err != nil {
			return nil, scerrors.Persistence("linking meeting project", err)
		}
	}
	topicIDs := dedupeIDs(append(append([]int64{}, plan.TopicIDs...), result.NewTopicIDs...))
	for _, topicID := range topicIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO meeting_topics (meeting_id, topic_id) VALUES ($1, $2)`,
			result.MeetingID, topicID); err != nil {
			return nil, scerrors.Persistence("linking meeting topic", err)
		}
	}

	for _, task := range plan.Tasks {
		var taskID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO tasks (task_name, task_description, task_deadline)
			 VALUES ($1, $2, $3) RETURNING task_id`,
			task.Name, task.Description, task.Deadline).Scan(&taskID)
		if err != nil {
			return nil, scerrors.Persistence("inserting task "+task.Name, err)
		}
		result.TaskIDs = append(result.TaskIDs, taskID)

		if _, err := tx.Exec(ctx,
			`INSERT INTO meeting_tasks (meeting_id, task_id) VALUES ($1, $2)`,
			result.MeetingID, taskID); err != nil {
			return nil, scerrors.Persistence("linking meeting task", err)
		}
		for _, assigneeID := range dedupeIDs(task.AssigneeIDs) {
			if _, err := tx.Exec(ctx,
				`INSERT INTO task_members (task_id, member_id) VALUES ($1, $2)`,
				taskID, assigneeID); err != nil {
				return nil, scerrors.Persistence("linking task assignee", err)
			}
		}
	}

	return result, nil
}

// dedupeIDs collapses duplicate ids while preserving first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
