package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencommittee/scribe/pkg/catalog"
	"github.com/opencommittee/scribe/pkg/db"
	scerrors "github.com/opencommittee/scribe/pkg/errors"
	"github.com/opencommittee/scribe/pkg/logging"
)

func TestDedupeIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, dedupeIDs([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, dedupeIDs(nil))
	assert.Equal(t, []int64{7}, dedupeIDs([]int64{7, 7, 7}))
}

// testRepository connects to the database named by SCRIBE_TEST_DATABASE_URL,
// skipping when unset. The schema must already exist.
func testRepository(t *testing.T) *Repository {
	t.Helper()
	url := os.Getenv("SCRIBE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SCRIBE_TEST_DATABASE_URL not set")
	}
	pool, err := db.Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewRepository(pool, logging.NewNopLogger())
}

func TestInsertMeetingRoundTrip(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	deadline := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var memberID int64
	require.NoError(t, repo.pool.QueryRow(ctx,
		`INSERT INTO committee (member_name) VALUES ('Integration Member') RETURNING member_id`).Scan(&memberID))

	plan := MeetingPlan{
		Name:      "integration meeting",
		Type:      catalog.MeetingFull,
		Summary:   "summary text",
		MemberIDs: []int64{memberID, memberID},
		NewTopics: []TopicInsert{{Name: "Integration Topic", Description: "d"}},
		Tasks: []TaskInsert{
			{Name: "with assignee", Deadline: &deadline, AssigneeIDs: []int64{memberID}},
			{Name: "without assignee"},
		},
	}

	result, err := repo.InsertMeeting(ctx, plan)
	require.NoError(t, err)
	assert.NotZero(t, result.MeetingID)
	require.Len(t, result.NewTopicIDs, 1)
	require.Len(t, result.TaskIDs, 2)

	var memberRows int
	require.NoError(t, repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM meeting_members WHERE meeting_id = $1`, result.MeetingID).Scan(&memberRows))
	assert.Equal(t, 1, memberRows, "duplicate member ids collapse to one junction row")

	var topicRows int
	require.NoError(t, repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM meeting_topics WHERE meeting_id = $1`, result.MeetingID).Scan(&topicRows))
	assert.Equal(t, 1, topicRows)

	var assigneeRows int
	require.NoError(t, repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM task_members WHERE task_id = $1`, result.TaskIDs[1]).Scan(&assigneeRows))
	assert.Zero(t, assigneeRows, "task without assignees still exists with no assignee rows")
}

func TestInsertMeetingRollsBackOnFailure(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	plan := MeetingPlan{
		Name:    "doomed meeting",
		Type:    catalog.MeetingFull,
		Summary: "s",
		// A member id that cannot exist violates the foreign key after the
		// meeting row insert.
		MemberIDs: []int64{-1},
	}

	_, err := repo.InsertMeeting(ctx, plan)
	require.Error(t, err)
	assert.True(t, scerrors.IsPersistence(err))

	var count int
	require.NoError(t, repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM meeting WHERE meeting_name = 'doomed meeting'`).Scan(&count))
	assert.Zero(t, count, "failed transaction leaves no meeting row behind")
}
