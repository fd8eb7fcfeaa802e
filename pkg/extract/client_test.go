package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencommittee/scribe/pkg/catalog"
	scerrors "github.com/opencommittee/scribe/pkg/errors"
	"github.com/opencommittee/scribe/pkg/logging"
)

// fakeProvider returns canned content keyed by a substring of the prompt.
type fakeProvider struct {
	content string
	err     error
	prompts []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &CompletionResponse{Content: f.content, FinishReason: "stop"}, nil
}

func testCatalog() *catalog.Catalog {
	return catalog.NewFromRecords(
		[]catalog.Member{{ID: 1, Name: "Alice", Role: "chair", Subcommittee: "events"}},
		[]catalog.Project{{ID: 10, Name: "Annual Gala", Description: "yearly fundraiser"}},
		[]catalog.Topic{{ID: 100, Name: "Venue Booking"}},
	)
}

func newTestClient(p Provider) *Client {
	return NewClient(p, testCatalog(), logging.NewNopLogger(), nil)
}

func TestMembersProjectsParsesFencedJSON(t *testing.T) {
	p := &fakeProvider{content: "```json\n{\"member_names\": [\"Alice\"], \"project_names\": [\"Annual Gala\"]}\n```"}
	c := newTestClient(p)

	got, err := c.MembersProjects(context.Background(), "transcript text", catalog.MeetingExecutive)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, got.MemberNames)
	assert.Equal(t, []string{"Annual Gala"}, got.ProjectNames)

	// The prompt embeds the catalog context and the transcript.
	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], "Alice (chair, events)")
	assert.Contains(t, p.prompts[0], "Annual Gala: yearly fundraiser")
	assert.Contains(t, p.prompts[0], "transcript text")
	assert.Contains(t, p.prompts[0], "Executive meeting")
}

func TestTopicsParsesEnvelope(t *testing.T) {
	p := &fakeProvider{content: `{"topics": [{"topic_name": "Venue Booking", "topic_summary": "confirmed the hall", "is_existing": true}]}`}
	c := newTestClient(p)

	got, err := c.Topics(context.Background(), "t", catalog.MeetingEvents)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Venue Booking", got[0].Name)
	assert.Equal(t, "confirmed the hall", got[0].Summary)
	assert.True(t, got[0].IsExisting)
}

func TestTasksTolerantDeadlines(t *testing.T) {
	p := &fakeProvider{content: `{"tasks": [
		{"task_name": "Book venue", "task_description": "d", "deadline": "2026-03-01", "assigned_to": ["Alice"]},
		{"task_name": "No deadline", "deadline": null, "assigned_to": []},
		{"task_name": "Vague deadline", "deadline": "next week", "assigned_to": []}
	]}`}
	c := newTestClient(p)

	got, err := c.Tasks(context.Background(), "t", catalog.MeetingFull)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.True(t, got[0].Deadline.Valid)
	assert.Equal(t, "2026-03-01", got[0].Deadline.Time.Format(DateLayout))

	assert.False(t, got[1].Deadline.Valid)
	assert.Empty(t, got[1].Deadline.Raw)

	assert.False(t, got[2].Deadline.Valid)
	assert.Equal(t, "next week", got[2].Deadline.Raw)
}

func TestProviderFailureIsDegraded(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	c := newTestClient(p)

	_, err := c.MembersProjects(context.Background(), "t", catalog.MeetingFull)
	assert.True(t, scerrors.IsExtractionDegraded(err))

	_, err = c.Topics(context.Background(), "t", catalog.MeetingFull)
	assert.True(t, scerrors.IsExtractionDegraded(err))

	_, err = c.Tasks(context.Background(), "t", catalog.MeetingFull)
	assert.True(t, scerrors.IsExtractionDegraded(err))

	_, err = c.Summary(context.Background(), "t", catalog.MeetingFull)
	assert.True(t, scerrors.IsExtractionDegraded(err))
}

func TestUnparseableOutputIsDegraded(t *testing.T) {
	p := &fakeProvider{content: "I could not find any members in this transcript."}
	c := newTestClient(p)

	_, err := c.MembersProjects(context.Background(), "t", catalog.MeetingFull)
	assert.True(t, scerrors.IsExtractionDegraded(err))
}

func TestSummaryTrimsContent(t *testing.T) {
	p := &fakeProvider{content: "\n  The meeting covered venue booking.  \n"}
	c := newTestClient(p)

	got, err := c.Summary(context.Background(), "t", catalog.MeetingFull)
	require.NoError(t, err)
	assert.Equal(t, "The meeting covered venue booking.", got)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripFences(tt.in))
	}
}

func TestDateUnmarshal(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-01"`), &d))
	assert.True(t, d.Valid)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.False(t, d.Valid)

	require.NoError(t, json.Unmarshal([]byte(`"null"`), &d))
	assert.False(t, d.Valid)
	assert.Empty(t, d.Raw)

	require.NoError(t, json.Unmarshal([]byte(`"March 1st"`), &d))
	assert.False(t, d.Valid)
	assert.Equal(t, "March 1st", d.Raw)
}

func TestOpenAIProvider(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := chatResponse{
			Model: "test-model",
			Choices: []chatChoice{
				{Message: chatMessage{Role: "assistant", Content: "hello"}, FinishReason: "stop"},
			},
			Usage: chatUsage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{
		BaseURL: srv.URL,
		Model:   "test-model",
		APIKey:  "sk-test",
	})

	resp, err := p.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 12, resp.TokensUsed.Total)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.InDelta(t, 0.1, gotReq.Temperature, 1e-9)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "hi", gotReq.Messages[0].Content)
}

func TestOpenAIProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL, Model: "m"})
	_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}
