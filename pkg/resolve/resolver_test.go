package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencommittee/scribe/pkg/catalog"
	"github.com/opencommittee/scribe/pkg/logging"
)

func testCatalog() *catalog.Catalog {
	return catalog.NewFromRecords(
		[]catalog.Member{
			{ID: 1, Name: "Jordan Lee"},
			{ID: 2, Name: "Alice"},
		},
		[]catalog.Project{
			{ID: 10, Name: "Fundraiser"},
		},
		[]catalog.Topic{
			{ID: 100, Name: "Venue Booking"},
		},
	)
}

func newTestResolver(cat *catalog.Catalog) *Resolver {
	return New(cat, logging.NewNopLogger())
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"alice", "alice", 1.0},
		{"jordan l", "jordan lee", 0.8},
		{"jordan x", "jordan lee", 0.7},
		{"j", "jordan lee", 0.1},
		{"fundra", "fundraiser", 0.6},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, similarity(tt.a, tt.b), 1e-9, "%q vs %q", tt.a, tt.b)
	}
}

func TestMembersExactMatchIsCaseInsensitive(t *testing.T) {
	r := newTestResolver(testCatalog())

	got := r.Members([]string{"JORDAN LEE", "alice "})
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestMembersThresholdBoundary(t *testing.T) {
	r := newTestResolver(testCatalog())

	// Ratio 0.8 resolves, ratio exactly 0.7 resolves, ratio 0.1 does not.
	got := r.Members([]string{"Jordan L", "Jordan X", "J"})
	require.Len(t, got, 2)
	assert.Equal(t, "Jordan Lee", got[0].Name)
	assert.Equal(t, "Jordan Lee", got[1].Name)
}

func TestMembersDropUnresolved(t *testing.T) {
	r := newTestResolver(testCatalog())

	got := r.Members([]string{"Alice", "Zzyzx"})
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Name)
}

func TestProjectLooserThreshold(t *testing.T) {
	cat := catalog.NewFromRecords(
		[]catalog.Member{{ID: 1, Name: "Fundraiser"}},
		[]catalog.Project{{ID: 10, Name: "Fundraiser"}},
		nil,
	)
	r := newTestResolver(cat)

	// "Fundra" scores 0.6 against "Fundraiser": below the member cutoff but
	// exactly at the project cutoff.
	assert.Empty(t, r.Members([]string{"Fundra"}))

	got := r.Projects([]string{"Fundra"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
}

func TestTieBreakPrefersLexicographicallySmallest(t *testing.T) {
	cat := catalog.NewFromRecords(
		[]catalog.Member{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Anna"}},
		nil, nil,
	)
	r := newTestResolver(cat)

	// "Annx" scores 0.75 against both candidates.
	got := r.Members([]string{"Annx"})
	require.Len(t, got, 1)
	assert.Equal(t, "Ann", got[0].Name)
}

func TestTopicsResolveExisting(t *testing.T) {
	r := newTestResolver(testCatalog())

	got := r.Topics([]TopicCandidate{
		{Name: "venue booking", Summary: "ignored for existing topics"},
		{Name: "Venue Bookin", Summary: "fuzzy variant"},
	})
	require.Len(t, got, 2)
	for _, rt := range got {
		assert.Equal(t, int64(100), rt.ID)
		assert.Equal(t, "Venue Booking", rt.Name)
		assert.False(t, rt.New)
	}
	assert.Zero(t, r.NewTopicCount())
}

func TestTopicsStageNewDrafts(t *testing.T) {
	r := newTestResolver(testCatalog())

	got := r.Topics([]TopicCandidate{
		{Name: "Sponsor Outreach", Summary: "pending sponsor conversations"},
	})
	require.Len(t, got, 1)
	assert.True(t, got[0].New)
	assert.Zero(t, got[0].ID)
	assert.Equal(t, "Sponsor Outreach", got[0].Name)

	drafts := r.TopicDrafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "Sponsor Outreach", drafts[0].Name)
	assert.Equal(t, "pending sponsor conversations", drafts[0].Description)
}

func TestTopicsCollapseNearDuplicateDrafts(t *testing.T) {
	r := newTestResolver(testCatalog())

	got := r.Topics([]TopicCandidate{
		{Name: "Sponsor Outreach", Summary: "first"},
		{Name: "Sponsor Outreach", Summary: "exact repeat"},
		{Name: "Sponsor Outreach!", Summary: "near duplicate"},
	})
	require.Len(t, got, 3)
	for _, rt := range got {
		assert.True(t, rt.New)
		assert.Equal(t, "Sponsor Outreach", rt.Name)
	}
	assert.Equal(t, 1, r.NewTopicCount())
}

func TestTopicsIdempotentAcrossRuns(t *testing.T) {
	cat := testCatalog()

	r1 := newTestResolver(cat)
	first := r1.Topics([]TopicCandidate{{Name: "Sponsor Outreach", Summary: "s"}})
	require.Len(t, first, 1)
	require.True(t, first[0].New)

	// After persistence the new topic joins the cache.
	cat.AddTopic(catalog.Topic{ID: 101, Name: "Sponsor Outreach", Description: "s"})

	r2 := newTestResolver(cat)
	second := r2.Topics([]TopicCandidate{{Name: "Sponsor Outreach", Summary: "s"}})
	require.Len(t, second, 1)
	assert.False(t, second[0].New)
	assert.Equal(t, int64(101), second[0].ID)
	assert.Zero(t, r2.NewTopicCount())
}

func TestAssigneesSameDropPolicyAsMembers(t *testing.T) {
	r := newTestResolver(testCatalog())

	got := r.Assignees([]string{"Alice", "Nobody At All"})
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Name)

	assert.Empty(t, r.Assignees([]string{"Unknown Person"}))
}

func TestBlankNamesIgnored(t *testing.T) {
	r := newTestResolver(testCatalog())

	assert.Empty(t, r.Members([]string{"", "   "}))
	assert.Empty(t, r.Projects([]string{""}))
	assert.Empty(t, r.Topics([]TopicCandidate{{Name: "  "}}))
}
