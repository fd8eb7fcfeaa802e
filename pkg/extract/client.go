package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/opencommittee/scribe/pkg/catalog"
	scerrors "github.com/opencommittee/scribe/pkg/errors"
	"github.com/opencommittee/scribe/pkg/logging"
	"github.com/opencommittee/scribe/pkg/observability"
)

// Client runs the four extraction operations against a completion provider.
// Every failure is wrapped as extraction degradation so the caller can
// substitute an empty result and continue the run.
type Client struct {
	provider Provider
	catalog  *catalog.Catalog
	log      logging.Logger
	metrics  *observability.Metrics
}

// NewClient creates an extraction client over the given provider and
// catalog. metrics may be nil.
func NewClient(provider Provider, cat *catalog.Catalog, log logging.Logger, metrics *observability.Metrics) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		provider: provider,
		catalog:  cat,
		log:      log,
		metrics:  metrics,
	}
}

// MembersProjects extracts participating member names and discussed project
// names from the transcript.
func (c *Client) MembersProjects(ctx context.Context, transcript string, mt catalog.MeetingType) (MembersProjects, error) {
	var result MembersProjects
	prompt := membersProjectsPrompt(c.catalog, transcript, mt)
	if err := c.completeJSON(ctx, "members_projects", prompt, &result); err != nil {
		return MembersProjects{}, err
	}
	return result, nil
}

// Topics extracts the key discussion topics from the transcript.
func (c *Client) Topics(ctx context.Context, transcript string, mt catalog.MeetingType) ([]TopicCandidate, error) {
	var envelope struct {
		Topics []TopicCandidate `json:"topics"`
	}
	prompt := topicsPrompt(c.catalog, transcript, mt)
	if err := c.completeJSON(ctx, "topics", prompt, &envelope); err != nil {
		return nil, err
	}
	return envelope.Topics, nil
}

// Tasks extracts explicitly assigned action items from the transcript.
// Ideas and unassigned action points are excluded by the prompt contract.
func (c *Client) Tasks(ctx context.Context, transcript string, mt catalog.MeetingType) ([]TaskCandidate, error) {
	var envelope struct {
		Tasks []TaskCandidate `json:"tasks"`
	}
	prompt := tasksPrompt(c.catalog, transcript, mt)
	if err := c.completeJSON(ctx, "tasks", prompt, &envelope); err != nil {
		return nil, err
	}
	return envelope.Tasks, nil
}

// Summary generates a narrative meeting summary from the transcript.
func (c *Client) Summary(ctx context.Context, transcript string, mt catalog.MeetingType) (string, error) {
	prompt := summaryPrompt(c.catalog, transcript, mt)
	resp, err := c.provider.Complete(ctx, CompletionRequest{Prompt: prompt})
	if err != nil {
		return "", scerrors.Degraded("generating summary", err)
	}
	c.logCompletion("summary", resp)
	return strings.TrimSpace(resp.Content), nil
}

// completeJSON runs one completion call and decodes its content into target
// after stripping code-fence wrappers.
func (c *Client) completeJSON(ctx context.Context, category, prompt string, target any) error {
	resp, err := c.provider.Complete(ctx, CompletionRequest{Prompt: prompt})
	if err != nil {
		return scerrors.Degraded("extracting "+category, err)
	}
	c.logCompletion(category, resp)

	content := stripFences(resp.Content)
	if err := json.Unmarshal([]byte(content), target); err != nil {
		c.log.Warn("unparseable extraction output",
			logging.F("category", category),
			logging.Err(err))
		return scerrors.Degraded("parsing "+category+" output", err)
	}
	return nil
}

func (c *Client) logCompletion(category string, resp *CompletionResponse) {
	if c.metrics != nil {
		c.metrics.ExtractionTokens.WithLabelValues(category).Add(float64(resp.TokensUsed.Total))
	}
	c.log.Debug("completion received",
		logging.F("category", category),
		logging.F("provider", c.provider.Name()),
		logging.F("latency_ms", resp.LatencyMs),
		logging.F("tokens", resp.TokensUsed.Total),
		logging.F("finish_reason", resp.FinishReason))
}

// stripFences removes markdown code-fence wrappers that completion models
// sometimes put around JSON output.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
