// Package pipeline orchestrates a transcript processing run: read the
// source, extract candidates with the completion service, resolve them
// against the catalog, and persist the meeting atomically.
package pipeline

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/opencommittee/scribe/pkg/catalog"
	scerrors "github.com/opencommittee/scribe/pkg/errors"
	"github.com/opencommittee/scribe/pkg/events"
	"github.com/opencommittee/scribe/pkg/extract"
	"github.com/opencommittee/scribe/pkg/logging"
	"github.com/opencommittee/scribe/pkg/observability"
	"github.com/opencommittee/scribe/pkg/resolve"
	"github.com/opencommittee/scribe/pkg/store"
)

// DefaultRunTimeout bounds an entire processing run.
const DefaultRunTimeout = 5 * time.Minute

// Extractor is the extraction client consumed by the engine. Every failure
// it returns is expected to be extraction degradation.
type Extractor interface {
	MembersProjects(ctx context.Context, transcript string, mt catalog.MeetingType) (extract.MembersProjects, error)
	Topics(ctx context.Context, transcript string, mt catalog.MeetingType) ([]extract.TopicCandidate, error)
	Tasks(ctx context.Context, transcript string, mt catalog.MeetingType) ([]extract.TaskCandidate, error)
	Summary(ctx context.Context, transcript string, mt catalog.MeetingType) (string, error)
}

// MeetingStore is the persistence coordinator consumed by the engine.
type MeetingStore interface {
	InsertMeeting(ctx context.Context, plan store.MeetingPlan) (*store.InsertResult, error)
}

// Options carries the optional collaborators of an engine.
type Options struct {
	Publisher  *events.Publisher
	Metrics    *observability.Metrics
	Tracer     *observability.Tracer
	RunTimeout time.Duration
}

// Engine runs the transcript integration pipeline. One engine serves the
// whole process lifetime; each call to ProcessTranscript is one run.
type Engine struct {
	catalog   *catalog.Catalog
	extractor Extractor
	store     MeetingStore
	log       logging.Logger

	publisher  *events.Publisher
	metrics    *observability.Metrics
	tracer     *observability.Tracer
	runTimeout time.Duration
}

// NewEngine creates a pipeline engine.
func NewEngine(cat *catalog.Catalog, extractor Extractor, meetings MeetingStore, log logging.Logger, opts Options) *Engine {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if opts.Tracer == nil {
		opts.Tracer = observability.NewTracer()
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = DefaultRunTimeout
	}
	return &Engine{
		catalog:    cat,
		extractor:  extractor,
		store:      meetings,
		log:        log,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		runTimeout: opts.RunTimeout,
	}
}

// ProcessFile reads a transcript file and processes it. An unreadable file
// fails the run before any extraction begins.
func (e *Engine) ProcessFile(ctx context.Context, path, meetingName, meetingType string, meetingDate time.Time) (*ProcessingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scerrors.SourceRead("reading transcript "+path, err)
	}
	return e.ProcessTranscript(ctx, string(data), meetingName, meetingType, meetingDate)
}

// extractionResults collects the output of the four extraction passes.
// Degraded passes hold their zero value.
type extractionResults struct {
	membersProjects extract.MembersProjects
	topics          []extract.TopicCandidate
	tasks           []extract.TaskCandidate
	summary         string
}

// ProcessTranscript runs the full pipeline for one transcript. meetingDate
// defaults to the current time when zero.
func (e *Engine) ProcessTranscript(ctx context.Context, transcript, meetingName, meetingType string, meetingDate time.Time) (*ProcessingResult, error) {
	if meetingName == "" {
		return nil, scerrors.Validation("meeting name must not be empty", nil)
	}
	if !catalog.ValidMeetingType(meetingType) {
		return nil, scerrors.Validation("unknown meeting type "+meetingType, nil)
	}
	mt := catalog.MeetingType(meetingType)

	ctx, cancel := context.WithTimeout(ctx, e.runTimeout)
	defer cancel()

	runID := uuid.NewString()
	log := e.log.With(
		logging.F("run_id", runID),
		logging.F("meeting_name", meetingName),
		logging.F("meeting_type", meetingType))
	start := time.Now()

	ctx, runSpan := e.tracer.StartRunSpan(ctx, runID, meetingName, meetingType)

	log.Info("processing transcript", logging.F("chars", len(transcript)))
	extracted := e.extractAll(ctx, log, transcript, mt)

	_, resolveSpan := e.tracer.StartResolveSpan(ctx)
	resolver := resolve.New(e.catalog, log)
	members := resolver.Members(extracted.membersProjects.MemberNames)
	projects := resolver.Projects(extracted.membersProjects.ProjectNames)
	topics := resolver.Topics(topicCandidates(extracted.topics))
	plan, taskNames := e.buildPlan(log, resolver, extracted, members, projects, topics, meetingName, mt, meetingDate)
	e.recordResolutions(extracted, members, projects, resolver)
	observability.EndSpan(resolveSpan, nil)

	persistCtx, persistSpan := e.tracer.StartPersistSpan(ctx)
	inserted, err := e.store.InsertMeeting(persistCtx, plan)
	observability.EndSpan(persistSpan, err)
	if err != nil {
		log.Error("meeting persistence failed", logging.Err(err))
		e.finishRun(runSpan, start, observability.StatusFailed, err)
		return nil, err
	}

	// The cache learns new topics only after the transaction commits, so a
	// failed run never poisons later lookups.
	drafts := resolver.TopicDrafts()
	for i, draft := range drafts {
		e.catalog.AddTopic(catalog.Topic{
			ID:          inserted.NewTopicIDs[i],
			Name:        draft.Name,
			Description: draft.Description,
		})
	}
	if e.metrics != nil && len(drafts) > 0 {
		e.metrics.TopicsCreated.Add(float64(len(drafts)))
	}

	result := buildResult(runID, inserted, meetingName, mt, extracted.summary, members, projects, topics, resolver.NewTopicCount(), taskNames)

	e.publishResult(ctx, log, result)
	e.finishRun(runSpan, start, observability.StatusOK, nil)
	log.Info("transcript processed",
		logging.F("meeting_id", result.MeetingID),
		logging.F("members", result.MembersIdentified),
		logging.F("projects", result.ProjectsLinked),
		logging.F("topics", result.TopicsLinked),
		logging.F("new_topics", result.NewTopicsCreated),
		logging.F("tasks", result.TasksCreated),
		logging.F("duration", time.Since(start).String()))
	return result, nil
}

// extractAll runs the four extraction passes concurrently. A degraded pass
// contributes its empty result; the run continues either way.
func (e *Engine) extractAll(ctx context.Context, log logging.Logger, transcript string, mt catalog.MeetingType) extractionResults {
	var (
		results extractionResults
		wg      sync.WaitGroup
	)

	run := func(category string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spanCtx, span := e.tracer.StartExtractionSpan(ctx, category)
			err := fn(spanCtx)
			observability.EndSpan(span, err)
			status := observability.StatusOK
			if err != nil {
				status = observability.StatusDegraded
				log.Warn("extraction degraded, continuing with empty result",
					logging.F("category", category),
					logging.Err(err))
			}
			if e.metrics != nil {
				e.metrics.ExtractionsTotal.WithLabelValues(category, status).Inc()
			}
		}()
	}

	run("members_projects", func(ctx context.Context) error {
		mp, err := e.extractor.MembersProjects(ctx, transcript, mt)
		if err != nil {
			return err
		}
		results.membersProjects = mp
		return nil
	})
	run("topics", func(ctx context.Context) error {
		topics, err := e.extractor.Topics(ctx, transcript, mt)
		if err != nil {
			return err
		}
		results.topics = topics
		return nil
	})
	run("tasks", func(ctx context.Context) error {
		tasks, err := e.extractor.Tasks(ctx, transcript, mt)
		if err != nil {
			return err
		}
		results.tasks = tasks
		return nil
	})
	run("summary", func(ctx context.Context) error {
		summary, err := e.extractor.Summary(ctx, transcript, mt)
		if err != nil {
			return err
		}
		results.summary = summary
		return nil
	})

	wg.Wait()
	return results
}

// buildPlan turns resolved entities into a persistence plan. Task assignees
// resolve here, after attendees and topics, so the run consumes extraction
// output in one fixed order.
func (e *Engine) buildPlan(
	log logging.Logger,
	resolver *resolve.Resolver,
	extracted extractionResults,
	members []catalog.Member,
	projects []catalog.Project,
	topics []resolve.ResolvedTopic,
	meetingName string,
	mt catalog.MeetingType,
	meetingDate time.Time,
) (store.MeetingPlan, []string) {
	plan := store.MeetingPlan{
		Name:      meetingName,
		Type:      mt,
		Summary:   extracted.summary,
		CreatedAt: meetingDate,
	}

	for _, m := range members {
		plan.MemberIDs = append(plan.MemberIDs, m.ID)
	}
	for _, p := range projects {
		plan.ProjectIDs = append(plan.ProjectIDs, p.ID)
	}
	for _, rt := range topics {
		if !rt.New {
			plan.TopicIDs = append(plan.TopicIDs, rt.ID)
		}
	}
	for _, draft := range resolver.TopicDrafts() {
		plan.NewTopics = append(plan.NewTopics, store.TopicInsert{
			Name:        draft.Name,
			Description: draft.Description,
		})
	}

	var taskNames []string
	for _, cand := range extracted.tasks {
		if cand.Name == "" {
			continue
		}
		task := store.TaskInsert{
			Name:        cand.Name,
			Description: cand.Description,
		}
		if cand.Deadline.Valid {
			deadline := cand.Deadline.Time
			task.Deadline = &deadline
		} else if cand.Deadline.Raw != "" {
			log.Warn("unparseable task deadline, storing task without one",
				logging.F("task", cand.Name),
				logging.F("deadline", cand.Deadline.Raw))
		}
		for _, assignee := range resolver.Assignees(cand.AssignedTo) {
			task.AssigneeIDs = append(task.AssigneeIDs, assignee.ID)
		}
		plan.Tasks = append(plan.Tasks, task)
		taskNames = append(taskNames, cand.Name)
	}

	return plan, taskNames
}

func (e *Engine) recordResolutions(extracted extractionResults, members []catalog.Member, projects []catalog.Project, resolver *resolve.Resolver) {
	if e.metrics == nil {
		return
	}
	memberDropped := len(extracted.membersProjects.MemberNames) - len(members)
	e.metrics.ResolutionsTotal.WithLabelValues("member", observability.OutcomeResolved).Add(float64(len(members)))
	e.metrics.ResolutionsTotal.WithLabelValues("member", observability.OutcomeDropped).Add(float64(memberDropped))

	projectDropped := len(extracted.membersProjects.ProjectNames) - len(projects)
	e.metrics.ResolutionsTotal.WithLabelValues("project", observability.OutcomeResolved).Add(float64(len(projects)))
	e.metrics.ResolutionsTotal.WithLabelValues("project", observability.OutcomeDropped).Add(float64(projectDropped))

	created := resolver.NewTopicCount()
	e.metrics.ResolutionsTotal.WithLabelValues("topic", observability.OutcomeCreated).Add(float64(created))
	e.metrics.ResolutionsTotal.WithLabelValues("topic", observability.OutcomeResolved).Add(float64(len(extracted.topics) - created))
}

func (e *Engine) publishResult(ctx context.Context, log logging.Logger, result *ProcessingResult) {
	err := e.publisher.PublishMeetingProcessed(ctx, events.MeetingProcessedEvent{
		RunID:             result.RunID,
		MeetingID:         result.MeetingID,
		MeetingName:       result.MeetingName,
		MeetingType:       string(result.MeetingType),
		MembersIdentified: result.MembersIdentified,
		ProjectsLinked:    result.ProjectsLinked,
		TopicsLinked:      result.TopicsLinked,
		NewTopicsCreated:  result.NewTopicsCreated,
		TasksCreated:      result.TasksCreated,
		SummaryLength:     result.SummaryLength,
	})
	if err != nil {
		log.Warn("meeting processed event not delivered", logging.Err(err))
	}
}

func (e *Engine) finishRun(runSpan trace.Span, start time.Time, status string, err error) {
	observability.EndSpan(runSpan, err)
	if e.metrics != nil {
		e.metrics.RunsTotal.WithLabelValues(status).Inc()
		e.metrics.RunDurationSecond.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}
}

func topicCandidates(cands []extract.TopicCandidate) []resolve.TopicCandidate {
	out := make([]resolve.TopicCandidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, resolve.TopicCandidate{Name: c.Name, Summary: c.Summary})
	}
	return out
}

func buildResult(
	runID string,
	inserted *store.InsertResult,
	meetingName string,
	mt catalog.MeetingType,
	summary string,
	members []catalog.Member,
	projects []catalog.Project,
	topics []resolve.ResolvedTopic,
	newTopics int,
	taskNames []string,
) *ProcessingResult {
	result := &ProcessingResult{
		RunID:            runID,
		MeetingID:        inserted.MeetingID,
		MeetingName:      meetingName,
		MeetingType:      mt,
		SummaryLength:    len(summary),
		NewTopicsCreated: newTopics,
		TasksCreated:     len(taskNames),
		TaskNames:        taskNames,
	}

	seenMembers := make(map[int64]struct{})
	for _, m := range members {
		if _, ok := seenMembers[m.ID]; ok {
			continue
		}
		seenMembers[m.ID] = struct{}{}
		result.MemberNames = append(result.MemberNames, m.Name)
	}
	result.MembersIdentified = len(result.MemberNames)

	seenProjects := make(map[int64]struct{})
	for _, p := range projects {
		if _, ok := seenProjects[p.ID]; ok {
			continue
		}
		seenProjects[p.ID] = struct{}{}
		result.ProjectNames = append(result.ProjectNames, p.Name)
	}
	result.ProjectsLinked = len(result.ProjectNames)

	seenTopics := make(map[string]struct{})
	for _, rt := range topics {
		if _, ok := seenTopics[rt.Name]; ok {
			continue
		}
		seenTopics[rt.Name] = struct{}{}
		result.TopicNames = append(result.TopicNames, rt.Name)
	}
	result.TopicsLinked = len(result.TopicNames)

	return result
}
