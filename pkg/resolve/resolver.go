// Package resolve maps free-text names produced by transcript extraction
// onto canonical catalog records using exact and fuzzy matching, and stages
// new topic records for names no existing topic matches.
package resolve

import (
	"sort"
	"strings"

	"github.com/opencommittee/scribe/pkg/catalog"
	"github.com/opencommittee/scribe/pkg/logging"
)

// Similarity cutoffs per entity type. Projects get a looser threshold to
// tolerate abbreviations and partial-name mentions.
const (
	MemberThreshold  = 0.7
	TopicThreshold   = 0.7
	ProjectThreshold = 0.6
)

// TopicCandidate is an extracted topic name with its extracted summary.
type TopicCandidate struct {
	Name    string
	Summary string
}

// TopicDraft is a new topic staged for insertion. Drafts receive their ids
// from the persistence step.
type TopicDraft struct {
	Name        string
	Description string
}

// ResolvedTopic is the outcome of resolving one topic candidate. ID is zero
// while New is true; the persistence step assigns ids to new topics.
type ResolvedTopic struct {
	ID   int64
	Name string
	New  bool
}

// Resolver resolves extracted names against the catalog for a single
// processing run. It accumulates topic drafts across calls so the same new
// topic name, however often it appears in one run, is staged at most once.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	catalog *catalog.Catalog
	log     logging.Logger

	// pending maps lower-cased draft name to its index in drafts.
	pending map[string]int
	drafts  []TopicDraft
}

// New creates a resolver for one processing run.
func New(cat *catalog.Catalog, log logging.Logger) *Resolver {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Resolver{
		catalog: cat,
		log:     log,
		pending: make(map[string]int),
	}
}

// Members resolves extracted member names against the catalog. Names that
// resolve neither exactly nor within the member threshold are dropped.
func (r *Resolver) Members(names []string) []catalog.Member {
	return r.resolveMembers(names, "attendee")
}

// Assignees resolves task assignee names with the same policy as Members.
// A task keeps zero assignees if none of its names resolve.
func (r *Resolver) Assignees(names []string) []catalog.Member {
	return r.resolveMembers(names, "assignee")
}

func (r *Resolver) resolveMembers(names []string, kind string) []catalog.Member {
	var out []catalog.Member
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if m, ok := r.catalog.MemberByKey(key); ok {
			out = append(out, m)
			continue
		}
		matchKey, score := bestMatch(key, r.catalog.MemberKeys())
		if score >= MemberThreshold {
			m, _ := r.catalog.MemberByKey(matchKey)
			r.log.Debug("fuzzy-matched member",
				logging.F("kind", kind),
				logging.F("input", name),
				logging.F("matched", m.Name),
				logging.F("score", score))
			out = append(out, m)
			continue
		}
		r.log.Warn("dropping unresolved member name",
			logging.F("kind", kind),
			logging.F("input", name),
			logging.F("best_score", score))
	}
	return out
}

// Projects resolves extracted project names against the catalog, dropping
// names that do not clear the project threshold.
func (r *Resolver) Projects(names []string) []catalog.Project {
	var out []catalog.Project
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if p, ok := r.catalog.ProjectByKey(key); ok {
			out = append(out, p)
			continue
		}
		matchKey, score := bestMatch(key, r.catalog.ProjectKeys())
		if score >= ProjectThreshold {
			p, _ := r.catalog.ProjectByKey(matchKey)
			r.log.Debug("fuzzy-matched project",
				logging.F("input", name),
				logging.F("matched", p.Name),
				logging.F("score", score))
			out = append(out, p)
			continue
		}
		r.log.Warn("dropping unresolved project name",
			logging.F("input", name),
			logging.F("best_score", score))
	}
	return out
}

// Topics resolves extracted topic candidates. A candidate that matches an
// existing topic (exactly or within the topic threshold) resolves to it;
// otherwise the candidate is staged as a new topic draft. Candidates that
// fuzzy-match an already staged draft collapse onto it rather than staging
// a near-duplicate.
func (r *Resolver) Topics(cands []TopicCandidate) []ResolvedTopic {
	var out []ResolvedTopic
	for _, cand := range cands {
		name := strings.TrimSpace(cand.Name)
		key := strings.ToLower(name)
		if key == "" {
			continue
		}

		if tp, ok := r.catalog.TopicByKey(key); ok {
			out = append(out, ResolvedTopic{ID: tp.ID, Name: tp.Name})
			continue
		}
		matchKey, score := bestMatch(key, r.catalog.TopicKeys())
		if score >= TopicThreshold {
			tp, _ := r.catalog.TopicByKey(matchKey)
			r.log.Debug("fuzzy-matched topic",
				logging.F("input", name),
				logging.F("matched", tp.Name),
				logging.F("score", score))
			out = append(out, ResolvedTopic{ID: tp.ID, Name: tp.Name})
			continue
		}

		if draft, ok := r.pendingMatch(key); ok {
			r.log.Debug("collapsing near-duplicate topic onto staged draft",
				logging.F("input", name),
				logging.F("draft", draft.Name))
			out = append(out, ResolvedTopic{Name: draft.Name, New: true})
			continue
		}

		r.log.Info("staging new topic", logging.F("name", name))
		r.pending[key] = len(r.drafts)
		r.drafts = append(r.drafts, TopicDraft{Name: name, Description: cand.Summary})
		out = append(out, ResolvedTopic{Name: name, New: true})
	}
	return out
}

// pendingMatch checks key against already staged drafts, exactly and then
// within the topic threshold.
func (r *Resolver) pendingMatch(key string) (TopicDraft, bool) {
	if idx, ok := r.pending[key]; ok {
		return r.drafts[idx], true
	}
	keys := make([]string, 0, len(r.pending))
	for k := range r.pending {
		keys = append(keys, k)
	}
	// Small per-run set, sorting keeps tie-breaks reproducible.
	sort.Strings(keys)
	matchKey, score := bestMatch(key, keys)
	if score >= TopicThreshold {
		return r.drafts[r.pending[matchKey]], true
	}
	return TopicDraft{}, false
}

// TopicDrafts returns the new topics staged in this run, in the order they
// were first seen.
func (r *Resolver) TopicDrafts() []TopicDraft {
	return r.drafts
}

// NewTopicCount returns the number of new topics staged in this run.
func (r *Resolver) NewTopicCount() int {
	return len(r.drafts)
}
