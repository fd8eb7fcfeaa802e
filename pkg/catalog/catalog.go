// Package catalog holds the in-memory catalog of known members, projects,
// and topics that extracted names are resolved against. The catalog is
// loaded once per engine lifetime and kept for the life of the process.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	scerrors "github.com/opencommittee/scribe/pkg/errors"
)

// Catalog maps lower-cased display names to canonical records. Member and
// project maps are immutable after load; the topic map grows as processing
// runs create new topics, so it is guarded by a mutex.
type Catalog struct {
	members  map[string]Member
	projects map[string]Project

	topicsMu sync.Mutex
	topics   map[string]Topic
}

// Load populates a catalog from the store with three independent reads.
// Rows with empty names are skipped since they can never be matched.
func Load(ctx context.Context, pool *pgxpool.Pool) (*Catalog, error) {
	c := &Catalog{
		members:  make(map[string]Member),
		projects: make(map[string]Project),
		topics:   make(map[string]Topic),
	}

	rows, err := pool.Query(ctx,
		`SELECT member_id, member_name, COALESCE(subcommittee, ''), COALESCE(role, '') FROM committee`)
	if err != nil {
		return nil, scerrors.Configuration("loading member catalog", err)
	}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Subcommittee, &m.Role); err != nil {
			rows.Close()
			return nil, scerrors.Configuration("scanning member row", err)
		}
		if m.Name != "" {
			c.members[strings.ToLower(m.Name)] = m
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, scerrors.Configuration("reading member rows", err)
	}

	rows, err = pool.Query(ctx,
		`SELECT project_id, project_name, COALESCE(project_description, '') FROM projects`)
	if err != nil {
		return nil, scerrors.Configuration("loading project catalog", err)
	}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			rows.Close()
			return nil, scerrors.Configuration("scanning project row", err)
		}
		if p.Name != "" {
			c.projects[strings.ToLower(p.Name)] = p
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, scerrors.Configuration("reading project rows", err)
	}

	rows, err = pool.Query(ctx,
		`SELECT topic_id, topic_name, COALESCE(topic_description, '') FROM topic`)
	if err != nil {
		return nil, scerrors.Configuration("loading topic catalog", err)
	}
	for rows.Next() {
		var tp Topic
		if err := rows.Scan(&tp.ID, &tp.Name, &tp.Description); err != nil {
			rows.Close()
			return nil, scerrors.Configuration("scanning topic row", err)
		}
		if tp.Name != "" {
			c.topics[strings.ToLower(tp.Name)] = tp
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, scerrors.Configuration("reading topic rows", err)
	}

	return c, nil
}

// NewFromRecords builds a catalog from in-memory records. Intended for tests
// and tools that already hold the catalog contents.
func NewFromRecords(members []Member, projects []Project, topics []Topic) *Catalog {
	c := &Catalog{
		members:  make(map[string]Member, len(members)),
		projects: make(map[string]Project, len(projects)),
		topics:   make(map[string]Topic, len(topics)),
	}
	for _, m := range members {
		if m.Name != "" {
			c.members[strings.ToLower(m.Name)] = m
		}
	}
	for _, p := range projects {
		if p.Name != "" {
			c.projects[strings.ToLower(p.Name)] = p
		}
	}
	for _, tp := range topics {
		if tp.Name != "" {
			c.topics[strings.ToLower(tp.Name)] = tp
		}
	}
	return c
}

// MemberByKey looks up a member by lower-cased name.
func (c *Catalog) MemberByKey(key string) (Member, bool) {
	m, ok := c.members[key]
	return m, ok
}

// ProjectByKey looks up a project by lower-cased name.
func (c *Catalog) ProjectByKey(key string) (Project, bool) {
	p, ok := c.projects[key]
	return p, ok
}

// TopicByKey looks up a topic by lower-cased name.
func (c *Catalog) TopicByKey(key string) (Topic, bool) {
	c.topicsMu.Lock()
	defer c.topicsMu.Unlock()
	tp, ok := c.topics[key]
	return tp, ok
}

// MemberKeys returns the lower-cased member names in sorted order. Sorted
// iteration keeps fuzzy-match tie-breaking reproducible.
func (c *Catalog) MemberKeys() []string {
	return sortedKeys(c.members)
}

// ProjectKeys returns the lower-cased project names in sorted order.
func (c *Catalog) ProjectKeys() []string {
	return sortedKeys(c.projects)
}

// TopicKeys returns the lower-cased topic names in sorted order.
func (c *Catalog) TopicKeys() []string {
	c.topicsMu.Lock()
	defer c.topicsMu.Unlock()
	return sortedKeys(c.topics)
}

// AddTopic records a newly persisted topic so later runs in this process
// resolve the name as existing.
func (c *Catalog) AddTopic(tp Topic) {
	if tp.Name == "" {
		return
	}
	c.topicsMu.Lock()
	defer c.topicsMu.Unlock()
	c.topics[strings.ToLower(tp.Name)] = tp
}

// Members returns all members sorted by name.
func (c *Catalog) Members() []Member {
	out := make([]Member, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Projects returns all projects sorted by name.
func (c *Catalog) Projects() []Project {
	out := make([]Project, 0, len(c.projects))
	for _, p := range c.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Topics returns all topics sorted by name.
func (c *Catalog) Topics() []Topic {
	c.topicsMu.Lock()
	defer c.topicsMu.Unlock()
	out := make([]Topic, 0, len(c.topics))
	for _, tp := range c.topics {
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
