// Package mine turns the endpoints of an APISpec into tool definitions.
//
// Endpoints are bucketed by first tag (or path resource), read-heavy buckets
// collapse into a single search tool and every write stays standalone.
// Output is sorted by name and identical across runs for identical input.
package mine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
)

// minMergeReads is the smallest number of GET endpoints in a bucket that
// collapse into one search tool.
const minMergeReads = 3

// CollisionPolicy decides what happens when a suffixed tool name still collides.
type CollisionPolicy string

const (
	// CollisionDrop drops the colliding tool and reports it.
	CollisionDrop CollisionPolicy = "drop"
	// CollisionNumber appends _2, _3, ... until the name is unique.
	CollisionNumber CollisionPolicy = "number"
)

// ParseCollisionPolicy parses a policy name. Empty means CollisionDrop.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CollisionDrop, nil
	case CollisionDrop, CollisionNumber:
		return p, nil
	}
	return "", fmt.Errorf("unsupported collision policy %q (want drop or number)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *CollisionPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseCollisionPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Options tunes a mining pass.
type Options struct {
	Collision CollisionPolicy `toml:"collision"`
}

// DroppedTool records a tool discarded because its name could not be made unique.
type DroppedTool struct {
	Name     string `json:"name"`
	Method   string `json:"method"`
	Path     string `json:"path"`
	Conflict string `json:"conflict"`
}

// Result is the output of one mining pass.
type Result struct {
	Tools   []*models.ToolDefinition
	Dropped []DroppedTool
}

type bucket struct {
	key       string
	endpoints []*models.Endpoint
}

// miner holds the name-deduplication state of a single pass.
type miner struct {
	logger *common.Logger
	opts   Options
	used   map[string]bool
	result Result
}

// Mine converts spec into tool definitions sorted ascending by name.
// An empty spec yields an empty result. Mining never fails.
func Mine(logger *common.Logger, spec *models.APISpec, opts Options) *Result {
	m := &miner{
		logger: logger,
		opts:   opts,
		used:   make(map[string]bool),
	}

	buckets := bucketize(spec.Endpoints)
	keys := make([]string, len(buckets))
	for i, b := range buckets {
		keys[i] = b.key
	}
	logger.Info().
		Int("endpoints", len(spec.Endpoints)).
		Int("buckets", len(buckets)).
		Strs("keys", keys).
		Msg("grouped endpoints into buckets")

	for _, b := range buckets {
		var reads, writes []*models.Endpoint
		for _, ep := range b.endpoints {
			if ep.Method == models.MethodGet {
				reads = append(reads, ep)
			} else {
				writes = append(writes, ep)
			}
		}

		if mergeable(reads) {
			m.register(mergedTool(b.key, reads))
		} else {
			for _, ep := range reads {
				m.register(standaloneTool(b.key, ep))
			}
		}
		for _, ep := range writes {
			m.register(standaloneTool(b.key, ep))
		}
	}

	slices.SortFunc(m.result.Tools, func(a, b *models.ToolDefinition) int {
		return strings.Compare(a.Name, b.Name)
	})

	logger.Info().
		Int("tools", len(m.result.Tools)).
		Strs("names", models.ToolNames(m.result.Tools)).
		Msg("extracted tools")

	return &m.result
}

// bucketize groups endpoints by bucket key in first-seen order.
func bucketize(eps []models.Endpoint) []*bucket {
	index := make(map[string]*bucket)
	var out []*bucket
	for i := range eps {
		ep := &eps[i]
		key := BucketKey(ep)
		b, ok := index[key]
		if !ok {
			b = &bucket{key: key}
			index[key] = b
			out = append(out, b)
		}
		b.endpoints = append(b.endpoints, ep)
	}
	return out
}

func mergeable(reads []*models.Endpoint) bool {
	if len(reads) < minMergeReads {
		return false
	}
	for _, ep := range reads {
		if ep.Method != models.MethodGet {
			return false
		}
	}
	return true
}

func mergedTool(key string, reads []*models.Endpoint) *models.ToolDefinition {
	return &models.ToolDefinition{
		Name:        "search_" + key,
		Description: fmt.Sprintf("Search or list %s with flexible filtering.", strings.ReplaceAll(key, "_", " ")),
		Safety:      models.SafetyRead,
		Params:      mergeParams(reads),
		Endpoints:   reads,
		Tags:        []string{key},
	}
}

func standaloneTool(key string, ep *models.Endpoint) *models.ToolDefinition {
	tags := []string{key}
	if len(ep.Tags) > 0 {
		tags = append([]string(nil), ep.Tags...)
	}
	return &models.ToolDefinition{
		Name:        ToolName(ep),
		Description: Description(ep),
		Safety:      ep.Method.InitialSafety(),
		Params:      ToolParams(ep),
		Endpoints:   []*models.Endpoint{ep},
		Tags:        tags,
	}
}

// register adds td under a unique name, resolving collisions with a path
// suffix and then the configured policy.
func (m *miner) register(td *models.ToolDefinition) {
	name := td.Name
	if m.used[name] {
		name = name + "_" + collisionSuffix(td)
	}
	if m.used[name] {
		if m.opts.Collision != CollisionNumber {
			m.drop(td, name)
			return
		}
		base := name
		for n := 2; m.used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
	}
	td.Name = name
	m.used[name] = true
	m.result.Tools = append(m.result.Tools, td)
}

func (m *miner) drop(td *models.ToolDefinition, conflict string) {
	d := DroppedTool{Name: td.Name, Conflict: conflict}
	if ep, ok := td.PrimaryEndpoint(); ok {
		d.Method = string(ep.Method)
		d.Path = ep.Path
	}
	m.result.Dropped = append(m.result.Dropped, d)
	m.logger.Warn().
		Str("tool", td.Name).
		Str("conflict", conflict).
		Str("path", d.Path).
		Msg("dropped tool: name still collides after suffixing")
}
