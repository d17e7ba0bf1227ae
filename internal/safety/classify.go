// Package safety re-scores tool risk tiers, filters tools by policy and
// annotates what survives.
//
// Tools are mutated in place and the accepted slice aliases the records it
// was given. A second pass over the same records is idempotent: badges and
// redaction markers are never applied twice.
package safety

import (
	"regexp"
	"strings"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
)

const (
	WriteBadge       = " [WRITES DATA]"
	DestructiveBadge = " [⚠ DESTRUCTIVE — may permanently delete data]"
	RedactionMarker  = "[REDACTED — sensitive field] "

	redactionPrefix = "[REDACTED"
)

var (
	destructiveWords = regexp.MustCompile(`(?i)\b(delete|remove|destroy|purge|drop|revoke|terminate|cancel)\b`)
	writeWords       = regexp.MustCompile(`(?i)\b(create|update|set|add|assign|upload|import|modify|enable|disable|patch|put)\b`)
)

// Reason explains why a tool was rejected.
type Reason string

const (
	ReasonNotAllowlisted Reason = "not in allowlist"
	ReasonDenylisted     Reason = "denylisted"
	ReasonDestructive    Reason = "destructive blocked"
	ReasonOverCap        Reason = "exceeds max_tools"
)

// Rejection records one tool the policy refused.
type Rejection struct {
	Name   string `json:"name"`
	Reason Reason `json:"reason"`
}

// Result is the outcome of a classification pass.
type Result struct {
	Accepted []*models.ToolDefinition
	Rejected []Rejection
}

// Counts returns the number of accepted tools per tier.
func (r *Result) Counts() map[models.SafetyLevel]int {
	counts := make(map[models.SafetyLevel]int, len(models.SafetyLevels))
	for _, lvl := range models.SafetyLevels {
		counts[lvl] = 0
	}
	for _, td := range r.Accepted {
		counts[td.Safety]++
	}
	return counts
}

// KeywordTier is the tier implied by keywords in the tool's name and
// description, or the current tier if no keyword matches.
func KeywordTier(td *models.ToolDefinition) models.SafetyLevel {
	text := td.Name + " " + td.Description
	switch {
	case destructiveWords.MatchString(text):
		return models.SafetyDestructive
	case writeWords.MatchString(text):
		return models.SafetyWrite
	}
	return td.Safety
}

// Escalate returns the re-scored tier. It never ranks below the current tier.
func Escalate(td *models.ToolDefinition) models.SafetyLevel {
	return td.Safety.Max(KeywordTier(td))
}

// Badge returns the description suffix for a tier.
func Badge(level models.SafetyLevel) string {
	switch level {
	case models.SafetyWrite:
		return WriteBadge
	case models.SafetyDestructive:
		return DestructiveBadge
	case models.SafetyRead:
		return ""
	}
	return ""
}

// Classify runs every tool through escalation, allow/deny filtering, the
// destructive block, badging and redaction, then applies the max_tools cap.
// It fails only when the policy is invalid.
func Classify(logger *common.Logger, tools []*models.ToolDefinition, policy Policy) (*Result, error) {
	pol, err := policy.compile()
	if err != nil {
		return nil, err
	}

	res := &Result{Accepted: make([]*models.ToolDefinition, 0, len(tools))}
	for _, td := range tools {
		prev := td.Safety
		td.Safety = Escalate(td)
		if prev != td.Safety {
			logger.Debug().
				Str("tool", td.Name).
				Str("from", string(prev)).
				Str("to", string(td.Safety)).
				Msg("reclassified tool")
		}

		if len(pol.allow) > 0 && !pol.allow[td.Name] {
			res.reject(td, ReasonNotAllowlisted)
			continue
		}
		if pol.deny[td.Name] {
			res.reject(td, ReasonDenylisted)
			continue
		}
		if policy.BlockDestructive && td.Safety == models.SafetyDestructive {
			res.reject(td, ReasonDestructive)
			continue
		}

		addBadge(td)
		redact(td, pol)
		res.Accepted = append(res.Accepted, td)
	}

	if policy.MaxTools > 0 && len(res.Accepted) > policy.MaxTools {
		for _, td := range res.Accepted[policy.MaxTools:] {
			res.reject(td, ReasonOverCap)
		}
		res.Accepted = res.Accepted[:policy.MaxTools]
	}

	if len(res.Rejected) > 0 {
		rejected := make([]string, len(res.Rejected))
		for i, r := range res.Rejected {
			rejected[i] = r.Name + " (" + string(r.Reason) + ")"
		}
		logger.Info().
			Int("count", len(res.Rejected)).
			Strs("rejected", rejected).
			Msg("blocked tools")
	}

	counts := res.Counts()
	logger.Info().
		Int("accepted", len(res.Accepted)).
		Int("read", counts[models.SafetyRead]).
		Int("write", counts[models.SafetyWrite]).
		Int("destructive", counts[models.SafetyDestructive]).
		Bool("write_confirmation", policy.RequireWriteConfirmation).
		Msg("passed tools")

	return res, nil
}

func (r *Result) reject(td *models.ToolDefinition, reason Reason) {
	r.Rejected = append(r.Rejected, Rejection{Name: td.Name, Reason: reason})
}

func addBadge(td *models.ToolDefinition) {
	badge := Badge(td.Safety)
	if badge != "" && !strings.Contains(td.Description, badge) {
		td.Description += badge
	}
}

func redact(td *models.ToolDefinition, pol *compiled) {
	for _, p := range td.Params {
		if pol.sensitive(p.Name) && !strings.HasPrefix(p.Description, redactionPrefix) {
			p.Description = RedactionMarker + p.Description
		}
	}
}
