package mine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bobmcallan/anvil/internal/models"
)

const maxDescriptionRunes = 200

var (
	nonSnake      = regexp.MustCompile(`[^a-z0-9]+`)
	placeholder   = regexp.MustCompile(`\{[^}]+\}`)
	placeholderRE = regexp.MustCompile(`^\{[^}]+\}$`)
	versionRE     = regexp.MustCompile(`^v\d+$`)
)

// ToSnake lowercases text and collapses every run of characters outside
// [a-z0-9] into a single underscore, trimming underscores at either end.
func ToSnake(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return strings.Trim(nonSnake.ReplaceAllString(s, "_"), "_")
}

// ResourceName derives a resource name from a URL path.
//
//	/pets/{petId}/toys -> pets_toys
//	/api/v1/issues     -> api_issues
//	/{id}              -> root
func ResourceName(path string) string {
	var parts []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || placeholderRE.MatchString(seg) || versionRE.MatchString(seg) {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return "root"
	}
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	for i, seg := range parts {
		parts[i] = ToSnake(seg)
	}
	return strings.Join(parts, "_")
}

// HasPlaceholder reports whether path contains a {placeholder} segment.
func HasPlaceholder(path string) bool {
	return placeholder.MatchString(path)
}

// BucketKey is the snake-cased first tag, or the path resource when untagged.
func BucketKey(ep *models.Endpoint) string {
	if len(ep.Tags) > 0 {
		return ToSnake(ep.Tags[0])
	}
	return ResourceName(ep.Path)
}

// ToolName derives the name of a standalone tool for ep.
func ToolName(ep *models.Endpoint) string {
	if ep.OperationID != "" {
		return ToSnake(ep.OperationID)
	}
	verb := ep.Method.Verb()
	if ep.Method == models.MethodGet && !HasPlaceholder(ep.Path) {
		verb = "list"
	}
	resource := ResourceName(ep.Path)
	if isItemPath(ep.Path) {
		resource = singularTail(resource)
	}
	return verb + "_" + resource
}

// isItemPath reports whether the last path segment is a placeholder, as in
// /widgets/{id}.
func isItemPath(path string) bool {
	segs := strings.Split(strings.TrimRight(path, "/"), "/")
	return placeholderRE.MatchString(segs[len(segs)-1])
}

// singularTail singularizes the last word of a snake_case resource name.
func singularTail(resource string) string {
	head, word := "", resource
	if i := strings.LastIndexByte(resource, '_'); i >= 0 {
		head, word = resource[:i+1], resource[i+1:]
	}
	switch {
	case len(word) > 3 && strings.HasSuffix(word, "ies"):
		word = word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"), strings.HasSuffix(word, "xes"),
		strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "shes"):
		word = word[:len(word)-2]
	case strings.HasSuffix(word, "ss"), strings.HasSuffix(word, "us"), strings.HasSuffix(word, "is"):
	case len(word) > 1 && strings.HasSuffix(word, "s"):
		word = word[:len(word)-1]
	}
	return head + word
}

// Description builds the one-line human description of ep.
func Description(ep *models.Endpoint) string {
	text := ep.Summary
	if text == "" && ep.Description != "" {
		first, _, _ := strings.Cut(ep.Description, "\n")
		if r := []rune(first); len(r) > maxDescriptionRunes {
			first = string(r[:maxDescriptionRunes])
		}
		text = first
	}
	if text == "" {
		text = fmt.Sprintf("%s %s", ep.Method, ep.Path)
	}
	if ep.Deprecated {
		text += " [DEPRECATED]"
	}
	return text
}

// collisionSuffix is the snake-cased last path segment of the tool's first
// endpoint, or "alt".
func collisionSuffix(td *models.ToolDefinition) string {
	ep, ok := td.PrimaryEndpoint()
	if !ok {
		return "alt"
	}
	segs := strings.Split(ep.Path, "/")
	if s := ToSnake(segs[len(segs)-1]); s != "" {
		return s
	}
	return "alt"
}
