package synth

import (
	"fmt"
	"go/token"
	"regexp"
	"strings"
	"unicode"
)

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// reserved names cannot be used for handler locals: they are either the
// handler's own locals, the generated helpers, imported packages or
// predeclared identifiers the handler body refers to.
var reserved = map[string]bool{
	"ctx": true, "req": true, "args": true, "reqPath": true, "query": true, "body": true, "missing": true,
	"arg": true, "callAPI": true, "pathValue": true, "missingArgs": true, "jsonValue": true,
	"textResult": true, "errorResult": true,
	"mcp": true, "context": true, "server": true,
	"any": true, "string": true, "map": true, "nil": true, "true": true, "false": true,
}

// Identifier turns a parameter name into a valid Go identifier. Characters
// outside [A-Za-z0-9_] become underscores and a leading digit gets a "p" prefix.
func Identifier(name string) string {
	id := nonIdent.ReplaceAllString(name, "_")
	if id == "" || strings.Trim(id, "_") == "" {
		id = "p" + id
	}
	if unicode.IsDigit(rune(id[0])) {
		id = "p_" + id
	}
	if token.IsKeyword(id) || reserved[id] {
		id += "_"
	}
	return id
}

// identSet hands out unique identifiers within one scope.
type identSet map[string]bool

func (s identSet) claim(base string) string {
	id := base
	for n := 2; s[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	s[id] = true
	return id
}

// HandlerName returns "handle" followed by the CamelCase tool name.
func HandlerName(tool string) string {
	var b strings.Builder
	b.WriteString("handle")
	for _, part := range strings.FieldsFunc(tool, func(r rune) bool {
		return !(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	}) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if b.Len() == len("handle") {
		b.WriteString("Tool")
	}
	return b.String()
}
