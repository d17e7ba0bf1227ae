package safety

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPolicy is returned when a policy value is outside its documented shape.
var ErrInvalidPolicy = errors.New("invalid safety policy")

// DefaultRedactPatterns flag password, secret, token, ssn and credit-card-like names.
var DefaultRedactPatterns = []string{
	"password",
	"secret",
	"token",
	"ssn",
	"credit.?card",
}

// Policy controls which tools a generated server may expose.
type Policy struct {
	Allowlist        []string `toml:"allowlist"`
	Denylist         []string `toml:"denylist"`
	BlockDestructive bool     `toml:"block_destructive"`
	// RequireWriteConfirmation is informational only and filters nothing.
	RequireWriteConfirmation bool     `toml:"require_write_confirmation"`
	RedactPatterns           []string `toml:"redact_patterns"`
	// MaxTools caps the accepted list after filtering. 0 means unlimited.
	MaxTools int `toml:"max_tools"`
}

// DefaultPolicy allows everything and redacts with DefaultRedactPatterns.
func DefaultPolicy() Policy {
	return Policy{
		Allowlist:                []string{},
		Denylist:                 []string{},
		RequireWriteConfirmation: true,
		RedactPatterns:           append([]string(nil), DefaultRedactPatterns...),
	}
}

// Issues lists every malformed value in the policy.
func (p Policy) Issues() []string {
	var issues []string
	if p.MaxTools < 0 {
		issues = append(issues, fmt.Sprintf("safety.max_tools must be >= 0, got %d", p.MaxTools))
	}
	for i, name := range p.Allowlist {
		if strings.TrimSpace(name) == "" {
			issues = append(issues, fmt.Sprintf("safety.allowlist[%d] is empty", i))
		}
	}
	for i, name := range p.Denylist {
		if strings.TrimSpace(name) == "" {
			issues = append(issues, fmt.Sprintf("safety.denylist[%d] is empty", i))
		}
	}
	for i, pat := range p.RedactPatterns {
		if pat == "" {
			issues = append(issues, fmt.Sprintf("safety.redact_patterns[%d] is empty", i))
			continue
		}
		if _, err := compilePattern(pat); err != nil {
			issues = append(issues, fmt.Sprintf("safety.redact_patterns[%d] %q: %v", i, pat, err))
		}
	}
	return issues
}

// Validate returns an error wrapping ErrInvalidPolicy if the policy has issues.
func (p Policy) Validate() error {
	issues := p.Issues()
	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidPolicy, strings.Join(issues, "; "))
}

// compilePattern compiles a redact pattern case-insensitively.
func compilePattern(pat string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pat, "(?i)") {
		pat = "(?i)" + pat
	}
	return regexp.Compile(pat)
}

// compiled is a validated policy ready for a classification pass.
type compiled struct {
	allow  map[string]bool
	deny   map[string]bool
	redact []*regexp.Regexp
}

func (p Policy) compile() (*compiled, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c := &compiled{
		allow: make(map[string]bool, len(p.Allowlist)),
		deny:  make(map[string]bool, len(p.Denylist)),
	}
	for _, name := range p.Allowlist {
		c.allow[name] = true
	}
	for _, name := range p.Denylist {
		c.deny[name] = true
	}
	for _, pat := range p.RedactPatterns {
		re, err := compilePattern(pat)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
		}
		c.redact = append(c.redact, re)
	}
	return c, nil
}

func (c *compiled) sensitive(name string) bool {
	for _, re := range c.redact {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
