package blockword

import (
	"fmt"
	"strings"
)

// Severity selects how aggressively text is masked. Lists are cumulative:
// masking at High also masks every Middle and Low word.
type Severity int

const (
	Low Severity = iota
	Middle
	High
)

// DefaultSeverity is used when a caller does not choose one.
const DefaultSeverity = Middle

var severityNames = [...]string{Low: "LOW", Middle: "MIDDLE", High: "HIGH"}

func (s Severity) String() string {
	if s < Low || s > High {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity parses LOW, MIDDLE or HIGH, ignoring case.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("blockword: unknown severity %q", name)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
