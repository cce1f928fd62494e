package catalog

import (
	"fmt"
	"strings"

	"github.com/conneroisu/projectcard/internal/card"
)

// Severity ranks validation issues.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Issue is a problem found in a catalog.
type Issue struct {
	Severity Severity `json:"severity"`
	// Index is the position of the project in the catalog.
	Index   int    `json:"index"`
	Project string `json:"project,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	where := fmt.Sprintf("projects[%d]", i.Index)
	if i.Project != "" {
		where += " (" + i.Project + ")"
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, where, i.Message)
}

// Validate checks a catalog. Cards render regardless; errors flag entries
// a reader would not be able to tell apart or identify.
func Validate(file *File) []Issue {
	var issues []Issue
	seen := make(map[string]int)

	for i, p := range file.Projects {
		add := func(sev Severity, format string, args ...interface{}) {
			issues = append(issues, Issue{
				Severity: sev,
				Index:    i,
				Project:  p.Name,
				Message:  fmt.Sprintf(format, args...),
			})
		}

		name := strings.TrimSpace(p.Name)
		if name == "" {
			add(SeverityError, "name is required")
		} else if first, dup := seen[name]; dup {
			add(SeverityError, "duplicate name, first defined at projects[%d]", first)
		} else {
			seen[name] = i
		}

		if !hasText(p.Description) {
			add(SeverityWarning, "description is empty")
		}

		for j, l := range p.Links {
			switch fields := l.Fields(); len(fields) {
			case 0:
				add(SeverityWarning, "links[%d] has no known field and renders nothing", j)
			case 1:
			default:
				add(SeverityWarning, "links[%d] sets %s; only the first of each group is shown", j, strings.Join(fields, ", "))
			}
		}
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func hasText(d card.Description) bool {
	for _, s := range d {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
