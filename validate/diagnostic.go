package validate

import "fmt"

// Rule identifies which validation rule a diagnostic was produced by.
type Rule string

const (
	UnknownType              Rule = "UnknownType"
	DuplicateFieldName       Rule = "DuplicateFieldName"
	DuplicateMessageName     Rule = "DuplicateMessageName"
	CyclicCompositeReference Rule = "CyclicCompositeReference"
	StringLengthExceeded     Rule = "StringLengthExceeded"
	ArrayCapacityExceeded    Rule = "ArrayCapacityExceeded"
	MessageSizeExceeded      Rule = "MessageSizeExceeded"
)

// Diagnostic is one rule violation: the rule kind, the offending message,
// the field path inside it (empty for message-level rules) and a
// human-readable detail. Diagnostics are collected as data, never raised
// one by one, so a user sees every problem in a single run.
type Diagnostic struct {
	Rule    Rule
	Message string
	Path    string
	Detail  string
}

func detailf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func (d Diagnostic) String() string {
	loc := d.Message
	if d.Path != "" {
		loc = d.Message + "." + d.Path
	}
	return fmt.Sprintf("[%s] %s: %s", d.Rule, loc, d.Detail)
}
