// Package edit applies in-place mutations to file content: literal replace,
// regex replace and line insertion.
package edit

import (
	"github.com/priyank1574q/agent-vinod/toolerr"
)

// Request is one of Replace, RegexReplace or Insert.
type Request interface {
	Mode() string
}

// Replace swaps Old for New. Unless All is set, Old must occur exactly once.
type Replace struct {
	Old string
	New string
	All bool
}

// RegexReplace substitutes every match of Pattern with Replacement.
type RegexReplace struct {
	Pattern     string
	Replacement string
}

// Insert adds Text as a new line at the position At resolves to.
type Insert struct {
	At   Anchor
	Text string
}

func (Replace) Mode() string      { return "replace" }
func (RegexReplace) Mode() string { return "regex_replace" }
func (Insert) Mode() string       { return "insert" }

// Anchor is AtLine or AfterText.
type Anchor interface {
	anchor()
}

// AtLine inserts before the 0-based line index; the line count appends.
type AtLine int

// AfterText inserts after the first line containing the text.
type AfterText string

func (AtLine) anchor()    {}
func (AfterText) anchor() {}

// Args is the flat argument shape edit requests arrive in.
type Args struct {
	Mode        string
	OldString   *string
	NewString   *string
	InsertLine  *int
	InsertAfter *string
	ReplaceAll  bool
}

// Parse validates args into a typed request.
func Parse(a Args) (Request, error) {
	switch a.Mode {
	case "replace":
		if a.OldString == nil || *a.OldString == "" || a.NewString == nil {
			return nil, toolerr.New(toolerr.KindInvalidRequest, "'old_string' and 'new_string' are required for replace mode.")
		}
		return Replace{Old: *a.OldString, New: *a.NewString, All: a.ReplaceAll}, nil

	case "regex_replace":
		if a.OldString == nil || *a.OldString == "" || a.NewString == nil {
			return nil, toolerr.New(toolerr.KindInvalidRequest, "'old_string' (as pattern) and 'new_string' are required for regex_replace mode.")
		}
		return RegexReplace{Pattern: *a.OldString, Replacement: *a.NewString}, nil

	case "insert":
		hasLine := a.InsertLine != nil
		hasText := a.InsertAfter != nil && *a.InsertAfter != ""
		if a.NewString == nil || hasLine == hasText {
			return nil, toolerr.New(toolerr.KindInvalidRequest, "'new_string' and exactly one of 'insert_line' or 'insert_after' are required for insert mode.")
		}
		if hasLine {
			return Insert{At: AtLine(*a.InsertLine), Text: *a.NewString}, nil
		}
		return Insert{At: AfterText(*a.InsertAfter), Text: *a.NewString}, nil

	default:
		return nil, toolerr.New(toolerr.KindInvalidRequest, "Invalid mode '%s'. Use 'replace', 'insert', or 'regex_replace'.", a.Mode)
	}
}
