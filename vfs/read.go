package vfs

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/priyank1574q/agent-vinod/toolerr"
)

const (
	// DefaultViewLimit is the number of lines a view returns when no limit is given.
	DefaultViewLimit = 4000
	// MaxLineLength is the longest line a view prints before truncating it.
	MaxLineLength = 2000
)

// ReadRequest is one of Find, View, Search or Stats.
type ReadRequest interface {
	targets() []string
	mode() string
}

// Find lists the files matching Paths.
type Find struct{ Paths []string }

// View prints a line-numbered window of each file. StartLine is 0-based.
type View struct {
	Paths     []string
	StartLine int
	Limit     int
}

// Search reports each line containing Pattern as a literal substring.
type Search struct {
	Paths   []string
	Pattern string
}

// Stats reports line count and size per file.
type Stats struct{ Paths []string }

func (r Find) targets() []string   { return r.Paths }
func (r View) targets() []string   { return r.Paths }
func (r Search) targets() []string { return r.Paths }
func (r Stats) targets() []string  { return r.Paths }

func (Find) mode() string   { return "find" }
func (View) mode() string   { return "view" }
func (Search) mode() string { return "search" }
func (Stats) mode() string  { return "stats" }

// ParseRead validates flat read arguments into a typed request.
func ParseRead(mode string, paths []string, pattern string, startLine, limit int) (ReadRequest, error) {
	if len(paths) == 0 {
		return nil, toolerr.New(toolerr.KindInvalidRequest, "'paths' must contain at least one path or pattern.")
	}
	switch mode {
	case "", "view":
		if startLine < 0 {
			return nil, toolerr.New(toolerr.KindOutOfRange, "start_line %d is out of range.", startLine)
		}
		if limit <= 0 {
			limit = DefaultViewLimit
		}
		return View{Paths: paths, StartLine: startLine, Limit: limit}, nil
	case "find":
		return Find{Paths: paths}, nil
	case "search":
		if pattern == "" {
			return nil, toolerr.New(toolerr.KindInvalidRequest, "'search_pattern' is required for search mode.")
		}
		return Search{Paths: paths, Pattern: pattern}, nil
	case "stats":
		return Stats{Paths: paths}, nil
	default:
		return nil, toolerr.New(toolerr.KindInvalidRequest, "Invalid mode '%s'. Available modes: find, view, search, stats.", mode)
	}
}

// Read runs req against files and returns the report text.
func Read(files map[string]string, req ReadRequest) (string, error) {
	resolved, err := Resolve(files, req.targets())
	if err != nil {
		return "", err
	}
	if len(resolved) == 0 && req.mode() != "find" {
		return "", toolerr.New(toolerr.KindNoMatch, "No files found matching patterns: %s", QuoteList(req.targets()))
	}

	var out []string
	switch r := req.(type) {
	case Find:
		if len(resolved) == 0 {
			out = append(out, "No files found matching: "+strings.Join(r.Paths, ", "))
		} else {
			out = append(out, fmt.Sprintf("Found %d files:", len(resolved)))
			out = append(out, resolved...)
		}

	case View:
		for _, path := range resolved {
			lines := SplitLines(files[path])
			end := min(r.StartLine+r.Limit, len(lines))
			out = append(out, fmt.Sprintf("--- Content of %s (lines %d-%d) ---", path, r.StartLine+1, end))
			for i := r.StartLine; i < end; i++ {
				out = append(out, fmt.Sprintf("%6d\t%s", i+1, truncateLine(lines[i])))
			}
		}

	case Search:
		out = append(out, fmt.Sprintf("Searching for '%s' in %d file(s)...", r.Pattern, len(resolved)))
		total := 0
		for _, path := range resolved {
			var hits []string
			for i, line := range SplitLines(files[path]) {
				if strings.Contains(line, r.Pattern) {
					hits = append(hits, fmt.Sprintf("  %6d: %s", i+1, strings.TrimSpace(line)))
				}
			}
			if len(hits) > 0 {
				total += len(hits)
				out = append(out, "\nMatches in "+path+":")
				out = append(out, hits...)
			}
		}
		out = append(out, fmt.Sprintf("\n--- Search complete. Found %d total matches. ---", total))

	case Stats:
		out = append(out, "--- File Statistics ---")
		for _, path := range resolved {
			content := files[path]
			if content == "" {
				out = append(out, "\n"+path+":\n  Error: Could not read file.")
				continue
			}
			size := len(content)
			out = append(out, "\n"+path+":")
			out = append(out, fmt.Sprintf("  - Line Count: %d", len(SplitLines(content))))
			out = append(out, fmt.Sprintf("  - Size: %d bytes (~%.2f KB)", size, float64(size)/1024))
		}

	default:
		return "", toolerr.New(toolerr.KindInvalidRequest, "unsupported read request %T", req)
	}
	return strings.Join(out, "\n"), nil
}

func truncateLine(line string) string {
	if utf8.RuneCountInString(line) <= MaxLineLength {
		return line
	}
	runes := []rune(line)
	return string(runes[:MaxLineLength]) + " [TRUNCATED]"
}

// QuoteList renders items as a bracketed list of single-quoted strings.
func QuoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
