package edit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/priyank1574q/agent-vinod/toolerr"
	"github.com/priyank1574q/agent-vinod/vfs"
)

// Result is the outcome of a successful edit.
type Result struct {
	Content string
	Count   int
	Diff    string
}

// Apply runs req against content. It has no side effects; on error the
// caller's content is untouched.
func Apply(content string, req Request) (Result, error) {
	var (
		updated string
		count   int
		err     error
	)
	switch r := req.(type) {
	case Replace:
		updated, count, err = replace(content, r)
	case RegexReplace:
		updated, count, err = regexReplace(content, r)
	case Insert:
		updated, err = insert(content, r)
		count = 1
	default:
		err = toolerr.New(toolerr.KindInvalidRequest, "unsupported edit request %T", req)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Content: updated, Count: count, Diff: Diff(content, updated)}, nil
}

func replace(content string, r Replace) (string, int, error) {
	if r.Old == "" {
		return "", 0, toolerr.New(toolerr.KindInvalidRequest, "'old_string' must not be empty.")
	}
	n := strings.Count(content, r.Old)
	switch {
	case n == 0:
		return "", 0, toolerr.New(toolerr.KindNoMatch, "String not found in file: '%s'", r.Old)
	case n > 1 && !r.All:
		return "", 0, toolerr.New(toolerr.KindAmbiguous,
			"String '%s' appears %d times in file. Use replace_all=true to replace all instances, or provide a more specific string with surrounding context.",
			r.Old, n)
	case r.All:
		return strings.ReplaceAll(content, r.Old, r.New), n, nil
	default:
		return strings.Replace(content, r.Old, r.New, 1), 1, nil
	}
}

func regexReplace(content string, r RegexReplace) (string, int, error) {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return "", 0, toolerr.Wrap(toolerr.KindInvalidPattern, err, "Invalid Regex pattern: %v", err)
	}
	n := len(re.FindAllStringIndex(content, -1))
	if n == 0 {
		return "", 0, toolerr.New(toolerr.KindNoMatch, "Regex pattern '%s' found 0 matches.", r.Pattern)
	}
	template, err := translateReplacement(re, r.Replacement)
	if err != nil {
		return "", 0, err
	}
	return re.ReplaceAllString(content, template), n, nil
}

// translateReplacement turns a replacement string into a regexp template.
// Group references are \1, \g<name>, $1 and ${name}; a $ reference is only
// honored when the group exists, otherwise the $ is literal. The escapes \n,
// \t and \\ are expanded.
func translateReplacement(re *regexp.Regexp, repl string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		switch {
		case c == '$':
			ref, width := dollarRef(re, repl[i+1:])
			if width == 0 {
				b.WriteString("$$")
				continue
			}
			b.WriteString("${" + ref + "}")
			i += width
		case c == '\\' && i+1 < len(repl):
			next := repl[i+1]
			switch {
			case next >= '0' && next <= '9':
				j := i + 1
				for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
					j++
				}
				ref := repl[i+1 : j]
				if !hasGroup(re, ref) {
					return "", toolerr.New(toolerr.KindInvalidPattern, "Invalid group reference \\%s in replacement.", ref)
				}
				b.WriteString("${" + ref + "}")
				i = j - 1
			case next == 'g' && i+2 < len(repl) && repl[i+2] == '<':
				end := strings.IndexByte(repl[i+3:], '>')
				if end < 0 {
					b.WriteByte(c)
					continue
				}
				ref := repl[i+3 : i+3+end]
				if !hasGroup(re, ref) {
					return "", toolerr.New(toolerr.KindInvalidPattern, "Invalid group reference \\g<%s> in replacement.", ref)
				}
				b.WriteString("${" + ref + "}")
				i = i + 3 + end
			case next == 'n':
				b.WriteByte('\n')
				i++
			case next == 't':
				b.WriteByte('\t')
				i++
			case next == '\\':
				b.WriteByte('\\')
				i++
			default:
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// dollarRef reads a $ reference at the start of s ($1 or ${name}) and
// returns the group and the bytes consumed, or zero width when s does not
// start with a reference to an existing group.
func dollarRef(re *regexp.Regexp, s string) (string, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end > 1 && hasGroup(re, s[1:end]) {
			return s[1:end], end + 1
		}
		return "", 0
	}
	j := 0
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j > 0 && hasGroup(re, s[:j]) {
		return s[:j], j
	}
	return "", 0
}

// hasGroup reports whether ref names a capture group of re, by number or by
// name.
func hasGroup(re *regexp.Regexp, ref string) bool {
	if n, err := strconv.Atoi(ref); err == nil {
		return n >= 0 && n <= re.NumSubexp()
	}
	return ref != "" && re.SubexpIndex(ref) >= 0
}

func insert(content string, r Insert) (string, error) {
	lines := vfs.SplitLines(content)
	pos := -1
	switch at := r.At.(type) {
	case AtLine:
		n := int(at)
		if n < 0 || n > len(lines) {
			return "", toolerr.New(toolerr.KindOutOfRange, "Line number %d is out of range.", n)
		}
		pos = n
	case AfterText:
		for i, line := range lines {
			if strings.Contains(line, string(at)) {
				pos = i + 1
				break
			}
		}
		if pos < 0 {
			return "", toolerr.New(toolerr.KindAnchorNotFound, "Text '%s' to insert after was not found.", string(at))
		}
	default:
		return "", toolerr.New(toolerr.KindInvalidRequest, "insert requires a line number or anchor text.")
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:pos]...)
	out = append(out, r.Text)
	out = append(out, lines[pos:]...)

	joined := strings.Join(out, "\n")
	if vfs.HasTrailingNewline(content) {
		joined += "\n"
	}
	return joined, nil
}

// Diff returns a unified diff from before to after.
func Diff(before, after string) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return ""
	}
	return text
}
