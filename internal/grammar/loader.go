package grammar

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// loader turns rule-definition text into RuleSet entries.
//
// The file format is line-oriented, evaluated top to bottom:
//
//	# comment                          ignored, as are blank lines
//	NAME token token...                single-line alternative
//	NAME+5 token...                    weight-5 alternative
//	NAME!                              marks NAME as deduplicating, no body
//	NAME {                             multi-line body up to a bare }
//	.include relative/path.txt         load another file first
//
// Escapes \+ \# \! in a name are literal characters, not modifiers.
type loader struct {
	rules *RuleSet
	log   *slog.Logger
}

// loadFile reads and parses one rules file, following includes depth-first.
// A file already loaded (compared by resolved path) is skipped silently, so
// inclusion is idempotent even with diamond or cyclic include graphs.
func (l *loader) loadFile(path string) error {
	resolved, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		resolved = filepath.Clean(path)
	}

	if l.rules.includedFiles[resolved] {
		l.log.Debug("skipping already-included rules file", "path", path)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadError{Code: ErrCodeNotFound, Path: path, Msg: "rules file not found", Err: err}
		}
		return &LoadError{Code: ErrCodeReadFailed, Path: path, Msg: err.Error(), Err: err}
	}

	l.rules.markIncluded(resolved)
	l.log.Debug("loading rules", "path", path)

	return l.parse(string(data), filepath.Dir(path), path)
}

// parse processes rule-definition text. baseDir resolves relative .include
// targets; source names the origin in error messages.
func (l *loader) parse(content, baseDir, source string) error {
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); {
		lineNo := i + 1
		line := strings.TrimSpace(lines[i])
		i++

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		original := tokens[0]
		name := original

		// Include directive: load the target before continuing here.
		if name == ".include" || strings.HasSuffix(name, ".include") {
			if len(tokens) < 2 {
				return &LoadError{
					Code: ErrCodeMalformedDirective,
					Path: source,
					Line: lineNo,
					Msg:  ".include requires a path argument",
				}
			}
			target := tokens[1]
			if !filepath.IsAbs(target) {
				target = filepath.Join(baseDir, target)
			}
			if err := l.loadFile(target); err != nil {
				return err
			}
			continue
		}

		// Trailing ! marks the rule as deduplicating. The line carries no
		// expansion; it may precede the rule's definition lines entirely.
		if strings.HasSuffix(name, "!") && !strings.HasSuffix(name, `\!`) {
			l.rules.MarkNoDuplicates(unescapeName(name[:len(name)-1]))
			continue
		}

		// Trailing +N is a weight multiplier, stripped from the stored name.
		// Only positive N counts as a weight; "+0" stays part of the name.
		// Any backslash in the name disables weight parsing so that escaped
		// operators survive to the unescape step below.
		weight := 1
		if !strings.Contains(name, `\`) {
			if idx := strings.LastIndex(name, "+"); idx >= 0 {
				if n, err := strconv.Atoi(name[idx+1:]); err == nil && n > 0 {
					name = name[:idx]
					weight = n
				}
			}
		}

		name = unescapeName(name)

		var expansion string
		switch {
		case len(tokens) == 2 && tokens[1] == "{":
			// Multi-line body: raw lines up to (and excluding) a bare },
			// right-trimmed and joined with newlines.
			var body []string
			for i < len(lines) {
				raw := lines[i]
				i++
				if strings.TrimSpace(raw) == "}" {
					break
				}
				body = append(body, strings.TrimRight(raw, " \t\r"))
			}
			expansion = strings.Join(body, "\n")
		case len(tokens) > 1:
			expansion = strings.Join(tokens[1:], " ")
		}

		// A bodiless name that ends in a literal operator produced by
		// escape-stripping only declares the literal form; no rule is stored.
		if expansion == "" &&
			(strings.HasSuffix(name, "+") || strings.HasSuffix(name, "#")) &&
			strings.Contains(original, `\`) {
			continue
		}

		l.rules.Add(name, expansion, weight)
	}

	return nil
}

// unescapeName turns the escape sequences \+ \# \! back into their literal
// characters in a stored rule name.
func unescapeName(name string) string {
	name = strings.ReplaceAll(name, `\+`, "+")
	name = strings.ReplaceAll(name, `\#`, "#")
	name = strings.ReplaceAll(name, `\!`, "!")
	return name
}
