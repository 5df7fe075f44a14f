package service

import (
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
)

// Filename cleaning. All of this is deterministic and idempotent: applying a
// step twice yields the same result as applying it once.

var (
	// URLs stop at whitespace or underscore so a URL glued into a
	// separator-delimited filename does not swallow the rest of the name.
	urlPattern     = regexp.MustCompile(`https?://[^\s_]+|www\.[^\s_]+`)
	handlePattern  = regexp.MustCompile(`@[A-Za-z0-9_]+`)
	bracketPattern = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

	// A run of two or more separators collapses to the first separator of
	// the run, so "Show..mkv" keeps its extension dot while "a__b" becomes
	// "a_b".
	separatorRun = regexp.MustCompile(`([_.\-])[_.\-]+`)
)

// CleanFileName applies link removal and banned-word removal to a working
// filename, normalizing separators after each enabled step.
func CleanFileName(name string, removeLinks bool, bannedWords []string) string {
	if removeLinks {
		name = urlPattern.ReplaceAllString(name, "")
		name = handlePattern.ReplaceAllString(name, "")
		name = bracketPattern.ReplaceAllString(name, "")
		name = collapseSeparators(name)
	}

	if len(bannedWords) > 0 {
		for _, word := range bannedWords {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
			if err != nil {
				slog.Warn("Skipping unusable banned word", "word", word, "error", err)
				continue
			}
			name = re.ReplaceAllString(name, "")
		}
		name = collapseSeparators(name)
	}

	return name
}

func collapseSeparators(s string) string {
	s = separatorRun.ReplaceAllString(s, "$1")
	return strings.Trim(s, "_.- \t")
}

// SplitTitle splits a cleaned filename into title and extension at the last
// dot. A name without a dot has no extension.
func SplitTitle(name string) (title, ext string) {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// FormatSize renders a byte count as binary megabytes, or "N/A" when the size
// is unknown.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// RenderTemplate substitutes the four supported placeholders. Every value is
// HTML-escaped before insertion so a hostile filename or caption cannot break
// the output markup. Unrecognized placeholder-like text is left untouched.
func RenderTemplate(template, fileName, fileTitle, fileSize, fileCaption string) string {
	r := strings.NewReplacer(
		"{file_name}", html.EscapeString(fileName),
		"{file_title}", html.EscapeString(fileTitle),
		"{file_size}", html.EscapeString(fileSize),
		"{file_caption}", html.EscapeString(fileCaption),
	)
	return r.Replace(template)
}
