package main

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const (
	fence      = "---\n"
	blockStart = "<!-- yogavrita:sessions:start -->"
	blockEnd   = "<!-- yogavrita:sessions:end -->"
)

type frontmatter struct {
	Date          string   `yaml:"date"`
	Day           string   `yaml:"day"`
	CurrentStreak int      `yaml:"current_streak"`
	LongestStreak int      `yaml:"longest_streak"`
	TotalSeconds  int      `yaml:"total_seconds"`
	Sessions      []string `yaml:"sessions"`
}

// note is one journal file: YAML frontmatter, then free text the user owns
// with a generated sessions block somewhere inside it.
type note struct {
	meta frontmatter
	body string
}

func newNote(day string) note {
	return note{body: "# " + day + " practice\n"}
}

func parseNote(content string) (note, error) {
	if !strings.HasPrefix(content, fence) {
		return note{body: content}, nil
	}
	rest := strings.TrimPrefix(content, fence)
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return note{}, fmt.Errorf("journal note: frontmatter is not closed")
	}
	var n note
	if err := yaml.Unmarshal([]byte(rest[:idx]), &n.meta); err != nil {
		return note{}, fmt.Errorf("journal note frontmatter: %w", err)
	}
	n.body = rest[idx+len("\n"+fence):]
	return n, nil
}

func (n note) render() (string, error) {
	raw, err := yaml.Marshal(n.meta)
	if err != nil {
		return "", fmt.Errorf("encode journal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence)
	buf.Write(raw)
	buf.WriteString(fence)
	if !strings.HasPrefix(n.body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(n.body)
	return buf.String(), nil
}

func (n note) hasSession(recordID string) bool {
	for _, entry := range n.meta.Sessions {
		if strings.Contains(entry, recordID) {
			return true
		}
	}
	return false
}

// syncBlock rewrites the sessions block from the frontmatter list, appending
// the block when the user removed it.
func (n *note) syncBlock() {
	lines := make([]string, len(n.meta.Sessions))
	for i, entry := range n.meta.Sessions {
		lines[i] = "- " + entry
	}
	block := blockStart + "\n" + strings.Join(lines, "\n") + "\n" + blockEnd

	start := strings.Index(n.body, blockStart)
	end := strings.Index(n.body, blockEnd)
	switch {
	case start >= 0 && end > start:
		n.body = n.body[:start] + block + n.body[end+len(blockEnd):]
	case strings.TrimSpace(n.body) == "":
		n.body = block + "\n"
	case strings.HasSuffix(n.body, "\n"):
		n.body += "\n" + block + "\n"
	default:
		n.body += "\n\n" + block + "\n"
	}
}

// fileName is <date>-<day>.md with the day lowercased and anything outside
// letters and digits collapsed to a dash.
func fileName(date, day string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(day) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "practice"
	}
	return date + "-" + name + ".md"
}
