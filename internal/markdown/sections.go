package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
)

const leadAnchor = "_lead"

var (
	atxHeadingPattern = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
	fencePattern      = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

type rawSection struct {
	title    string
	anchor   string
	content  string
	level    int
	depth    int
	parent   int
	position int
}

type splitResult struct {
	title    string
	sections []rawSection
}

// splitSections cuts body into sections at ATX headings of level base and
// deeper. Text before the first such heading becomes a lead section when it
// is not blank. The first heading shallower than base, when it appears
// before any section heading, is taken as the document title. Headings
// inside fenced code blocks are ignored.
func splitSections(body string, base int) splitResult {
	var (
		result  splitResult
		current *rawSection
		buf     strings.Builder
		fence   string
		stack   []int
		counts  = map[int]int{}
		anchors = map[string]int{}
	)

	flush := func() {
		content := strings.TrimSpace(buf.String())
		buf.Reset()
		if current == nil {
			if content == "" {
				return
			}
			result.sections = append(result.sections, rawSection{
				content:  content,
				parent:   -1,
				position: counts[-1],
			})
			counts[-1]++
			return
		}
		current.content = content
		result.sections = append(result.sections, *current)
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")

		if marker := fencePattern.FindStringSubmatch(line); marker != nil {
			switch {
			case fence == "":
				fence = marker[1]
			case closesFence(fence, marker[1], line[len(marker[0]):]):
				fence = ""
			}
		}

		match := atxHeadingPattern.FindStringSubmatch(line)
		if fence != "" || match == nil {
			buf.WriteString(line)
			buf.WriteByte('\n')
			continue
		}

		level := len(match[1])
		title := strings.TrimSpace(match[2])
		if level < base {
			if result.title == "" && current == nil && len(result.sections) == 0 && strings.TrimSpace(buf.String()) == "" {
				result.title = title
				continue
			}
			buf.WriteString(line)
			buf.WriteByte('\n')
			continue
		}

		flush()

		for len(stack) > 0 && result.sections[stack[len(stack)-1]].level >= level {
			stack = stack[:len(stack)-1]
		}
		parent, depth := -1, 0
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
			depth = result.sections[parent].depth + 1
		}

		current = &rawSection{
			title:    title,
			anchor:   uniqueAnchor(title, len(result.sections), anchors),
			level:    level,
			depth:    depth,
			parent:   parent,
			position: counts[parent],
		}
		counts[parent]++
		stack = append(stack, len(result.sections))
	}
	flush()

	return result
}

func uniqueAnchor(title string, ordinal int, seen map[string]int) string {
	anchor, err := slug.Normalize(title)
	if err != nil || anchor == "" {
		anchor = "section-" + strconv.Itoa(ordinal+1)
	}
	seen[anchor]++
	if n := seen[anchor]; n > 1 {
		anchor = anchor + "-" + strconv.Itoa(n)
	}
	return anchor
}

// closesFence reports whether run ends the fence opened by open. The closer
// repeats the opening character at least as many times and has no info string.
func closesFence(open, run, rest string) bool {
	return run[0] == open[0] && len(run) >= len(open) && strings.TrimSpace(rest) == ""
}
