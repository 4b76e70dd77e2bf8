package markup

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// StripMarkup removes the delimiters of every well-formed tag pair, all six
// families included, keeping the inner content. Families are stripped one
// after another so tags nested across families are all removed.
func StripMarkup(content string) string {
	stripped := content
	for _, family := range families {
		if !strings.Contains(stripped, family.closeMarker) {
			continue
		}
		stripped = family.pattern.ReplaceAllString(stripped, "${"+strconv.Itoa(family.contentGroup)+"}")
	}
	return strings.TrimSpace(stripped)
}

// ConvertToMarkup wraps text in a wiki-primary tag pair when requested and
// returns it unchanged otherwise.
func ConvertToMarkup(text string, opts interfaces.ConvertOptions) string {
	if opts.MakeWikiPrimary {
		return "[!wiki-primary]\n" + text + "\n[!end-wiki-primary]"
	}
	return text
}
