package markup

import (
	"regexp"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

var (
	consensusPattern   = regexp.MustCompile(`(?s)\[!consensus:\s*(\d+(?:\.\d+)?)%?\](.*?)\[!end-consensus\]`)
	debatePattern      = regexp.MustCompile(`(?s)\[!debate-active:\s*([^\]]+)\](.*?)\[!end-debate\]`)
	synthesisPattern   = regexp.MustCompile(`(?s)\[!synthesis\s+from:\s*([^\]]+)\](.*?)\[!end-synthesis\]`)
	wikiPrimaryPattern = regexp.MustCompile(`(?s)\[!wiki-primary\](.*?)\[!end-wiki-primary\]`)
	threadOnlyPattern  = regexp.MustCompile(`(?s)\[!thread-only\](.*?)\[!end-thread-only\]`)
	logicErrorPattern  = regexp.MustCompile(`(?s)\[!logic-error:\s*([^\]]+)\](.*?)\[!end-logic-error\]`)

	consensusOpenPattern = regexp.MustCompile(`\[!consensus:\s*(\d+(?:\.\d+)?)%?\]`)
)

// tagFamily describes one tag pair of the grammar. paramGroup is zero for
// families without an inline parameter.
type tagFamily struct {
	name         interfaces.TagFamily
	kind         interfaces.BlockKind
	pattern      *regexp.Regexp
	openPrefix   string
	closeMarker  string
	paramGroup   int
	contentGroup int
	emitsBlocks  bool
}

// families is ordered by tokenizer pass. The order decides block ordering
// in ParsedContent and must not change.
var families = []tagFamily{
	{
		name:         interfaces.FamilyConsensus,
		kind:         interfaces.BlockConsensus,
		pattern:      consensusPattern,
		openPrefix:   "[!consensus:",
		closeMarker:  "[!end-consensus]",
		paramGroup:   1,
		contentGroup: 2,
		emitsBlocks:  true,
	},
	{
		name:         interfaces.FamilyDebate,
		kind:         interfaces.BlockDebate,
		pattern:      debatePattern,
		openPrefix:   "[!debate-active:",
		closeMarker:  "[!end-debate]",
		paramGroup:   1,
		contentGroup: 2,
		emitsBlocks:  true,
	},
	{
		name:         interfaces.FamilySynthesis,
		kind:         interfaces.BlockSynthesis,
		pattern:      synthesisPattern,
		openPrefix:   "[!synthesis",
		closeMarker:  "[!end-synthesis]",
		paramGroup:   1,
		contentGroup: 2,
		emitsBlocks:  true,
	},
	{
		name:         interfaces.FamilyWikiPrimary,
		kind:         interfaces.BlockWikiPrimary,
		pattern:      wikiPrimaryPattern,
		openPrefix:   "[!wiki-primary]",
		closeMarker:  "[!end-wiki-primary]",
		contentGroup: 1,
		emitsBlocks:  true,
	},
	{
		name:         interfaces.FamilyThreadOnly,
		kind:         interfaces.BlockThreadOnly,
		pattern:      threadOnlyPattern,
		openPrefix:   "[!thread-only]",
		closeMarker:  "[!end-thread-only]",
		contentGroup: 1,
		emitsBlocks:  true,
	},
	{
		// TODO: emit a block once the logic-error block kind is defined.
		name:         interfaces.FamilyLogicError,
		pattern:      logicErrorPattern,
		openPrefix:   "[!logic-error:",
		closeMarker:  "[!end-logic-error]",
		paramGroup:   1,
		contentGroup: 2,
	},
}

// group returns the text of submatch n given a FindStringSubmatchIndex location.
func group(source string, loc []int, n int) string {
	if n <= 0 || 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return source[loc[2*n]:loc[2*n+1]]
}
