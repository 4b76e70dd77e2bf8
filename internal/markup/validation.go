package markup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// ValidateMarkup reports tag balance problems and out of range consensus
// percentages. Balance is checked by counting open prefixes and close markers
// per family, so an unclosed tag yields a count mismatch rather than a
// location. The result is advisory; Parse never requires it.
func ValidateMarkup(content string) interfaces.ValidationResult {
	errs := []string{}

	for _, family := range families {
		opens := strings.Count(content, family.openPrefix)
		closes := strings.Count(content, family.closeMarker)
		if opens != closes {
			errs = append(errs, fmt.Sprintf("Mismatched tags: %s (%d) and %s (%d)",
				family.openPrefix, opens, family.closeMarker, closes))
		}
	}

	for _, loc := range consensusOpenPattern.FindAllStringSubmatchIndex(content, -1) {
		percentage := parsePercentage(group(content, loc, 1))
		if percentage < 0 || percentage > 100 {
			errs = append(errs, fmt.Sprintf("Invalid consensus percentage: %s%% (must be 0-100)",
				strconv.FormatFloat(percentage, 'f', -1, 64)))
		}
	}

	return interfaces.ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
