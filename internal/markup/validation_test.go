package markup

import (
	"math"
	"strings"
	"testing"

	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

func TestValidateMarkup_MissingCloseTag(t *testing.T) {
	result := ValidateMarkup("[!wiki-primary]text")

	if result.IsValid {
		t.Fatal("expected unclosed tag to be invalid")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Errors)
	}
	want := "Mismatched tags: [!wiki-primary] (1) and [!end-wiki-primary] (0)"
	if result.Errors[0] != want {
		t.Fatalf("unexpected error\n got: %s\nwant: %s", result.Errors[0], want)
	}
}

func TestValidateMarkup_ConsensusOutOfRange(t *testing.T) {
	result := ValidateMarkup("[!consensus:150%]too sure[!end-consensus] [!consensus:100.5]x[!end-consensus]")

	if result.IsValid || len(result.Errors) != 2 {
		t.Fatalf("expected two range errors, got %v", result.Errors)
	}
	if result.Errors[0] != "Invalid consensus percentage: 150% (must be 0-100)" {
		t.Fatalf("unexpected first error %q", result.Errors[0])
	}
	if result.Errors[1] != "Invalid consensus percentage: 100.5% (must be 0-100)" {
		t.Fatalf("unexpected second error %q", result.Errors[1])
	}
}

func TestValidateMarkup_WellFormedDocument(t *testing.T) {
	result := ValidateMarkup(mustReadFile(t, "discussion_input.txt"))

	if !result.IsValid {
		t.Fatalf("expected fixture to validate, got %v", result.Errors)
	}
	if result.Errors == nil {
		t.Fatal("expected an empty, non-nil error list")
	}
}

func TestValidateMarkup_StrayCloseMarker(t *testing.T) {
	result := ValidateMarkup("done[!end-debate]")

	if len(result.Errors) != 1 || result.Errors[0] != "Mismatched tags: [!debate-active: (0) and [!end-debate] (1)" {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
}

func TestValidateMarkup_ConsensusBeyondFloatRange(t *testing.T) {
	input := "[!consensus:1" + strings.Repeat("0", 400) + "%]x[!end-consensus]"

	result := ValidateMarkup(input)
	if result.IsValid || len(result.Errors) != 1 {
		t.Fatalf("expected one range error, got %v", result.Errors)
	}
	if result.Errors[0] != "Invalid consensus percentage: +Inf% (must be 0-100)" {
		t.Fatalf("unexpected error %q", result.Errors[0])
	}

	attrs := Parse(input).Blocks[0].Attributes.(interfaces.ConsensusAttributes)
	if !math.IsInf(attrs.Level, 1) {
		t.Fatalf("expected infinite level, got %v", attrs.Level)
	}
}
