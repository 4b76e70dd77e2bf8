package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrSchemaInvalid    = errors.New("front matter schema invalid")
	ErrSchemaValidation = errors.New("front matter validation failed")
)

const schemaResource = "frontmatter.json"

// Issue is one failed constraint, located by JSON pointer.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	if !strings.HasPrefix(location, "#") {
		location = "#" + location
	}
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// FrontMatterError lists every issue found in one front matter block. It
// unwraps to ErrSchemaValidation.
type FrontMatterError struct {
	Issues []Issue
}

func (e *FrontMatterError) Error() string {
	if len(e.Issues) == 0 {
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

func (e *FrontMatterError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues returns the issues carried by err, or a single issue holding its
// message when err is not a FrontMatterError.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var fmErr *FrontMatterError
	if errors.As(err, &fmErr) {
		return fmErr.Issues
	}
	return []Issue{{Message: err.Error()}}
}

// Schema is a compiled front matter schema. A nil *Schema accepts everything.
type Schema struct {
	compiled *jsonschema.Schema
}

// ParseSchema compiles a JSON or YAML encoded JSON schema (draft 2020-12).
// Blank sources yield a nil schema.
func ParseSchema(source []byte) (*Schema, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(source, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks the raw front matter map against the schema.
func (s *Schema) Validate(frontMatter map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	instance, err := asJSON(frontMatter)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	err = s.compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return &FrontMatterError{Issues: leafIssues(verr)}
}

// asJSON round-trips values through encoding/json so YAML decoded values
// such as []string, time.Time and int reach the validator as JSON types.
func asJSON(values map[string]any) (any, error) {
	if values == nil {
		values = map[string]any{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func leafIssues(err *jsonschema.ValidationError) []Issue {
	if len(err.Causes) == 0 {
		return []Issue{{
			Location: strings.TrimSpace(err.InstanceLocation),
			Message:  strings.TrimSpace(err.Message),
		}}
	}
	var issues []Issue
	for _, cause := range err.Causes {
		issues = append(issues, leafIssues(cause)...)
	}
	return issues
}
