// Package export implements the report export pipeline: template loading and
// parameter extraction, data binding and DOCX/PDF materialization.
package export

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// minWordTemplateSize is the smallest byte size accepted as a plausible DOCX
// container. Anything below it is treated as malformed.
const minWordTemplateSize = 100

// TemplateLoadError reports a failed template fetch or read.
type TemplateLoadError struct {
	Ref string
	Err error
}

func (e *TemplateLoadError) Error() string {
	return fmt.Sprintf("load template %s: %v", e.Ref, e.Err)
}

func (e *TemplateLoadError) Unwrap() error { return e.Err }

// TemplateFormatError reports a template resource too small or malformed to
// be usable.
type TemplateFormatError struct {
	Ref  string
	Size int
}

func (e *TemplateFormatError) Error() string {
	return fmt.Sprintf("template %s is not a usable template (%d bytes)", e.Ref, e.Size)
}

// Template is a resolved template reference. The set of implementations is
// closed: NoTemplate, PlainTextTemplate and WordTemplate.
type Template interface {
	// Ref returns the reference the template was resolved from.
	Ref() string
	// Parameters returns the deduplicated parameter names the template
	// declares, in order of first appearance.
	Parameters() []string
}

// NoTemplate selects the template-free direct layout.
type NoTemplate struct{}

func (NoTemplate) Ref() string          { return "" }
func (NoTemplate) Parameters() []string { return nil }

// PlainTextTemplate is a text file using {name} placeholders.
type PlainTextTemplate struct {
	ref  string
	Body string
}

func (t *PlainTextTemplate) Ref() string { return t.ref }

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z][a-zA-Z0-9_]*(?:\.[a-zA-Z][a-zA-Z0-9_]*)*)\}`)

// Parameters scans the body for {name} and {name.nested} placeholders.
func (t *PlainTextTemplate) Parameters() []string {
	seen := make(map[string]bool)
	var params []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(t.Body, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		params = append(params, name)
	}
	return params
}

// WordTemplate is an uploaded DOCX resource. Its structure is not inspected;
// it is assumed to use the canonical parameter vocabulary of the binder.
type WordTemplate struct {
	ref string
	Raw []byte
}

func (t *WordTemplate) Ref() string { return t.ref }

// Parameters returns the fixed canonical parameter set.
func (t *WordTemplate) Parameters() []string {
	params := []string{
		"userName",
		"userCompany",
		"currentDate",
		"weekNumber",
		"weekYear",
		"weekDateRange",
		"totalHours",
		"avgHoursPerDay",
	}
	for _, day := range weekdayKeys {
		params = append(params, day+".activities", day+".hours")
	}
	return params
}

// Loader fetches a template resource by reference.
type Loader interface {
	Load(ref string) ([]byte, error)
}

// ResourceLoader resolves http(s) references over the network and everything
// else as a file below Dir.
type ResourceLoader struct {
	Dir    string
	Client *http.Client
}

// NewResourceLoader creates a loader rooted at the given template directory.
func NewResourceLoader(dir string) *ResourceLoader {
	return &ResourceLoader{Dir: dir, Client: http.DefaultClient}
}

// Load fetches the raw template bytes. Failures come back as
// *TemplateLoadError.
func (l *ResourceLoader) Load(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, err := l.Client.Get(ref)
		if err != nil {
			return nil, &TemplateLoadError{Ref: ref, Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, &TemplateLoadError{Ref: ref, Err: fmt.Errorf("unexpected status %s", resp.Status)}
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TemplateLoadError{Ref: ref, Err: err}
		}
		return data, nil
	}

	name := filepath.Base(filepath.Clean(ref))
	data, err := os.ReadFile(filepath.Join(l.Dir, name))
	if err != nil {
		return nil, &TemplateLoadError{Ref: ref, Err: err}
	}
	return data, nil
}

// ResolveTemplate loads a reference and classifies it by extension. An empty
// reference yields NoTemplate. Word resources below the plausible-DOCX size
// threshold yield *TemplateFormatError.
func ResolveTemplate(loader Loader, ref string) (Template, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return NoTemplate{}, nil
	}

	data, err := loader.Load(trimmed)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(strings.ToLower(trimmed), ".txt") {
		return &PlainTextTemplate{ref: trimmed, Body: string(data)}, nil
	}

	if len(data) < minWordTemplateSize {
		return nil, &TemplateFormatError{Ref: trimmed, Size: len(data)}
	}
	return &WordTemplate{ref: trimmed, Raw: data}, nil
}
