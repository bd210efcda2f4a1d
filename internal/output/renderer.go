// Package output renders command results as plain text, JSON or YAML.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const (
	writerNotConfiguredMessageConstant = "output writer not configured"
	unsupportedFormatTemplateConstant  = "unsupported output format %q"
	encodeJSONErrorTemplateConstant    = "unable to encode JSON output: %w"
	encodeYAMLErrorTemplateConstant    = "unable to encode YAML output: %w"
	writeOutputErrorTemplateConstant   = "unable to write output: %w"
	jsonIndentConstant                 = "  "
	yamlIndentWidthConstant            = 2
	lineTerminatorConstant             = "\n"
)

// ErrWriterNotConfigured indicates a nil writer was supplied to NewRenderer.
var ErrWriterNotConfigured = errors.New(writerNotConfiguredMessageConstant)

// TextRenderable is implemented by results that provide their own plain-text form.
type TextRenderable interface {
	TextLines() []string
}

// Formats lists the supported formats in display order.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat converts a user supplied name into a Format. An empty name selects FormatText.
func ParseFormat(value string) (Format, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	switch Format(normalizedValue) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, value)
	}
}

// Renderer writes results to a writer in one format.
type Renderer struct {
	writer io.Writer
	format Format
}

// NewRenderer constructs a Renderer. format is matched case-insensitively and defaults to FormatText.
func NewRenderer(writer io.Writer, format Format) (*Renderer, error) {
	if writer == nil {
		return nil, ErrWriterNotConfigured
	}
	parsedFormat, formatError := ParseFormat(string(format))
	if formatError != nil {
		return nil, formatError
	}
	return &Renderer{writer: writer, format: parsedFormat}, nil
}

// Format reports the configured format.
func (renderer *Renderer) Format() Format {
	return renderer.format
}

// Render writes value. In text mode values implementing TextRenderable are written line by line
// and anything else is printed with fmt.
func (renderer *Renderer) Render(value any) error {
	switch renderer.format {
	case FormatJSON:
		encoded, encodeError := json.MarshalIndent(value, "", jsonIndentConstant)
		if encodeError != nil {
			return fmt.Errorf(encodeJSONErrorTemplateConstant, encodeError)
		}
		return renderer.write(string(encoded) + lineTerminatorConstant)
	case FormatYAML:
		var builder strings.Builder
		encoder := yaml.NewEncoder(&builder)
		encoder.SetIndent(yamlIndentWidthConstant)
		if encodeError := encoder.Encode(value); encodeError != nil {
			return fmt.Errorf(encodeYAMLErrorTemplateConstant, encodeError)
		}
		if closeError := encoder.Close(); closeError != nil {
			return fmt.Errorf(encodeYAMLErrorTemplateConstant, closeError)
		}
		return renderer.write(builder.String())
	default:
		renderable, isRenderable := value.(TextRenderable)
		if !isRenderable {
			return renderer.write(fmt.Sprintln(value))
		}
		var builder strings.Builder
		for _, line := range renderable.TextLines() {
			builder.WriteString(line)
			builder.WriteString(lineTerminatorConstant)
		}
		return renderer.write(builder.String())
	}
}

func (renderer *Renderer) write(content string) error {
	if _, writeError := io.WriteString(renderer.writer, content); writeError != nil {
		return fmt.Errorf(writeOutputErrorTemplateConstant, writeError)
	}
	return nil
}
