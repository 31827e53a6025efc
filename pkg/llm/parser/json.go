// Package parser extracts structured payloads from model output.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParse marks model output that could not be decoded into the expected shape.
var ErrParse = errors.New("malformed model output")

// ParseError carries the offending text alongside the decode failure.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	snippet := e.Text
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return fmt.Sprintf("%v: %v (output: %q)", ErrParse, e.Err, snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrParse) hold for every ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

var (
	openFence  = regexp.MustCompile("^```(?:json|JSON)?[ \t]*\r?\n")
	closeFence = regexp.MustCompile("\r?\n```[ \t]*$")
)

// CleanJSON strips a surrounding markdown code fence and whitespace.
// Models are told to return bare JSON but often wrap it anyway.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = openFence.ReplaceAllString(text, "")
	text = closeFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParseJSON cleans text and decodes it into v.
func ParseJSON(text string, v interface{}) error {
	cleaned := CleanJSON(text)
	if cleaned == "" {
		return &ParseError{Text: text, Err: errors.New("empty response")}
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ParseError{Text: text, Err: err}
	}
	return nil
}
