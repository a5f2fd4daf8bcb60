package provider

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/knowtree/pkg/model"
)

// ExtractJSON strips an optional fenced code block from a model
// response and returns the JSON payload. If no fence is found it falls
// back to the outermost bare JSON value. Returns the trimmed input when
// neither applies, leaving the decode step to fail with context.
func ExtractJSON(response string) string {
	startMarkers := []string{"```json\n", "```json\r\n", "```\n", "```\r\n"}
	const endMarker = "```"

	for _, startMarker := range startMarkers {
		startIdx := strings.Index(response, startMarker)
		if startIdx == -1 {
			continue
		}
		contentStart := startIdx + len(startMarker)
		remaining := response[contentStart:]
		endIdx := strings.Index(remaining, endMarker)
		if endIdx == -1 {
			continue
		}
		return strings.TrimSpace(remaining[:endIdx])
	}

	if payload, ok := bareValue(response, '{', '}'); ok {
		return payload
	}
	if payload, ok := bareValue(response, '[', ']'); ok {
		return payload
	}
	return strings.TrimSpace(response)
}

func bareValue(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// ParseTree decodes a topic-generation response into a tree.
func ParseTree(response string) (*model.KnowledgeTree, error) {
	payload := ExtractJSON(response)
	var tree model.KnowledgeTree
	if err := json.Unmarshal([]byte(payload), &tree); err != nil {
		return nil, &ParseError{Raw: response, Err: err}
	}
	if err := tree.Validate(); err != nil {
		return nil, &ParseError{Raw: response, Err: err}
	}
	return &tree, nil
}

// ParseChildren decodes an expansion response into a child list.
func ParseChildren(response string) ([]model.KnowledgeNode, error) {
	payload := ExtractJSON(response)
	var children []model.KnowledgeNode
	if err := json.Unmarshal([]byte(payload), &children); err != nil {
		return nil, &ParseError{Raw: response, Err: err}
	}
	for i := range children {
		if err := children[i].Validate(); err != nil {
			return nil, &ParseError{Raw: response, Err: fmt.Errorf("child %d: %w", i, err)}
		}
	}
	return children, nil
}
