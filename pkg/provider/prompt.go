package provider

import (
	"fmt"
	"strings"
)

// TreePrompt is the topic-generation form: one JSON object with the
// root topic, a description, and a first level of subtopics.
func TreePrompt(topic string) string {
	return fmt.Sprintf(`Generate a knowledge tree for the topic %q.

Respond with exactly one JSON object and nothing else:
{"topic": string, "description": string, "subtopics": [{"title": string, "description": string, "subtopics": []}]}

Rules:
- 4 to 7 subtopics covering the topic's main aspects.
- Every description is 1-3 short paragraphs separated by newline characters.
- Leave every subtopic's "subtopics" array empty; deeper levels are requested separately.`, topic)
}

// ExpandPrompt is the expansion form: the root topic plus the target
// node's title (and ancestry for disambiguation) yield a JSON array of
// child nodes.
func ExpandPrompt(rootTopic, nodeTitle string, ancestry []string) string {
	context := ""
	if len(ancestry) > 0 {
		context = fmt.Sprintf(" (reached via %s)", strings.Join(ancestry, " > "))
	}
	return fmt.Sprintf(`The root topic is %q. Expand the node %q%s.

Respond with exactly one JSON array and nothing else:
[{"title": string, "description": string, "subtopics": []}]

Rules:
- 3 to 6 child subtopics of %q, specific to it within the root topic.
- Every description is 1-3 short paragraphs separated by newline characters.
- Leave every "subtopics" array empty.`, rootTopic, nodeTitle, context, nodeTitle)
}
