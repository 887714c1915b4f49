// Package postprocess removes common LLM artifacts from translated code.
//
// It is applied only to responses received in full (the JSON endpoint);
// streamed output is appended verbatim and never rewritten.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean removes LLM artifacts from code in three phases and returns the
// result without surrounding blank lines:
//  1. Thinking / reasoning block removal
//  2. Introductory echo removal ("Here is the translated code:")
//  3. Markdown code fence removal
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeInstructionEchoes(text)
	text = removeCodeFence(text)
	return trimBlankLines(text)
}

// --- Phase 1: thinking blocks ---

// thinkingBlockRe matches complete <thinking>…</thinking> style blocks.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
// Flags: i = case-insensitive, s = dot matches newline.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// truncatedThinkingRe matches an opened thinking tag whose closing tag is
// missing (the model was cut off mid-thought).
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return trimBlankLines(text)
}

// --- Phase 2: instruction echoes ---

// echoPatterns match introductory phrases that LLMs sometimes prepend even
// when instructed not to. Each pattern is anchored to the start of the string
// and requires a colon to reduce false positives on legitimate code.
var echoPatterns = []*regexp.Regexp{
	// "Here is / Here's [the] [translated] [python] code:"
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)?(?: translated)?(?: [\w#+]+)? (?:code|translation|version)\s*:`),
	// "[The] translated [python] code:" / "Translation:"
	regexp.MustCompile(`(?i)^(?:the )?(?:translated(?: [\w#+]+)? code|translation)\s*:`),
	// "Certainly / Sure / Of course[,] here is [the] translated code:"
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.!]? here(?:'s| is)(?: the)?(?: translated)?(?: [\w#+]+)? (?:code|translation|version)\s*:`),
}

func removeInstructionEchoes(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(trimmed); loc != nil && loc[0] == 0 {
			return trimBlankLines(trimmed[loc[1]:])
		}
	}
	return text
}

// --- Phase 3: code fences ---

// fenceRe matches text that is entirely one fenced block, with an optional
// info string such as "python" or "c++".
var fenceRe = regexp.MustCompile("(?s)^```[^\\n`]*\\n(.*?)\\n?```$")

func removeCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return text
}

// trimBlankLines drops leading and trailing whitespace-only lines but keeps
// the indentation of the first code line.
func trimBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return ""
	}
	lines[end-1] = strings.TrimRight(lines[end-1], " \t\r")
	return strings.Join(lines[start:end], "\n")
}
