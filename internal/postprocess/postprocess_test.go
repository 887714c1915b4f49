package postprocess

import "testing"

func TestRemoveThinkingBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no thinking blocks",
			input:    "def add(a, b):\n    return a + b",
			expected: "def add(a, b):\n    return a + b",
		},
		{
			name:     "simple thinking block",
			input:    "x = 1<thinking>Let me translate this</thinking>\ny = 2",
			expected: "x = 1\ny = 2",
		},
		{
			name:     "reasoning block",
			input:    "<reasoning>Java int maps to Python int</reasoning>\nx = 1",
			expected: "x = 1",
		},
		{
			name:     "multiple thinking blocks",
			input:    "<think>First</think>pass<think>Second</think>",
			expected: "pass",
		},
		{
			name:     "truncated thinking block (no closing)",
			input:    "<thinking>Translation in progress",
			expected: "",
		},
		{
			name:     "truncated thinking in middle",
			input:    "x = 1\n<thinking>Incomplete",
			expected: "x = 1",
		},
		{
			name:     "case insensitive",
			input:    "<THINKING>loud</THINKING>ok",
			expected: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeThinkingBlocks(tt.input); got != tt.expected {
				t.Errorf("removeThinkingBlocks(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveInstructionEchoes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no echo",
			input:    "print('hi')",
			expected: "print('hi')",
		},
		{
			name:     "here is the translated python code",
			input:    "Here is the translated Python code:\nprint('hi')",
			expected: "print('hi')",
		},
		{
			name:     "here's the code",
			input:    "Here's the code:\nprint('hi')",
			expected: "print('hi')",
		},
		{
			name:     "translated c++ code",
			input:    "Translated C++ code:\nint x = 0;",
			expected: "int x = 0;",
		},
		{
			name:     "sure prefix",
			input:    "Sure, here is the translated code:\nx = 1",
			expected: "x = 1",
		},
		{
			name:     "colon inside code is kept",
			input:    "def f(): pass",
			expected: "def f(): pass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeInstructionEchoes(tt.input); got != tt.expected {
				t.Errorf("removeInstructionEchoes(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fence with language",
			input:    "```python\ndef f():\n    pass\n```",
			expected: "def f():\n    pass",
		},
		{
			name:     "fence without language",
			input:    "```\nint x;\n```",
			expected: "int x;",
		},
		{
			name:     "surrounding whitespace",
			input:    "\n```c++\nint x;\n```\n",
			expected: "int x;",
		},
		{
			name:     "no fence",
			input:    "int x;",
			expected: "int x;",
		},
		{
			name:     "fence not wrapping everything",
			input:    "see:\n```\nint x;\n```",
			expected: "see:\n```\nint x;\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeCodeFence(tt.input); got != tt.expected {
				t.Errorf("removeCodeFence(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain code untouched",
			input:    "def add(a, b):\n    return a + b",
			expected: "def add(a, b):\n    return a + b",
		},
		{
			name:     "keeps first line indentation",
			input:    "\n\n    return a + b\n\n",
			expected: "    return a + b",
		},
		{
			name:     "all phases",
			input:    "<think>hmm</think>\nHere is the translated code:\n```python\ndef add(a, b):\n    return a + b\n```\n",
			expected: "def add(a, b):\n    return a + b",
		},
		{
			name:     "only whitespace",
			input:    " \n\t\n",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
