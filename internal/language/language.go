// Package language holds the fixed registry of programming languages a
// session can translate between, and the file extension used when a
// translation is saved to disk.
package language

import "strings"

// Option is a selectable programming language. Options are compared by ID.
// The zero value means no language has been selected.
type Option struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// IsZero reports whether no language is selected.
func (o Option) IsZero() bool {
	return o.ID == ""
}

// Equal reports whether both options name the same language.
func (o Option) Equal(other Option) bool {
	return o.ID == other.ID
}

func (o Option) String() string {
	if o.DisplayName != "" {
		return o.DisplayName
	}
	return o.ID
}

var (
	Java       = Option{ID: "java", DisplayName: "Java"}
	Python     = Option{ID: "python", DisplayName: "Python"}
	JavaScript = Option{ID: "javascript", DisplayName: "JavaScript"}
	CSharp     = Option{ID: "c#", DisplayName: "C#"}
	CPP        = Option{ID: "c++", DisplayName: "C++"}
	C          = Option{ID: "c", DisplayName: "C"}
)

// DefaultInput and DefaultOutput seed a new session.
var (
	DefaultInput  = Java
	DefaultOutput = Python
)

var registry = []Option{Java, Python, JavaScript, CSharp, CPP, C}

// extensions maps an option ID to the file extension of a saved translation.
var extensions = map[string]string{
	"java":       "java",
	"python":     "py",
	"c++":        "cpp",
	"javascript": "js",
	"c#":         "cs",
	"c":          "c",
}

// FallbackExtension is used for languages without an extensions entry.
const FallbackExtension = "txt"

// DownloadBaseName is the file name, without extension, of a saved translation.
const DownloadBaseName = "translated_code"

// All returns the registry in display order.
func All() []Option {
	out := make([]Option, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the option registered under id. Matching ignores case and
// surrounding whitespace.
func Lookup(id string) (Option, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, o := range registry {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// IDs returns the registered option IDs in display order.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for _, o := range registry {
		ids = append(ids, o.ID)
	}
	return ids
}

// Extension returns the file extension for id, or FallbackExtension.
func Extension(id string) string {
	if ext, ok := extensions[id]; ok {
		return ext
	}
	return FallbackExtension
}

// DownloadFileName returns the name a translation into id is saved under,
// for example "translated_code.py" for python.
func DownloadFileName(id string) string {
	return DownloadBaseName + "." + Extension(id)
}
