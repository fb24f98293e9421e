// Package language enumerates the source languages that step definitions can
// be written in, and holds everything that is per-language: the tree-sitter
// grammar, the file extensions, the step-definition query, and the blacklist
// of expressions stripped before matching.
//
// Adding a language means adding a Name constant and filling in its slot in
// each table below; the array lengths make every table exhaustive over the
// enum at compile time.
package language

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"gitlab.com/tozd/go/errors"
)

// Name identifies a supported source language.
type Name int

const (
	TSX Name = iota
	Java
	CSharp
	PHP
	Python
	Ruby
	Rust
	JavaScript

	nameCount // sentinel, keep last
)

var names = [nameCount]string{
	TSX:        "tsx",
	Java:       "java",
	CSharp:     "c_sharp",
	PHP:        "php",
	Python:     "python",
	Ruby:       "ruby",
	Rust:       "rust",
	JavaScript: "javascript",
}

func (n Name) String() string {
	if n < 0 || n >= nameCount {
		return "unknown"
	}
	return names[n]
}

// ParseName resolves a language tag such as "tsx" or "c_sharp".
func ParseName(s string) (Name, error) {
	for n, name := range names {
		if name == s {
			return Name(n), nil
		}
	}
	return 0, errors.Errorf("unsupported language: %q", s)
}

// All returns every supported language in enum order.
func All() []Name {
	all := make([]Name, nameCount)
	for i := range all {
		all[i] = Name(i)
	}
	return all
}

var grammars = [nameCount]func() *sitter.Language{
	TSX:        tsx.GetLanguage,
	Java:       java.GetLanguage,
	CSharp:     csharp.GetLanguage,
	PHP:        php.GetLanguage,
	Python:     python.GetLanguage,
	Ruby:       ruby.GetLanguage,
	Rust:       rust.GetLanguage,
	JavaScript: javascript.GetLanguage,
}

// Grammar returns the tree-sitter grammar for the language.
func (n Name) Grammar() *sitter.Language {
	return grammars[n]()
}

var extensions = [nameCount][]string{
	TSX:        {".ts", ".tsx"},
	Java:       {".java"},
	CSharp:     {".cs"},
	PHP:        {".php"},
	Python:     {".py"},
	Ruby:       {".rb"},
	Rust:       {".rs"},
	JavaScript: {".js", ".jsx", ".mjs", ".cjs"},
}

// ForFile resolves the language for a source file from its extension.
func ForFile(path string) (Name, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for n, exts := range extensions {
		for _, e := range exts {
			if e == ext {
				return Name(n), true
			}
		}
	}
	return 0, false
}
