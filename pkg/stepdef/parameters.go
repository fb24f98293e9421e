// Package stepdef discovers step definitions in source files and compiles
// them into an index that step text can be matched against.
package stepdef

import (
	"regexp"

	cucumberexpressions "github.com/cucumber/cucumber-expressions/go/v18"
	"gitlab.com/tozd/go/errors"
)

// MakeParameterType wraps a name and its recognizing regexps into a
// parameter type for the expression engine. The matched text passes through
// verbatim (identity transform), the type is excluded from generated snippet
// suggestions, and it is preferred when matching regular expressions. Name
// uniqueness is the registry's concern, not validated here.
func MakeParameterType(name string, regexps []*regexp.Regexp) (*cucumberexpressions.ParameterType, error) {
	pt, err := cucumberexpressions.NewParameterType(
		name,
		regexps,
		"",
		func(args ...*string) interface{} {
			if len(args) == 0 || args[0] == nil {
				return nil
			}
			return *args[0]
		},
		false, // useForSnippets
		true,  // preferForRegexpMatch
		false, // useRegexpMatchAsStrongTypeHint
	)
	if err != nil {
		return nil, errors.Errorf("creating parameter type %q: %w", name, err)
	}
	return pt, nil
}
