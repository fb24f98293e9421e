// Package feature reads Gherkin documents and answers positional queries
// about their steps.
package feature

import (
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"gitlab.com/tozd/go/errors"
)

// Step is one executable step in a feature file.
type Step struct {
	// Keyword is the literal keyword including trailing space, e.g. "Given ".
	Keyword string
	// Text is the step text after the keyword.
	Text string
	// Line is the zero-based line the step starts on.
	Line int
}

// StepAt parses content as a Gherkin document and returns the step starting
// on the given zero-based line, or nil when that line holds no step.
func StepAt(content string, line int) (*Step, error) {
	doc, err := gherkin.ParseGherkinDocument(strings.NewReader(content), (&messages.Incrementing{}).NewId)
	if err != nil {
		return nil, errors.Errorf("parsing feature document: %w", err)
	}
	if doc.Feature == nil {
		return nil, nil
	}

	for _, step := range collectSteps(doc.Feature) {
		if step.Location != nil && int(step.Location.Line) == line+1 {
			return &Step{
				Keyword: step.Keyword,
				Text:    step.Text,
				Line:    line,
			}, nil
		}
	}
	return nil, nil
}

func collectSteps(feature *messages.Feature) []*messages.Step {
	var steps []*messages.Step
	for _, child := range feature.Children {
		switch {
		case child.Background != nil:
			steps = append(steps, child.Background.Steps...)
		case child.Scenario != nil:
			steps = append(steps, child.Scenario.Steps...)
		case child.Rule != nil:
			for _, ruleChild := range child.Rule.Children {
				switch {
				case ruleChild.Background != nil:
					steps = append(steps, ruleChild.Background.Steps...)
				case ruleChild.Scenario != nil:
					steps = append(steps, ruleChild.Scenario.Steps...)
				}
			}
		}
	}
	return steps
}
