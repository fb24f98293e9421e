package feature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helgardferreira/cucumber-language-service/pkg/feature"
)

const featureDoc = `Feature: Banking

  Background:
    Given an empty account

  Scenario: Deposit
    When I deposit 42 dollars
    Then my balance is 42 dollars

  Rule: Overdraft

    Scenario: Withdrawal beyond balance
      When I withdraw 100 dollars
      Then the withdrawal is rejected
`

func TestStepAt(t *testing.T) {
	tests := []struct {
		name string
		line int
		want string
	}{
		{name: "background step", line: 3, want: "an empty account"},
		{name: "scenario when", line: 6, want: "I deposit 42 dollars"},
		{name: "scenario then", line: 7, want: "my balance is 42 dollars"},
		{name: "step inside rule", line: 12, want: "I withdraw 100 dollars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := feature.StepAt(featureDoc, tt.line)
			require.NoError(t, err)
			require.NotNil(t, step)
			assert.Equal(t, tt.want, step.Text)
			assert.Equal(t, tt.line, step.Line)
		})
	}
}

func TestStepAt_NoStep(t *testing.T) {
	for _, line := range []int{0, 1, 5, 9} {
		step, err := feature.StepAt(featureDoc, line)
		require.NoError(t, err)
		assert.Nil(t, step, "line %d", line)
	}
}

func TestStepAt_BrokenDocument(t *testing.T) {
	_, err := feature.StepAt("# language: nosuch\nFeature: x\n", 1)
	assert.Error(t, err)
}

func TestStepAt_EmptyDocument(t *testing.T) {
	step, err := feature.StepAt("", 0)
	require.NoError(t, err)
	assert.Nil(t, step)
}
