package language_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helgardferreira/cucumber-language-service/pkg/language"
)

func TestStripBlacklistedExpressions_TSX(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "single decorator before exported class",
			content: "@foo\nexport class Bar {}",
			want:    "export class Bar {}",
		},
		{
			name:    "decorator with arguments",
			content: "@binding(Given, When, Then)\nclass Steps {}",
			want:    "class Steps {}",
		},
		{
			name:    "decorator with type parameters and arguments",
			content: "@fixture<CustomWorld>(CustomWorld)\nexport class Steps {}",
			want:    "export class Steps {}",
		},
		{
			name:    "stacked decorators",
			content: "@injectable()\n@binding()\nexport class Steps {}",
			want:    "export class Steps {}",
		},
		{
			name:    "no decorator is unchanged",
			content: "export class Bar {}",
			want:    "export class Bar {}",
		},
		{
			name:    "decorator not followed by class is kept",
			content: "@foo\nconst x = 1;",
			want:    "@foo\nconst x = 1;",
		},
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := language.StripBlacklistedExpressions(tt.content, language.TSX)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripBlacklistedExpressions_OtherLanguagesAreIdentity(t *testing.T) {
	content := "@given('a step')\ndef step_impl(context):\n    pass\n"
	for _, name := range language.All() {
		if name == language.TSX {
			continue
		}
		assert.Equal(t, content, language.StripBlacklistedExpressions(content, name), "language %s", name)
	}
}
