package language

// Step-definition queries. Each query binds two captures the extractor relies
// on: @expression, the string or regular-expression literal holding the step
// pattern, and @root, the whole defining construct. @expression is always
// nested inside @root, which is what lets the location mapper treat the pair
// as target range and target selection range without validation.

var stepDefinitionQueries = [nameCount]string{
	TSX: `
(call_expression
  function: (identifier) @method
  arguments: (arguments
    [
      (string) @expression
      (regex) @expression
    ])
  (#match? @method "^(Given|When|Then|defineStep)$")
) @root
`,
	JavaScript: `
(call_expression
  function: (identifier) @method
  arguments: (arguments
    [
      (string) @expression
      (regex) @expression
    ])
  (#match? @method "^(Given|When|Then|defineStep)$")
) @root
`,
	Java: `
(method_declaration
  (modifiers
    (annotation
      name: (identifier) @annotation
      arguments: (annotation_argument_list
        (string_literal) @expression)))
  (#match? @annotation "^(Given|When|Then|And|But)$")
) @root
`,
	CSharp: `
(method_declaration
  (attribute_list
    (attribute
      name: (identifier) @attribute
      (attribute_argument_list
        (attribute_argument
          [
            (string_literal) @expression
            (verbatim_string_literal) @expression
          ]))))
  (#match? @attribute "^(Given|When|Then|StepDefinition)$")
) @root
`,
	PHP: `
(method_declaration
  (attribute_list
    (attribute_group
      (attribute
        (name) @attribute
        (arguments
          (argument
            (string) @expression)))))
  (#match? @attribute "^(Given|When|Then)$")
) @root
`,
	Python: `
(decorated_definition
  (decorator
    (call
      function: (identifier) @decorator
      arguments: (argument_list
        (string) @expression)))
  (#match? @decorator "^(given|when|then|step)$")
) @root
`,
	// Given/When/Then are capitalized, so ruby parses them as constants
	Ruby: `
(call
  method: [(identifier) (constant)] @method
  arguments: (argument_list
    [
      (string) @expression
      (regex) @expression
    ])
  (#match? @method "^(Given|When|Then)$")
) @root
`,
	Rust: `
(
  (attribute_item
    (attribute
      (identifier) @attribute
      arguments: (token_tree
        [
          (string_literal) @expression
          (raw_string_literal) @expression
        ])))
  .
  (function_item) @root
  (#match? @attribute "^(given|when|then)$")
)
`,
}

// StepDefinitionQuery returns the tree-sitter query that finds the
// language's step definitions.
func (n Name) StepDefinitionQuery() string {
	return stepDefinitionQueries[n]
}
