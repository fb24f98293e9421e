package stepdef

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	cucumberexpressions "github.com/cucumber/cucumber-expressions/go/v18"
	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/helgardferreira/cucumber-language-service/pkg/language"
	"github.com/helgardferreira/cucumber-language-service/pkg/locate"
	"github.com/helgardferreira/cucumber-language-service/pkg/lsp/protocol"
	"github.com/helgardferreira/cucumber-language-service/pkg/syntax"
)

// StepDefinition ties a matchable expression to the source location that
// defines it.
type StepDefinition struct {
	Expression cucumberexpressions.Expression
	Link       protocol.LocationLink
}

func (d *StepDefinition) LocationLink() protocol.LocationLink {
	return d.Link
}

// Index is an immutable snapshot of the step definitions found in a
// workspace.
type Index struct {
	defs []*StepDefinition
}

func NewIndex(defs []*StepDefinition) *Index {
	return &Index{defs: defs}
}

func (ix *Index) Len() int {
	return len(ix.defs)
}

func (ix *Index) Definitions() []*StepDefinition {
	return ix.defs
}

// Match returns every definition whose expression matches text, in index
// order. Expressions that fail to evaluate are skipped, not fatal.
func (ix *Index) Match(ctx context.Context, text string) []*StepDefinition {
	var out []*StepDefinition
	for _, def := range ix.defs {
		args, err := def.Expression.Match(text)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("expression", def.Expression.Source()).Msg("expression match failed")
			continue
		}
		if args == nil {
			continue
		}
		out = append(out, def)
	}
	return out
}

// Builder discovers step-definition source files and compiles them into an
// Index.
type Builder struct {
	fs       afero.Fs
	registry *cucumberexpressions.ParameterTypeRegistry
}

func NewBuilder(fs afero.Fs) *Builder {
	return &Builder{
		fs:       fs,
		registry: cucumberexpressions.NewParameterTypeRegistry(),
	}
}

// DefineParameterType registers a custom parameter type with the expression
// engine so step expressions can reference it by name.
func (b *Builder) DefineParameterType(name string, regexps []*regexp.Regexp) error {
	pt, err := MakeParameterType(name, regexps)
	if err != nil {
		return err
	}
	if err := b.registry.DefineParameterType(pt); err != nil {
		return errors.Errorf("registering parameter type %q: %w", name, err)
	}
	return nil
}

// Build scans root for files matching globs and extracts their step
// definitions. Per-file failures are accumulated and returned alongside the
// index; one broken file must not lose the rest of the workspace.
func (b *Builder) Build(ctx context.Context, root string, globs []string) (*Index, error) {
	iofs := afero.NewIOFS(afero.NewBasePathFs(b.fs, root))

	var defs []*StepDefinition
	var errs error
	seen := make(map[string]bool)

	for _, glob := range globs {
		matches, err := doublestar.Glob(iofs, glob)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("glob %q: %w", glob, err))
			continue
		}
		for _, rel := range matches {
			if seen[rel] {
				continue
			}
			seen[rel] = true

			lang, ok := language.ForFile(rel)
			if !ok {
				continue
			}

			path := filepath.Join(root, rel)
			content, err := afero.ReadFile(b.fs, path)
			if err != nil {
				errs = multierr.Append(errs, errors.Errorf("reading %s: %w", rel, err))
				continue
			}

			fileDefs, err := b.BuildFile(ctx, path, string(content), lang)
			if err != nil {
				errs = multierr.Append(errs, errors.Errorf("%s: %w", rel, err))
			}
			defs = append(defs, fileDefs...)

			zerolog.Ctx(ctx).Debug().
				Str("file", rel).
				Stringer("language", lang).
				Int("definitions", len(fileDefs)).
				Msg("indexed step definitions")
		}
	}

	return NewIndex(defs), errs
}

// BuildFile extracts the step definitions from a single source file. The
// content is normalized through the language's blacklist before parsing.
func (b *Builder) BuildFile(ctx context.Context, path string, content string, lang language.Name) ([]*StepDefinition, error) {
	source := []byte(language.StripBlacklistedExpressions(content, lang))

	parser := sitter.NewParser()
	parser.SetLanguage(lang.Grammar())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(lang.StepDefinitionQuery()), lang.Grammar())
	if err != nil {
		return nil, errors.Errorf("compiling %s step-definition query: %w", lang, err)
	}
	defer query.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	uri := toURI(path)

	var defs []*StepDefinition
	var errs error
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)
		if len(match.Captures) == 0 {
			// rejected by a #match? predicate
			continue
		}

		exprNode, err := syntax.CaptureNode(query, match, source, "expression")
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rootNode, err := syntax.CaptureNode(query, match, source, "root")
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if exprNode == nil || rootNode == nil {
			continue
		}

		expr, err := b.expression(exprNode, source)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		defs = append(defs, &StepDefinition{
			Expression: expr,
			Link:       locate.CreateLocationLink(rootNode, exprNode, uri),
		})
	}

	return defs, errs
}

// expression turns a captured literal node into a matchable expression: a
// regex literal becomes a regular expression, anything else is read as a
// string and compiled as a cucumber expression.
func (b *Builder) expression(node *sitter.Node, source []byte) (cucumberexpressions.Expression, error) {
	switch node.Type() {
	case "regex", "regex_literal":
		re, err := regexp.Compile(regexBody(node.Content(source)))
		if err != nil {
			return nil, errors.Errorf("compiling step regexp: %w", err)
		}
		return cucumberexpressions.NewRegularExpression(re, b.registry), nil
	default:
		value := literalValue(node, source)
		expr, err := cucumberexpressions.NewCucumberExpression(value, b.registry)
		if err != nil {
			return nil, errors.Errorf("compiling cucumber expression %q: %w", value, err)
		}
		return expr, nil
	}
}

// literalText keeps string-content tokens, dropping quote delimiters and the
// start/end markers some grammars use instead of bare quote tokens.
func literalText(node *sitter.Node) bool {
	switch node.Type() {
	case "string_start", "string_end":
		return false
	}
	return syntax.NoQuotes(node)
}

// literalValue reads the value of a string-literal node. Grammars that
// expose the quotes as child tokens are handled by filtering those children;
// leaf literals (and Rust/C# raw forms) fall back to trimming the raw text.
func literalValue(node *sitter.Node, source []byte) string {
	if value := syntax.ChildrenText(node, source, literalText); value != "" {
		return value
	}

	raw := node.Content(source)
	switch node.Type() {
	case "raw_string_literal":
		raw = strings.TrimPrefix(raw, "r")
	case "verbatim_string_literal":
		raw = strings.TrimPrefix(raw, "@")
	}
	return strings.Trim(raw, `"'`)
}

// regexBody strips the slash delimiters and any trailing flags from a regex
// literal such as /^a (\d+) b$/i.
func regexBody(literal string) string {
	start := strings.Index(literal, "/")
	end := strings.LastIndex(literal, "/")
	if start == -1 || end <= start {
		return literal
	}
	return literal[start+1 : end]
}

func toURI(path string) protocol.DocumentURI {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return protocol.DocumentURI("file://" + filepath.ToSlash(abs))
}
