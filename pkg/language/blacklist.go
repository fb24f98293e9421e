package language

import "regexp"

// A blacklistEntry is one rewrite pass applied to raw source content before
// step matching. Replacement is usually empty (plain removal); Go's RE2
// engine has no lookahead, so entries that must anchor on trailing context
// re-emit that context through a capture group instead.
type blacklistEntry struct {
	pattern     *regexp.Regexp
	replacement string
}

// tsxDecorators strips runs of decorator annotations (@name, optionally with
// a type-parameter list and/or an argument list) that sit immediately before
// an optionally-exported class declaration. Decorators confuse the class-body
// parameter queries downstream, so they are removed before parsing.
var tsxDecorators = blacklistEntry{
	pattern:     regexp.MustCompile(`(?:@\w+(?:<[^>]*>)?(?:\([^)]*\))?\s*)+((?:export\s+)?class\b)`),
	replacement: "$1",
}

// blacklists is indexed by Name, so every language has a slot whether or not
// it registers any patterns. An empty slot makes StripBlacklistedExpressions
// the identity for that language.
var blacklists = [nameCount][]blacklistEntry{
	TSX: {tsxDecorators},
}

// StripBlacklistedExpressions removes the language's blacklisted expressions
// from content. Passes run in table order and each pass operates on the
// output of the previous one.
func StripBlacklistedExpressions(content string, name Name) string {
	for _, entry := range blacklists[name] {
		content = entry.pattern.ReplaceAllString(content, entry.replacement)
	}
	return content
}
