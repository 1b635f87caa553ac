package learner

// stopWords is the frozen enumeration of significant-word exclusions:
// common English function words, conversational filler, and generic coding
// verbs (spec.md Glossary, "Significant word"). Grounded in the teacher's
// isCommonWord list (internal/retrieval/sparse.go), extended with the
// generic coding verbs spec.md names explicitly.
var stopWords = map[string]bool{
	// Function words
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "day": true,
	"get": true, "has": true, "him": true, "his": true, "how": true,
	"man": true, "new": true, "now": true, "old": true, "see": true,
	"two": true, "way": true, "who": true, "boy": true,
	"its": true, "let": true, "put": true, "say": true, "she": true,
	"too": true, "use": true, "that": true, "with": true, "have": true,
	"this": true, "will": true, "your": true, "from": true, "they": true,
	"know": true, "want": true, "been": true, "good": true, "much": true,
	"some": true, "time": true, "very": true, "when": true, "come": true,
	"here": true, "just": true, "like": true, "long": true,
	"many": true, "over": true, "such": true, "take": true, "than": true,
	"them": true, "well": true, "were": true, "what": true, "into": true,
	"only": true, "also": true, "then": true, "there": true, "these": true,
	"those": true, "would": true, "could": true, "should": true, "about": true,
	"after": true, "again": true, "before": true, "other": true, "which": true,
	"does": true, "doing": true, "each": true, "few": true, "more": true,
	"most": true, "same": true, "own": true, "while": true, "because": true,
	"where": true, "why": true, "both": true, "between": true, "through": true,
	"during": true, "above": true, "below": true, "under": true,

	// Pronouns / auxiliaries
	"am": true, "is": true, "be": true, "i": true, "me": true, "my": true,
	"we": true, "he": true, "do": true, "did": true, "had": true, "may": true,
	"can": true, "shall": true, "must": true, "might": true,

	// Conversational filler
	"please": true, "thanks": true, "thank": true, "okay": true, "ok": true,
	"sure": true, "hello": true, "hey": true, "hi": true, "yes": true,
	"no": true, "maybe": true, "sorry": true, "great": true, "cool": true,

	// Generic coding verbs (not significant as prompt-word/file co-occurrence signals)
	"file": true, "files": true, "code": true, "change": true, "changes": true,
	"update": true, "updates": true, "add": true, "added": true, "remove": true,
	"removed": true, "fix": true, "fixed": true, "check": true, "run": true,
	"running": true, "test": true, "tests": true, "build": true, "make": true,
	"create": true, "created": true, "delete": true, "deleted": true, "edit": true,
	"edited": true, "write": true, "written": true, "read": true, "look": true,
	"looking": true, "show": true, "need": true, "needs": true, "help": true,
}
