package repomap

import (
	"path/filepath"
	"regexp"
	"strings"
)

// langPack is a regex-pack-per-extension symbol extractor: a deliberately
// coarse alternative to an AST/tree-sitter parser, per spec.md §4.4. Each
// pack carries the patterns needed to recognize functions, classes,
// methods and imports for one language family, plus the fixed-order list
// of extensions tried when resolving an import to a file node.
type langPack struct {
	language       string
	function       *regexp.Regexp
	class          *regexp.Regexp
	method         *regexp.Regexp
	importLine     *regexp.Regexp
	importIdent    func(matches []string) string
	resolveSuffixes []string
}

var extensionPacks = map[string]*langPack{
	".py":  pythonPack,
	".js":  jsPack,
	".jsx": jsPack,
	".ts":  jsPack,
	".tsx": jsPack,
	".rs":  rustPack,
	".go":  goPack,
	".java": javaPack,
	".c":   cPack,
	".cpp": cPack,
	".cc":  cPack,
	".h":   cPack,
	".hpp": cPack,
}

var pythonPack = &langPack{
	language:       "python",
	function:       regexp.MustCompile(`^\s*def\s+(\w+)\s*(\([^)]*\))`),
	class:          regexp.MustCompile(`^\s*class\s+(\w+)`),
	importLine:     regexp.MustCompile(`^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`),
	resolveSuffixes: []string{".py"},
}

var jsPack = &langPack{
	language:   "javascript",
	function:   regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*(\([^)]*\))`),
	class:      regexp.MustCompile(`^\s*(?:export\s+)?class\s+(\w+)`),
	method:     regexp.MustCompile(`^\s*(?:public\s+|private\s+|async\s+)*(\w+)\s*(\([^)]*\))\s*\{`),
	importLine: regexp.MustCompile(`^\s*import\s+.*?\s+from\s+['"]([^'"]+)['"]`),
	resolveSuffixes: []string{".js", ".jsx", ".ts", ".tsx"},
}

var rustPack = &langPack{
	language:        "rust",
	function:        regexp.MustCompile(`^\s*(?:pub\s+)?fn\s+(\w+)\s*(\([^)]*\))`),
	class:           regexp.MustCompile(`^\s*(?:pub\s+)?(?:struct|enum|trait)\s+(\w+)`),
	importLine:      regexp.MustCompile(`^\s*use\s+([\w:]+)`),
	resolveSuffixes: []string{".rs"},
}

var goPack = &langPack{
	language:        "go",
	function:        regexp.MustCompile(`^\s*func\s+(\w+)\s*(\([^)]*\))`),
	method:          regexp.MustCompile(`^\s*func\s+\([^)]*\)\s+(\w+)\s*(\([^)]*\))`),
	class:           regexp.MustCompile(`^\s*type\s+(\w+)\s+(?:struct|interface)\b`),
	importLine:      regexp.MustCompile(`^\s*"([\w./-]+)"`),
	resolveSuffixes: []string{".go"},
}

var javaPack = &langPack{
	language:        "java",
	function:        regexp.MustCompile(`^\s*(?:public|private|protected)\s+(?:static\s+)?\w[\w<>\[\]]*\s+(\w+)\s*(\([^)]*\))\s*\{?`),
	class:           regexp.MustCompile(`^\s*(?:public\s+)?(?:final\s+)?(?:class|interface)\s+(\w+)`),
	importLine:      regexp.MustCompile(`^\s*import\s+([\w.]+)\s*;`),
	resolveSuffixes: []string{".java"},
}

var cPack = &langPack{
	language:        "c",
	function:        regexp.MustCompile(`^\s*\w[\w\s*]*\b(\w+)\s*\(([^;)]*)\)\s*\{`),
	importLine:      regexp.MustCompile(`^\s*#include\s*[<"]([^>"]+)[>"]`),
	resolveSuffixes: []string{".h", ".hpp", ".c", ".cpp"},
}

func packForPath(path string) *langPack {
	return extensionPacks[strings.ToLower(filepath.Ext(path))]
}

// extractSymbols runs the language pack for path's extension over content
// line by line, returning FileSymbols with the raw import strings found in
// its Imports field. A path with no matching pack yields a FileSymbols with
// no symbols and the base token estimate rather than an error: unsupported
// file types are simply not mapped.
func extractSymbols(path, content string) FileSymbols {
	pack := packForPath(path)
	if pack == nil {
		return FileSymbols{Path: path, TokenEstimate: tokenEstimate(nil)}
	}

	fs := FileSymbols{Path: path, Language: pack.language}
	for i, line := range strings.Split(content, "\n") {
		lineNo := i + 1
		switch {
		case pack.method != nil && pack.method.MatchString(line):
			m := pack.method.FindStringSubmatch(line)
			fs.Symbols = append(fs.Symbols, Symbol{Name: m[1], Kind: KindMethod, Signature: strings.TrimSpace(line), Line: lineNo})
		case pack.function != nil && pack.function.MatchString(line):
			m := pack.function.FindStringSubmatch(line)
			fs.Symbols = append(fs.Symbols, Symbol{Name: m[1], Kind: KindFunction, Signature: strings.TrimSpace(line), Line: lineNo})
		case pack.class != nil && pack.class.MatchString(line):
			m := pack.class.FindStringSubmatch(line)
			fs.Symbols = append(fs.Symbols, Symbol{Name: m[1], Kind: KindClass, Signature: strings.TrimSpace(line), Line: lineNo})
		case pack.importLine != nil && pack.importLine.MatchString(line):
			m := pack.importLine.FindStringSubmatch(line)
			ident := firstNonEmpty(m[1:])
			if ident == "" {
				continue
			}
			fs.Imports = append(fs.Imports, ident)
			fs.Symbols = append(fs.Symbols, Symbol{Name: ident, Kind: KindImport, Signature: strings.TrimSpace(line), Line: lineNo})
		}
	}

	fs.TokenEstimate = tokenEstimate(fs.Symbols)
	return fs
}

func firstNonEmpty(vals []string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
