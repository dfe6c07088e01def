package repair

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/verbatim/internal/segment"
)

// Textual fixes applied in a fixed sequence before retrying the decode.
// Each targets a malformation the generation service actually produces.
var (
	// Missing commas between adjacent brackets: "} {", "] [", "} [", "] {".
	reAdjacentCloseOpen = regexp.MustCompile(`([}\]])(\s*)([{\[])`)

	// Missing commas between adjacent value tokens: string/number/bool/null
	// followed by whitespace and the start of another value.
	reStringThenValue  = regexp.MustCompile(`"(\s+)(["{\[]|-?\d|true|false|null)`)
	reBracketThenValue = regexp.MustCompile(`([}\]])(\s+)"`)
	reNumberThenValue  = regexp.MustCompile(`(\d)(\s+)"`)
	reWordThenValue    = regexp.MustCompile(`\b(true|false|null)(\s+)"`)

	// Trailing commas before a closing bracket.
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)

	// Bare (unquoted) object keys.
	reBareKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*):`)
)

// repairDelimiters applies the fixed sequence of textual fixes: comma
// insertion between adjacent tokens and brackets, trailing-comma
// stripping, bare-key quoting, single-quote normalization and bracket
// balancing. The result may still be invalid; the caller retries the
// decode to find out.
func repairDelimiters(text string) string {
	out := reAdjacentCloseOpen.ReplaceAllString(text, "$1,$2$3")
	out = reStringThenValue.ReplaceAllString(out, `",$1$2`)
	out = reBracketThenValue.ReplaceAllString(out, `$1,$2"`)
	out = reNumberThenValue.ReplaceAllString(out, `$1,$2"`)
	out = reWordThenValue.ReplaceAllString(out, `$1,$2"`)
	out = reTrailingComma.ReplaceAllString(out, "$1")
	out = reBareKey.ReplaceAllString(out, `$1"$2"$3:`)
	out = normalizeQuotes(out)
	out = balanceBrackets(out)
	return out
}

// normalizeQuotes rewrites single-quoted output to double quotes, but
// only when the text carries no double quotes at all; mixed quoting is
// left alone rather than risk corrupting string contents.
func normalizeQuotes(text string) string {
	if strings.Contains(text, `"`) {
		return text
	}
	return strings.ReplaceAll(text, "'", `"`)
}

// balanceBrackets appends the closing brackets for any unclosed "{" or
// "[" (string contents excluded), in reverse open order.
func balanceBrackets(text string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) == 0 {
		return text
	}
	var sb strings.Builder
	sb.WriteString(text)
	if inString {
		sb.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			sb.WriteByte('}')
		} else {
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// repairAtErrorPosition retries the decode after inserting the missing
// delimiter at the offset reported by the syntax error, then at offsets
// ±1 and ±2 around it. Only "expected delimiter" error classes are
// handled; anything else returns nil.
func repairAtErrorPosition(text string) []segment.Segment {
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return nil
	}
	synErr, ok := err.(*json.SyntaxError)
	if !ok {
		return nil
	}

	var delim string
	msg := synErr.Error()
	switch {
	case strings.Contains(msg, "after array element"),
		strings.Contains(msg, "after object key:value pair"):
		delim = ","
	case strings.Contains(msg, "after object key"):
		delim = ":"
	default:
		return nil
	}

	// Offset points just past the offending character; the insertion
	// point is immediately before it.
	base := int(synErr.Offset) - 1
	for _, off := range []int{base, base - 1, base + 1, base - 2, base + 2} {
		if off < 0 || off > len(text) {
			continue
		}
		patched := text[:off] + delim + text[off:]
		if segs := parseStrict(patched); len(segs) > 0 {
			return segs
		}
	}
	return nil
}

// scanFragments walks the text for bracket-balanced {...} or [...]
// fragments and decodes each independently, keeping the first that
// yields segments.
func scanFragments(text string) []segment.Segment {
	for _, frag := range balancedFragments(text) {
		if segs := parseStrict(frag); len(segs) > 0 {
			return segs
		}
	}
	return nil
}

func balancedFragments(text string) []string {
	var frags []string
	var stack []byte
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{', '[':
			if start < 0 {
				start = i
			}
			stack = append(stack, c)
		case '}', ']':
			if start < 0 {
				continue
			}
			open := byte('{')
			if c == ']' {
				open = '['
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				// Mismatched closer: abandon this fragment.
				stack = stack[:0]
				start = -1
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				frags = append(frags, text[start:i+1])
				start = -1
			}
		}
	}
	return frags
}
