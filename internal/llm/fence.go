package llm

import "strings"

const fence = "```"

// StripCodeFence removes optional Markdown code-fence markup around a model
// response. The opening fence may carry a language tag such as "json".
// Unfenced text is returned trimmed and otherwise untouched.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	start := strings.Index(text, fence)
	if start < 0 {
		return text
	}
	// Prose before the fence is dropped only when the payload itself is fenced
	if start > 0 && startsLikeJSON(text) {
		return text
	}

	body := text[start+len(fence):]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(body[:nl]); tag == "" || isLanguageTag(tag) {
			body = body[nl+1:]
		}
	} else if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}

	if end := strings.LastIndex(body, fence); end >= 0 {
		body = body[:end]
	}

	return strings.TrimSpace(body)
}

func startsLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

func isLanguageTag(s string) bool {
	if strings.ContainsAny(s, "{}[]\" ") {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
