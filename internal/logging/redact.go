package logging

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// SecretKeyPatterns lists the words that mark a key as naming sensitive
// data. A key matches when one of its words equals a pattern, ignoring
// case. Words are split at punctuation and at lower-to-upper case changes,
// so "api_key", "apiKey" and "APIKey" match while "keys" and "keyboard" do
// not.
var SecretKeyPatterns = []string{
	"TOKEN",
	"TOKENS",
	"KEY",
	"APIKEY",
	"SECRET",
	"SECRETS",
	"PASSWORD",
	"PASSWORDS",
	"PASSWD",
	"AUTH",
	"AUTHORIZATION",
	"CREDENTIAL",
	"CREDENTIALS",
	"PRIVATE",
}

// TokenPrefixes contains known API token prefixes that mark a value as
// sensitive whatever its key.
var TokenPrefixes = []string{
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"ghu_",  // GitHub user-to-server token
	"ghs_",  // GitHub server-to-server token
	"ghr_",  // GitHub refresh token
	"sk-",   // OpenAI/Anthropic keys
	"AKIA",  // AWS access key prefix
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
}

// ShouldMask reports whether key looks like it names a secret.
func ShouldMask(key string) bool {
	for _, word := range keyWords(key) {
		if slices.Contains(SecretKeyPatterns, word) {
			return true
		}
	}
	return false
}

// keyWords splits key into upper-cased words.
func keyWords(key string) []string {
	var (
		words     []string
		word      strings.Builder
		prevLower bool
	)
	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prevLower = false
			continue
		}
		if unicode.IsUpper(r) && prevLower {
			flush()
		}
		word.WriteRune(unicode.ToUpper(r))
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	flush()
	return words
}

// ContainsTokenPrefix reports whether value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// Redact returns a copy of the config mapping m with secret-looking values
// masked. Nested mappings and sequences are walked; m is not modified.
func Redact(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = redactValue(ShouldMask(k), v)
	}
	return out
}

func redactValue(secret bool, v any) any {
	switch val := v.(type) {
	case map[string]any:
		if secret {
			// Every leaf below a secret key is masked.
			out := make(map[string]any, len(val))
			for k, child := range val {
				out[k] = redactValue(true, child)
			}
			return out
		}
		return Redact(val)
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = redactValue(secret, child)
		}
		return out
	case nil:
		return nil
	case string:
		if secret || ContainsTokenPrefix(val) {
			return MaskValue(val)
		}
		return val
	default:
		if secret {
			return MaskValue(fmt.Sprint(val))
		}
		return v
	}
}
