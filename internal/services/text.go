package services

import (
	"regexp"
	"strings"
)

var (
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]{1,100})`)
	mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_.]{3,30})`)
)

// ExtractHashtags returns the distinct lower-cased tags in order of first use.
func ExtractHashtags(texts ...string) []string {
	return extract(hashtagPattern, true, texts...)
}

// ExtractMentions returns the distinct usernames mentioned with @.
func ExtractMentions(text string) []string {
	return extract(mentionPattern, false, text)
}

func extract(re *regexp.Regexp, lower bool, texts ...string) []string {
	var out []string
	seen := map[string]bool{}
	for _, text := range texts {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v := strings.TrimRight(m[1], ".")
			if lower {
				v = strings.ToLower(v)
			}
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
