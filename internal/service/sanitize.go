package service

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML removes markup from guest-submitted text, keeping only the text
// content. Script and style bodies are dropped entirely.
func StripHTML(input string) string {
	if !strings.ContainsAny(input, "<>") {
		return strings.TrimSpace(input)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if dropContent(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if dropContent(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

func dropContent(tag string) bool {
	return tag == "script" || tag == "style"
}
