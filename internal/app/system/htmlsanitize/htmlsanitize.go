// Package htmlsanitize cleans server-supplied notification text before it is
// rendered into the dashboard.
//
// Notification messages arrive either as plain text or as a small HTML
// fragment. Plain text is escaped and wrapped in a paragraph; HTML is passed
// through a bluemonday policy that keeps inline formatting, lists and links.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func messagePolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "br", "strong", "em", "b", "i", "u", "s", "sub", "sup", "mark",
			"ul", "ol", "li", "blockquote", "pre", "code", "span")
		p.AllowStandardURLs()
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		p.AllowAttrs("class").OnElements("span", "p")
		policy = p
	})
	return policy
}

// Sanitize strips everything the message policy does not allow.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return messagePolicy().Sanitize(s)
}

// SanitizeToHTML sanitizes s and marks the result safe for templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s looks like text with no markup.
// A lone "<" or ">" (as in "5 < 10") is still plain text.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and wraps it in a paragraph, turning newlines
// into <br>.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// PrepareForDisplay returns safe HTML for a notification message.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
