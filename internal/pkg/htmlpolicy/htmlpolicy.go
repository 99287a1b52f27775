// Package htmlpolicy validates and sanitizes the HTML fragments accepted in
// agreement bodies, resource descriptions, and permission group descriptions.
// Submissions using tags or attributes outside the allow-list are rejected
// outright; accepted content is additionally run through a sanitizer before
// storage.
package htmlpolicy

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// DefaultAllowedTags is the tag set accepted in rich-text fields.
var DefaultAllowedTags = []string{
	"h3", "p", "a", "abbr", "cite", "code",
	"small", "em", "strong", "sub", "sup",
	"u", "ul", "ol", "li",
}

// allowedAttributes maps tag name to the attributes permitted on it.
// Tags absent from the map allow no attributes.
var allowedAttributes = map[string][]string{
	"a":    {"href", "title"},
	"abbr": {"title"},
}

var allowedProtocols = []string{"https", "mailto"}

// ErrMalformed is returned when the input cannot be tokenized as HTML.
var ErrMalformed = errors.New("malformed HTML")

// InvalidTagError reports a tag outside the allow-list.
type InvalidTagError struct {
	Tag string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid HTML tag: %s", e.Tag)
}

// InvalidAttributeError reports an attribute not permitted on its tag.
type InvalidAttributeError struct {
	Tag       string
	Attribute string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("invalid attribute %q on tag %s", e.Attribute, e.Tag)
}

// InvalidProtocolError reports a link using a protocol outside the allow-list.
type InvalidProtocolError struct {
	URL string
}

func (e *InvalidProtocolError) Error() string {
	return fmt.Sprintf("link %q must use one of: %s", e.URL, strings.Join(allowedProtocols, ", "))
}

var sanitizer = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(DefaultAllowedTags...)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("title").OnElements("abbr")
	p.AllowURLSchemes(allowedProtocols...)
	p.RequireParseableURLs(true)
	return p
}

// Validate tokenizes input and returns an error describing the first tag,
// attribute, or link protocol outside the allow-list. Empty input is valid.
func Validate(input string) error {
	allowed := make(map[string]bool, len(DefaultAllowedTags))
	for _, t := range DefaultAllowedTags {
		allowed[t] = true
	}

	z := html.NewTokenizer(strings.NewReader(input))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return nil
			}
			return ErrMalformed
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			tok := z.Token()
			if !allowed[tok.Data] {
				return &InvalidTagError{Tag: tok.Data}
			}
			if tt == html.EndTagToken {
				continue
			}
			for _, attr := range tok.Attr {
				if !attributeAllowed(tok.Data, attr.Key) {
					return &InvalidAttributeError{Tag: tok.Data, Attribute: attr.Key}
				}
				if attr.Key == "href" {
					if err := validateProtocol(attr.Val); err != nil {
						return err
					}
				}
			}
		}
	}
}

func attributeAllowed(tag, attr string) bool {
	for _, a := range allowedAttributes[tag] {
		if a == attr {
			return true
		}
	}
	return false
}

func validateProtocol(rawURL string) error {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	for _, proto := range allowedProtocols {
		if strings.HasPrefix(lower, proto+":") {
			return nil
		}
	}
	return &InvalidProtocolError{URL: rawURL}
}

// Sanitize strips anything outside the allow-list, including comments,
// from input. Content that passed Validate should round-trip unchanged.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
