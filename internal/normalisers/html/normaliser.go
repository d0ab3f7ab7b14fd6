package html

import (
	"html"
	"mime"
	"regexp"
	"strings"
)

// MIMETypes lists the content types handled by this package.
var MIMETypes = []string{"text/html", "application/xhtml+xml"}

// Supports reports whether a Content-Type header value names an HTML document.
func Supports(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, t := range MIMETypes {
		if mediaType == t {
			return true
		}
	}
	return false
}

// Pre-compiled expressions. \b keeps <head> from matching <header>.
var (
	titleTag     = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title>`)
	articleTag   = regexp.MustCompile(`(?is)<article\b[^>]*>(.*)</article>`)
	mainTag      = regexp.MustCompile(`(?is)<main\b[^>]*>(.*)</main>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)

	removedElements = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript\b[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<head\b[^>]*>.*?</head>`),
		regexp.MustCompile(`(?is)<svg\b[^>]*>.*?</svg>`),
		regexp.MustCompile(`(?is)<template\b[^>]*>.*?</template>`),
		regexp.MustCompile(`(?is)<nav\b[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?is)<header\b[^>]*>.*?</header>`),
		regexp.MustCompile(`(?is)<footer\b[^>]*>.*?</footer>`),
		regexp.MustCompile(`(?is)<aside\b[^>]*>.*?</aside>`),
		regexp.MustCompile(`(?is)<form\b[^>]*>.*?</form>`),
	}

	openBlock  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|dd|dt)\b[^>]*>`)
	closeBlock = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|dd|dt)>`)
	lineBreak  = regexp.MustCompile(`(?i)<(br|hr)\b[^>]*>`)
	cellEnd    = regexp.MustCompile(`(?i)</(td|th)>`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
	spaces     = regexp.MustCompile(`[ \t\r\f\v\x{00a0}]+`)
)

// Title returns the decoded <title> of a page, or "".
func Title(page string) string {
	m := titleTag.FindStringSubmatch(page)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(spaces.ReplaceAllString(html.UnescapeString(m[1]), " "))
}

// Text returns the readable text of a page, one block per line.
func Text(page string) string {
	page = htmlComments.ReplaceAllString(page, "")

	if m := articleTag.FindStringSubmatch(page); len(m) == 2 && strings.TrimSpace(m[1]) != "" {
		page = m[1]
	} else if m := mainTag.FindStringSubmatch(page); len(m) == 2 && strings.TrimSpace(m[1]) != "" {
		page = m[1]
	}

	for _, re := range removedElements {
		page = re.ReplaceAllString(page, "")
	}

	page = openBlock.ReplaceAllString(page, "\n")
	page = closeBlock.ReplaceAllString(page, "\n")
	page = lineBreak.ReplaceAllString(page, "\n")
	page = cellEnd.ReplaceAllString(page, " ")
	page = anyTag.ReplaceAllString(page, "")
	page = html.UnescapeString(page)

	lines := strings.Split(page, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
