package render

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/russross/blackfriday"
)

const (
	extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_FENCED_CODE |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH |
		blackfriday.EXTENSION_SPACE_HEADERS

	// Raw HTML in model output is dropped.
	htmlFlags = blackfriday.HTML_SKIP_HTML |
		blackfriday.HTML_SAFELINK |
		blackfriday.HTML_USE_XHTML
)

func markdown(input string) string {
	renderer := blackfriday.HtmlRenderer(htmlFlags, "", "")
	return string(blackfriday.Markdown([]byte(input), renderer, extensions))
}

// ToHTML converts model Markdown output into HTML for the web page.
func ToHTML(input string) template.HTML {
	return template.HTML(markdown(input))
}

var (
	tagReplacer = strings.NewReplacer(
		"<strong>", "<b>", "</strong>", "</b>",
		"<em>", "<i>", "</em>", "</i>",
		"<del>", "<s>", "</del>", "</s>",
		"<li>", "• ", "</li>", "\n",
		"</p>", "\n", "<br>", "\n", "<br />", "\n",
	)
	headingRe     = regexp.MustCompile(`<h[1-6][^>]*>(.*?)</h[1-6]>`)
	unsupportedRe = regexp.MustCompile(`</?(p|ul|ol|hr|table|thead|tbody|tr|th|td|blockquote|img|h[1-6])[^>]*>`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

// ToTelegramHTML converts Markdown into the HTML subset accepted by the
// Telegram Bot API.
func ToTelegramHTML(input string) string {
	html := markdown(input)

	html = headingRe.ReplaceAllString(html, "<b>$1</b>\n")
	html = tagReplacer.Replace(html)
	html = unsupportedRe.ReplaceAllString(html, "")
	html = blankLinesRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
