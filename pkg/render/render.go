package render

import (
	"strings"

	"github.com/russross/blackfriday"
)

// Telegram accepts only a small HTML subset, so the blackfriday output
// is flattened: block tags become newlines, emphasis maps to b/i.
var replacer = strings.NewReplacer(
	"<p>", "",
	"</p>", "\n",
	"<strong>", "<b>",
	"</strong>", "</b>",
	"<em>", "<i>",
	"</em>", "</i>",
	"<ul>", "",
	"</ul>", "",
	"<li>", "• ",
	"</li>", "\n",
	"<h1>", "<b>",
	"</h1>", "</b>\n",
	"<h2>", "<b>",
	"</h2>", "</b>\n",
	"<h3>", "<b>",
	"</h3>", "</b>\n",
)

// ToHTML converts markdown text to HTML suitable for a Telegram message
// sent with parse_mode=HTML.
func ToHTML(markdown string) string {
	html := string(blackfriday.MarkdownCommon([]byte(markdown)))
	return strings.TrimSpace(replacer.Replace(html))
}
