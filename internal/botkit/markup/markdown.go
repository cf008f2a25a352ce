package markup

import "strings"

// The full set of characters Telegram requires to be escaped in MarkdownV2
// text.
var replacer = strings.NewReplacer(
	"-", "\\-",
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeForMarkdown makes arbitrary text safe to interpolate into a
// MarkdownV2 message.
func EscapeForMarkdown(src string) string {
	return replacer.Replace(src)
}
