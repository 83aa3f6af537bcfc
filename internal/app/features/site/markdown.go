package site

import "github.com/advocatechambers/lawsite/internal/app/system/htmlsanitize"

// renderArticle converts an article body to HTML. A body that fails to
// render is shown as escaped text.
func renderArticle(body string, onErr func(error)) string {
	out, err := htmlsanitize.RenderMarkdown(body)
	if err != nil {
		onErr(err)
		return htmlsanitize.PlainTextToHTML(body)
	}
	return out
}
