// Package views embeds the HTML templates rendered by the web handler.
package views

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every page; pages render into its {{embed}} slot.
const Layout = "layouts/main"

//go:embed *.html layouts/*.html
var FS embed.FS

func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(FS), ".html")
	engine.AddFunc("imageSrc", imageSrc)
	return engine
}

// imageSrc marks image data URIs as safe for src attributes. html/template
// rewrites any other data URI to a placeholder.
func imageSrc(uri string) template.URL {
	if !strings.HasPrefix(uri, "data:image/") {
		return template.URL("#")
	}
	return template.URL(uri)
}
