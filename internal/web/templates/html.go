// Package templates holds the HTML views of the family tree server.
//
// Views are templ components. Each writes its markup through an htmlWriter,
// which escapes every piece of user data and stops at the first write error.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw writes trusted markup.
func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text writes escaped character data.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) int(n int64) {
	hw.raw(strconv.FormatInt(n, 10))
}

// urlAttrs are sanitized with templ.URL before escaping.
var urlAttrs = map[string]bool{
	"href":    true,
	"action":  true,
	"hx-get":  true,
	"hx-post": true,
}

// tag writes <name> with escaped attributes given as name/value pairs.
func (hw *htmlWriter) tag(name string, attrs ...string) {
	hw.raw("<" + name)
	for i := 0; i+1 < len(attrs); i += 2 {
		v := attrs[i+1]
		if urlAttrs[attrs[i]] {
			v = string(templ.URL(v))
		}
		hw.raw(" " + attrs[i] + "=\"")
		hw.text(v)
		hw.raw("\"")
	}
	hw.raw(">")
}

func (hw *htmlWriter) end(name string) {
	hw.raw("</" + name + ">")
}

// elem writes a complete element with escaped text content.
func (hw *htmlWriter) elem(name, content string, attrs ...string) {
	hw.tag(name, attrs...)
	hw.text(content)
	hw.end(name)
}

func (hw *htmlWriter) component(c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}

func view(fn func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		fn(hw)
		return hw.err
	})
}

// Empty renders nothing. Sidebars and blocks that may not be shown use it.
func Empty() templ.Component {
	return templ.NopComponent
}

// Nav is the signed-in state shown in the page header.
type Nav struct {
	UserName  string // empty for visitors
	SiteAdmin bool
}

// Layout wraps body in the page chrome.
func Layout(title string, nav Nav, body templ.Component) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.elem("title", title)
		hw.raw(`<script src="https://unpkg.com/htmx.org@1.9.12" crossorigin="anonymous"></script>`)
		hw.raw(`</head><body><header class="site-header"><a href="/" class="brand">Family trees</a><nav>`)
		switch {
		case nav.UserName == "":
			hw.raw(`<a href="/login">Sign in</a>`)
		default:
			if nav.SiteAdmin {
				hw.raw(`<a href="/admin/users">Users</a> <a href="/admin/places">Places</a> `)
			}
			hw.elem("span", nav.UserName, "class", "user")
			hw.raw(`<form method="post" action="/logout" class="inline"><button type="submit">Sign out</button></form>`)
		}
		hw.raw(`</nav></header><main><div id="errors" aria-live="polite"></div>`)
		hw.elem("h1", title)
		hw.component(body)
		hw.raw(`</main></body></html>`)
	})
}

// ErrorAlert is the error fragment swapped into HTMX targets.
func ErrorAlert(message, action, code string) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.tag("div", "class", "alert alert-error", "role", "alert", "data-code", code)
		hw.elem("p", message, "class", "alert-message")
		if action != "" {
			hw.elem("p", action, "class", "alert-action")
		}
		hw.end("div")
	})
}

// ErrorPage is a full page for errors on non-HTMX requests.
func ErrorPage(status int, message, action, code string) templ.Component {
	return Layout("Error "+strconv.Itoa(status), Nav{}, ErrorAlert(message, action, code))
}
