package render

import _ "embed"

// Built-in page templates. Both can be overridden by dropping entry.html or
// index.html into the content tree's _templates directory.

//go:embed templates/entry.html.tmpl
var entryTemplate string

//go:embed templates/index.html.tmpl
var indexTemplate string
