// Package html extracts readable text from HTML pages. It prefers the
// <article> or <main> element when present, drops scripts, styles and page
// chrome (navigation, headers, footers), and decodes entities.
package html
