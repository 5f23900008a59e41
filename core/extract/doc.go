// Package extract turns HTML into bounded plain text. It drops script, style
// and other non-rendered elements, joins the remaining text nodes with single
// spaces and cuts the result at a rune budget, reporting whether it did.
package extract
