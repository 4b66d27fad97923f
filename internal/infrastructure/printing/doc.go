// Package printing renders sale receipts: an html/template receipt layout
// and a headless Chrome (chromedp) HTML to PDF renderer.
package printing
