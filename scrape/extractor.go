package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Elements excluded from extraction entirely: non-content chrome that must
// not leak into the flattened text.
const chromeSelector = "script, style, .post-footer, .comments"

// ExtractStructuredText flattens an HTML subtree into a linear structured
// text document: paragraphs separated by blank lines, headings rendered as
// markdown headings one level down, lists, quotes, links, and images in
// markdown notation. The flattening is deterministic: it depends only on
// document order.
//
// The per-tag policy, applied to each child in order with the first match
// winning: text nodes become trimmed blocks; p/div become their full text
// plus a blank separator; h1-h6 become "##"-style headings (level offset by
// one) plus a blank; br becomes a blank; ul/ol emit "- item" for each
// non-empty direct li plus one trailing blank; blockquote prefixes each of
// its text lines with "> " plus a blank; a becomes "[text](href)" when both
// parts are present; img becomes "![alt](src)" plus a blank; anything else
// is recursed into and emitted as a single block if it has visible content.
func ExtractStructuredText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}

	cleaned := sel.Clone()
	cleaned.Find(chromeSelector).Remove()

	var blocks []string
	for _, node := range cleaned.Nodes {
		blocks = append(blocks, childBlocks(node)...)
	}
	return strings.Join(blocks, "\n")
}

// childBlocks flattens the direct children of an element, dispatching on
// node kind.
func childBlocks(n *html.Node) []string {
	var blocks []string
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if text := strings.TrimSpace(child.Data); text != "" {
				blocks = append(blocks, text)
			}
		case html.ElementNode:
			blocks = append(blocks, elementBlocks(child)...)
		}
	}
	return blocks
}

// elementBlocks renders a single element per the tag policy.
func elementBlocks(n *html.Node) []string {
	switch n.Data {
	case "p", "div":
		if text := flatText(n); text != "" {
			return []string{text, ""}
		}
		return nil

	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := flatText(n)
		if text == "" {
			return nil
		}
		level := int(n.Data[1] - '0')
		// One level down, so extracted headings never collide with the
		// document-level title heading.
		return []string{strings.Repeat("#", level+1) + " " + text, ""}

	case "br":
		return []string{""}

	case "ul", "ol":
		var blocks []string
		for li := n.FirstChild; li != nil; li = li.NextSibling {
			if li.Type != html.ElementNode || li.Data != "li" {
				continue
			}
			if text := flatText(li); text != "" {
				blocks = append(blocks, "- "+text)
			}
		}
		return append(blocks, "")

	case "blockquote":
		text := flatText(n)
		if text == "" {
			return nil
		}
		var blocks []string
		for _, line := range strings.Split(text, "\n") {
			blocks = append(blocks, "> "+strings.TrimSpace(line))
		}
		return append(blocks, "")

	case "a":
		text := flatText(n)
		href := attrValue(n, "href")
		if text != "" && href != "" {
			return []string{fmt.Sprintf("[%s](%s)", text, href)}
		}
		return nil

	case "img":
		src := attrValue(n, "src")
		if src == "" {
			return nil
		}
		alt := attrValue(n, "alt")
		if alt == "" {
			alt = "图片"
		}
		return []string{fmt.Sprintf("![%s](%s)", alt, src), ""}

	default:
		inner := strings.Join(childBlocks(n), "\n")
		if strings.TrimSpace(inner) == "" {
			return nil
		}
		return []string{inner}
	}
}

// flatText concatenates the trimmed descendant text of a node. Leading and
// trailing whitespace of each text fragment is dropped; newlines inside a
// fragment survive (blockquote rendering depends on that).
func flatText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}
