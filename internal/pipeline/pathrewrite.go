package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ResolveAssets rewrites relative img[src] and a[href] values in an HTML
// fragment to absolute file:// URLs under sourceDir, so a preview written
// elsewhere still shows images referenced by the chat text.
// Paths escaping sourceDir, URLs, anchors and absolute paths are kept.
// An empty sourceDir returns the fragment unchanged.
func ResolveAssets(fragment, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(fragment, "<") {
		return fragment, nil
	}

	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	changed := false
	stack := append([]*html.Node(nil), nodes...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Img:
				changed = resolveAttr(n, "src", root) || changed
			case atom.A:
				changed = resolveAttr(n, "href", root) || changed
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}
	if !changed {
		return fragment, nil
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// resolveAttr rewrites attribute key of n and reports whether it changed.
func resolveAttr(n *html.Node, key, root string) bool {
	for i, a := range n.Attr {
		if a.Key != key || !isLocalReference(a.Val) {
			continue
		}
		abs := filepath.Join(root, filepath.FromSlash(a.Val))
		if !withinDir(abs, root) {
			continue
		}
		n.Attr[i].Val = fileURL(abs)
		return true
	}
	return false
}

// isLocalReference reports whether ref is a relative file path.
func isLocalReference(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return false
	}
	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return false
	}
	return true
}

// withinDir reports whether path is dir or lies below it.
func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// fileURL converts an absolute path to a file:// URL.
func fileURL(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}
