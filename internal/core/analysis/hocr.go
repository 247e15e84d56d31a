package analysis

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/colonyops/khatt/internal/core/geometry"
)

// HOCRPage is the result of importing one hOCR page.
type HOCRPage struct {
	Image  string
	Result Result
}

// ParseHOCR imports the first ocr_page of an hOCR document. Word boxes are
// normalized by the page bbox. A charset declared in the document head is
// resolved by its WHATWG label; unknown labels are rejected.
func ParseHOCR(data []byte) (HOCRPage, error) {
	data, err := decodeCharset(data)
	if err != nil {
		return HOCRPage{}, err
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return HOCRPage{}, fmt.Errorf("parse hocr: %w", err)
	}

	page := findClass(doc, "ocr_page")
	if page == nil {
		return HOCRPage{}, fmt.Errorf("parse hocr: no ocr_page element")
	}

	props := ParseTitle(attr(page, "title"))
	pageBox, ok := parseBBox(props["bbox"])
	if !ok || pageBox[2] <= pageBox[0] || pageBox[3] <= pageBox[1] {
		return HOCRPage{}, fmt.Errorf("parse hocr: ocr_page has no usable bbox")
	}

	out := HOCRPage{Image: strings.Trim(strings.Join(props["image"], " "), `"`)}
	pw := pageBox[2] - pageBox[0]
	ph := pageBox[3] - pageBox[1]

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			text := strings.TrimSpace(textContent(n))
			if text == "" {
				return
			}

			word := NewWord(text, geometry.BoundingBox{})
			if b, ok := parseBBox(ParseTitle(attr(n, "title"))["bbox"]); ok {
				word.BoundingBox = geometry.BoundingBox{
					X:      (b[0] - pageBox[0]) / pw,
					Y:      (b[1] - pageBox[1]) / ph,
					Width:  (b[2] - b[0]) / pw,
					Height: (b[3] - b[1]) / ph,
				}
			} else {
				word.MissingGeometry = true
			}
			out.Result.Words = append(out.Result.Words, word)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(page)

	out.Result.IdentifiedFontStyle = NoFontStyle
	return out, nil
}

// ParseTitle splits an hOCR title attribute into its properties.
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(strings.TrimSpace(part))
		if len(items) == 0 {
			continue
		}
		result[items[0]] = items[1:]
	}
	return result
}

func parseBBox(values []string) ([4]float64, bool) {
	var out [4]float64
	if len(values) < 4 {
		return out, false
	}
	for i := range 4 {
		v, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			return out, false
		}
		out[i] = v
	}
	return out, true
}

// decodeCharset converts data to UTF-8 according to its declared charset.
func decodeCharset(data []byte) ([]byte, error) {
	label := declaredCharset(data)
	if label == "" {
		return data, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: charset %q", ErrUnsupportedFormat, label)
	}
	if enc == unicode.UTF8 {
		return data, nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", label, err)
	}
	return decoded, nil
}

func declaredCharset(data []byte) string {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	lower := strings.ToLower(string(head))
	idx := strings.Index(lower, "charset=")
	if idx < 0 {
		return ""
	}
	rest := lower[idx+len("charset="):]
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func findClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
