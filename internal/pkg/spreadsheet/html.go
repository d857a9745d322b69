package spreadsheet

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// ErrNoTable is returned when an HTML export carries no <table>.
var ErrNoTable = errors.New("no table found in html export")

// readHTML reads the first <table> of an HTML export. Portals commonly serve
// these with an .xls extension.
func readHTML(r io.Reader) (*Sheet, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}

	doc := goquery.NewDocumentFromNode(root)
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	var records [][]string
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := []string{}
		row.Children().Each(func(i int, s *goquery.Selection) {
			tag := goquery.NodeName(s)
			if strings.EqualFold(tag, "td") || strings.EqualFold(tag, "th") {
				cells = append(cells, strings.Join(strings.Fields(s.Text()), " "))
			}
		})
		records = append(records, cells)
	})

	return build(records)
}
