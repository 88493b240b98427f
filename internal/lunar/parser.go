package lunar

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// The queries are fixed to the timeanddate.com markup
var (
	currentPhaseExpr = xpath.MustCompile(`string(//div[@id="qlook"]//a[@title]/text())`)
	illuminationExpr = xpath.MustCompile(`string(//div[@id="qlook"]//span[@id="cur-moon-percent"]/text())`)
	moonImageExpr    = xpath.MustCompile(`string(//div[@id="qlook"]//img/@src)`)
	phaseCardExpr    = xpath.MustCompile(`//div[contains(@class, "moon-phases-card")]`)

	cardTitleExpr = xpath.MustCompile(`string(.//h3/a/text())`)
	cardDateExpr  = xpath.MustCompile(`string(.//div[@class="moon-phases-card__date"]/text())`)
	cardTimeExpr  = xpath.MustCompile(`string(.//div[@class="moon-phases-card__time"]/text())`)
	cardImageExpr = xpath.MustCompile(`string(.//img/@src)`)
)

// Parse extracts the current moon and upcoming phases from a lunar phase page.
// Relative image paths are resolved against siteURL.
func Parse(r io.Reader, siteURL string) (*Data, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse lunar page: %w", err)
	}

	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL: %w", err)
	}

	data := &Data{
		CurrentPhase: evalString(doc, currentPhaseExpr),
		Illumination: evalString(doc, illuminationExpr),
		MoonImage:    resolve(base, evalString(doc, moonImageExpr)),
		Phases:       make([]Phase, 0, 4),
	}

	for _, card := range htmlquery.QuerySelectorAll(doc, phaseCardExpr) {
		phase := Phase{
			Title: evalString(card, cardTitleExpr),
			Date:  evalString(card, cardDateExpr),
			Time:  evalString(card, cardTimeExpr),
			Image: resolve(base, evalString(card, cardImageExpr)),
		}
		// Nested __date/__time divs also match the card query; they carry no title
		if phase.Title == "" || phase.Date == "" || phase.Time == "" {
			continue
		}
		data.Phases = append(data.Phases, phase)
	}

	return data, nil
}

func evalString(n *html.Node, expr *xpath.Expr) string {
	v, _ := expr.Evaluate(htmlquery.CreateXPathNavigator(n)).(string)
	return strings.TrimSpace(v)
}

func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
