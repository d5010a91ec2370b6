package occ

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/grupokc/rpa-reclutamiento/models"
)

// parseCardHTML walks the results page markup card by card. The listing
// hides candidate names, so a stub carries headline, location and partial
// experience only; everything else arrives during enrichment.
func parseCardHTML(html string) []models.Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var stubs []models.Candidate
	doc.Find(selectors.cardLink).Each(func(_ int, card *goquery.Selection) {
		stub, ok := parseCard(card)
		if ok {
			stubs = append(stubs, stub)
		}
	})
	return stubs
}

func parseCard(card *goquery.Selection) (models.Candidate, bool) {
	href, _ := card.Attr("href")
	if href == "" {
		return models.Candidate{}, false
	}

	var c models.Candidate
	c.URL = absoluteURL(href)

	// The card id attribute ends with "...|<candidate-id>".
	if rawID, ok := card.Attr("id"); ok && rawID != "" {
		pieces := strings.Split(rawID, "|")
		c.ID = pieces[len(pieces)-1]
	}

	// Second column holds the textual content.
	content := card.Find("div > div:nth-of-type(2)").First()
	if content.Length() == 0 {
		return c.Normalized(), c.URL != ""
	}

	if title := content.Find("p").First(); title.Length() > 0 {
		c.Position = strings.TrimSpace(title.Text())
	}

	if locIcon := content.Find("svg.atomic__location").First(); locIcon.Length() > 0 {
		if loc := locIcon.NextAllFiltered("p").First(); loc.Length() > 0 {
			c.Location = strings.TrimSpace(loc.Text())
		} else if loc := locIcon.Parent().Find("p").First(); loc.Length() > 0 {
			c.Location = strings.TrimSpace(loc.Text())
		}
	}

	// The remaining blocks after header and metadata carry the experience
	// rows; the trailing one is education.
	var rows [][]string
	content.ChildrenFiltered("div").Each(func(i int, block *goquery.Selection) {
		if i < 2 {
			return
		}
		var texts []string
		block.Find("p").Each(func(_ int, p *goquery.Selection) {
			if t := strings.TrimSpace(p.Text()); t != "" {
				texts = append(texts, t)
			}
		})
		if len(texts) > 0 {
			rows = append(rows, texts)
		}
	})

	if len(rows) > 0 {
		c.Education = strings.Join(rows[len(rows)-1], " - ")
		rows = rows[:len(rows)-1]
	}
	for _, texts := range rows {
		exp := models.Experience{Position: texts[0]}
		if len(texts) > 1 {
			exp.StartDate = texts[1]
		}
		c.Experience = append(c.Experience, exp)
	}

	return c.Normalized(), true
}
