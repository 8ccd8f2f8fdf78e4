// Package catalog is the static list of tracked market categories and competitors.
package catalog

import (
	"fmt"
	"strings"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"
)

type entry struct {
	slug        string
	name        string
	competitors []string
}

var entries = []entry{
	{"ai-ml", "Artificial Intelligence & Machine Learning", []string{"OpenAI", "Anthropic", "DeepMind", "Hugging Face", "Stability AI"}},
	{"cloud-saas", "Cloud Computing & SaaS", []string{"AWS", "Microsoft Azure", "Google Cloud", "Salesforce", "Oracle"}},
	{"cybersecurity", "Cybersecurity & Data Privacy", []string{"Palo Alto Networks", "CrowdStrike", "Fortinet", "Cloudflare", "Check Point"}},
	{"web3", "Web3, Blockchain & Crypto", []string{"Coinbase", "Binance", "ConsenSys", "Chainalysis", "Polygon Labs"}},
	{"ar-vr", "Augmented & Virtual Reality", []string{"Meta (Reality Labs)", "HTC Vive", "Niantic", "Magic Leap", "Varjo"}},
	{"robotics", "Robotics & Automation", []string{"Boston Dynamics", "ABB Robotics", "iRobot", "Fanuc", "UiPath"}},
	{"semiconductors", "Semiconductors & Hardware", []string{"Intel", "AMD", "NVIDIA", "TSMC", "Qualcomm"}},
	{"quantum", "Quantum Computing", []string{"IBM Quantum", "Rigetti", "IonQ", "D-Wave Systems", "Xanadu"}},
	{"consumer-electronics", "Consumer Electronics", []string{"Apple", "Samsung Electronics", "Sony", "LG Electronics", "Xiaomi"}},
	{"green-energy", "Green Tech & Energy Innovation", []string{"Tesla Energy", "Enphase Energy", "Siemens Energy", "Ørsted", "First Solar"}},
}

// Catalog is a read-only lookup over the categories, in declaration order.
type Catalog struct {
	categories []models.Category
	bySlug     map[string]int
}

// New builds the default catalog.
func New() *Catalog {
	c := &Catalog{bySlug: make(map[string]int, len(entries))}
	for i, e := range entries {
		cat := models.Category{Slug: e.slug, Name: e.name}
		for _, name := range e.competitors {
			cat.Competitors = append(cat.Competitors, models.Competitor{Name: name, Logo: LogoPath(e.slug, name)})
		}
		c.categories = append(c.categories, cat)
		c.bySlug[e.slug] = i
	}
	return c
}

// LogoPath is the static logo location for a competitor.
func LogoPath(slug, competitor string) string {
	return fmt.Sprintf("backend/logos/%s/%s.png", slug, util.Dashed(competitor))
}

// All returns every category in catalog order.
func (c *Catalog) All() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Slugs returns the category slugs in catalog order.
func (c *Catalog) Slugs() []string {
	out := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat.Slug)
	}
	return out
}

func (c *Catalog) Get(slug string) (models.Category, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return models.Category{}, false
	}
	return c.categories[i], true
}

// CompetitorNames lists the competitor names of slug, or nil for unknown slugs.
func (c *Catalog) CompetitorNames(slug string) []string {
	cat, ok := c.Get(slug)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(cat.Competitors))
	for _, comp := range cat.Competitors {
		names = append(names, comp.Name)
	}
	return names
}

// QueryText picks the provider query for a request: the company, else the
// category slug, else a generic default.
func QueryText(company, category string) string {
	if q := strings.TrimSpace(company); q != "" {
		return q
	}
	if q := strings.TrimSpace(category); q != "" {
		return q
	}
	return "AI technology"
}
