// Package dataset generates the deterministic local fallback dataset.
package dataset

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"

	"github.com/shopspring/decimal"
)

// MaxAgeDays is how far back generated dates may reach from the anchor.
const MaxAgeDays = 30 * 18

var sources = []string{
	"Reuters", "Bloomberg", "The Verge", "TechCrunch", "Wall Street Journal", "Financial Times",
	"CNBC", "Forbes", "Wired", "The Information", "Ars Technica", "Engadget", "Protocol", "VentureBeat",
}

var (
	positiveVerbs = []string{"surges", "expands", "announces", "partners with", "wins", "tops", "accelerates", "outperforms", "beats"}
	neutralVerbs  = []string{"introduces", "files", "launches", "reports", "reveals", "updates", "mentions", "notes", "states"}
	negativeVerbs = []string{"falls", "warns", "delays", "faces probe", "misses", "recalls", "downgrades", "cuts", "suffers"}
)

// Catalog lists categories in a stable order with their competitors.
type Catalog interface {
	Slugs() []string
	CompetitorNames(slug string) []string
}

// Batch is the generated content of one category file.
type Batch struct {
	Category string
	Records  []models.SourceRecord
}

// Generator produces the same rows for the same seed, anchor and catalog.
type Generator struct {
	catalog Catalog
	seed    int64
	rows    int
	anchor  func() time.Time
}

// NewGenerator builds a generator. A zero anchor means "today" at generation time.
func NewGenerator(catalog Catalog, seed int64, rowsPerCategory int, anchor time.Time) *Generator {
	if rowsPerCategory <= 0 {
		rowsPerCategory = 100
	}
	g := &Generator{catalog: catalog, seed: seed, rows: rowsPerCategory}
	if anchor.IsZero() {
		g.anchor = func() time.Time { return util.TruncateDay(time.Now()) }
	} else {
		a := util.TruncateDay(anchor)
		g.anchor = func() time.Time { return a }
	}
	return g
}

// Generate returns one batch per category in catalog order. One PRNG is shared
// across categories, so a batch depends on every category generated before it.
func (g *Generator) Generate() []Batch {
	rng := rand.New(rand.NewSource(g.seed))
	anchor := g.anchor()

	slugs := g.catalog.Slugs()
	out := make([]Batch, 0, len(slugs))
	for _, slug := range slugs {
		companies := g.catalog.CompetitorNames(slug)
		if len(companies) == 0 {
			continue
		}
		records := make([]models.SourceRecord, 0, g.rows)
		for i := 0; i < g.rows; i++ {
			records = append(records, makeRow(rng, slug, companies, anchor))
		}
		sort.SliceStable(records, func(i, j int) bool { return records[i].Date > records[j].Date })
		out = append(out, Batch{Category: slug, Records: records})
	}
	return out
}

func makeRow(rng *rand.Rand, slug string, companies []string, anchor time.Time) models.SourceRecord {
	company := companies[rng.Intn(len(companies))]

	var (
		label models.Sentiment
		score float64
		verb  string
	)
	switch roll := rng.Float64(); {
	case roll < 0.4:
		label, score, verb = models.Positive, uniform(rng, 0.21, 1.0), pick(rng, positiveVerbs)
	case roll < 0.8:
		label, score, verb = models.Neutral, uniform(rng, -0.2, 0.2), pick(rng, neutralVerbs)
	default:
		label, score, verb = models.Negative, uniform(rng, -1.0, -0.21), pick(rng, negativeVerbs)
	}

	headline := fmt.Sprintf("%s %s in %s market", company, verb, strings.ReplaceAll(slug, "-", " "))
	date := util.FormatDate(util.AddDays(anchor, -rng.Intn(MaxAgeDays+1)))
	source := pick(rng, sources)
	rounded, _ := decimal.NewFromFloat(score).Round(3).Float64()

	return models.SourceRecord{
		Date:     date,
		Headline: headline,
		Source:   source,
		Link:     fmt.Sprintf("https://example.com/%s/%s/%d", slug, util.Dashed(company), headlineHash(headline)%100000),
	}.Scored(label, rounded)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func pick(rng *rand.Rand, xs []string) string {
	return xs[rng.Intn(len(xs))]
}

func headlineHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
