package generator

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/idealo/mongodb-randomizers/random"
)

// LargeDataSize is the size of the random payload attached by GenerateLarge.
const LargeDataSize = 1024 * 2

var (
	tags       = []string{"MongoDB", "Benchmark", "CMS", "Database", "Performance", "WebApp", "Scalability", "Indexing", "Query Optimization", "Sharding"}
	authors    = []string{"Alice Example", "John Doe", "Maria Sample", "Max Mustermann", "Sophie Miller", "Liam Johnson", "Emma Brown", "Noah Davis", "Olivia Wilson", "William Martinez"}
	categories = []string{"Tech", "Business", "Science", "Health", "Sports", "Education"}
	lorem      = []string{
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		"Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
		"Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur.",
		"Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.",
	}
)

// picker draws indexes and probabilities from a random.Service.
type picker struct {
	ints   random.NumberRandomizer[int]
	int64s random.TypedRandomizer[int64]
	floats random.NumberRandomizer[float32]
}

func newPicker(svc *random.Service) (picker, error) {
	ints, err := random.Number[int](svc)
	if err != nil {
		return picker{}, err
	}

	int64s, err := random.Typed[int64](svc)
	if err != nil {
		return picker{}, err
	}

	floats, err := random.Number[float32](svc)
	if err != nil {
		return picker{}, err
	}

	return picker{ints: ints, int64s: int64s, floats: floats}, nil
}

// intn returns a value in [0,n). Like rand.Intn it panics if n <= 0.
func (p picker) intn(n int) int {
	v, err := p.ints.NextMax(n)
	if err != nil {
		panic(err)
	}
	return v
}

// chance reports true with the given probability.
func (p picker) chance(probability float32) bool {
	v, err := p.floats.NextMax(1)
	if err != nil {
		panic(err)
	}
	return v < probability
}

func (p picker) element(list []string) string {
	return list[p.intn(len(list))]
}

// sample returns n distinct elements of list without reordering list itself.
func (p picker) sample(list []string, n int) []string {
	cp := append([]string(nil), list...)
	for i := 0; i < n; i++ {
		j := i + p.intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
	}
	return cp[:n]
}

// DocumentGenerator builds benchmark documents. It is not safe for concurrent use; give each worker its own.
type DocumentGenerator struct {
	picker
	data []byte
	now  func() time.Time
}

// NewDocumentGenerator returns a generator drawing from svc, which must support int, int64 and float32.
func NewDocumentGenerator(svc *random.Service) (*DocumentGenerator, error) {
	p, err := newPicker(svc)
	if err != nil {
		return nil, err
	}

	return &DocumentGenerator{
		picker: p,
		data:   make([]byte, LargeDataSize),
		now:    time.Now,
	}, nil
}

func (g *DocumentGenerator) GenerateSimple(threadRunCount int) bson.M {
	return bson.M{"threadRunCount": threadRunCount,
		"rnd": g.int64s.Next(),
		"v":   1,
	}
}

// GenerateLarge returns a simple document with LargeDataSize random bytes attached. The payload buffer is reused
// between calls.
func (g *DocumentGenerator) GenerateLarge(threadRunCount int) bson.M {
	for i := range g.data {
		g.data[i] = byte(g.intn(256))
	}
	return bson.M{"threadRunCount": threadRunCount,
		"rnd":  g.int64s.Next(),
		"v":    1,
		"data": g.data,
	}
}

func (g *DocumentGenerator) GenerateComplex(threadRunCount int) bson.M {
	numTags := g.intn(3) + 4      // 4–6 tags
	numCoAuthors := g.intn(3) + 1 // 1–3 co-authors

	return bson.M{
		"_id":            primitive.NewObjectID(),
		"threadRunCount": threadRunCount,
		"rnd":            g.int64s.Next(),
		"v":              1,
		"title":          g.generateLoremIpsum(30),
		"author":         g.element(authors),
		"co_authors":     g.sample(authors, numCoAuthors),
		"summary":        g.generateLoremIpsum(100),
		"content":        g.generateLoremIpsum(2000 + g.intn(3000)),
		"tags":           g.sample(tags, numTags),
		"category":       g.element(categories),
		"timestamp":      g.now().Add(-time.Duration(g.intn(365*2)) * 24 * time.Hour),
		"views":          g.intn(10000),
		"comments":       g.intn(500),
		"likes":          g.intn(1000),
		"shares":         g.intn(200),
	}
}

func (g *DocumentGenerator) generateLoremIpsum(length int) string {
	var text strings.Builder
	for text.Len() < length {
		if g.chance(0.1) { // 10% chance to insert a tag
			text.WriteString(g.element(tags) + " ")
		} else {
			text.WriteString(g.element(lorem) + " ")
		}
	}
	return text.String()[:length]
}
