package generator

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/idealo/mongodb-randomizers/random"
)

// Query types accepted by NewQueryGenerator.
const (
	QueryRandom   = -1
	QueryAuthor   = 0
	QueryTag      = 1
	QueryRecent   = 2
	QueryFullText = 3
)

// QueryGenerator provides random filters for benchmarking find operations
type QueryGenerator struct {
	picker
	queryType int
	now       func() time.Time
}

// NewQueryGenerator returns a generator for the given query type. QueryRandom picks one of the author, tag and recent
// filters per call; full-text filters need a text index and are only produced when requested explicitly.
func NewQueryGenerator(svc *random.Service, queryType int) (*QueryGenerator, error) {
	p, err := newPicker(svc)
	if err != nil {
		return nil, err
	}

	return &QueryGenerator{picker: p, queryType: queryType, now: time.Now}, nil
}

// Generate returns a filter for a complex find operation
func (g *QueryGenerator) Generate() bson.M {
	queryType := g.queryType
	if queryType < 0 {
		queryType = g.intn(3)
	}

	switch queryType {
	case QueryAuthor:
		return bson.M{"author": g.element(authors)}
	case QueryTag:
		return bson.M{"tags": bson.M{"$elemMatch": bson.M{"$eq": g.element(tags)}}}
	case QueryRecent:
		// Filter by timestamp greater than some random date in the last six months
		past := g.now().Add(-time.Duration(g.intn(365*12)) * time.Hour)
		return bson.M{"timestamp": bson.M{"$gt": past}}
	case QueryFullText:
		return bson.M{"$text": bson.M{"$search": g.element(tags)}}
	default:
		return bson.M{}
	}
}
