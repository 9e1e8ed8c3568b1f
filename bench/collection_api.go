package bench

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sampleThreshold is the collection size up to which all IDs are read instead of sampled.
const sampleThreshold = 1000

// CollectionAPI defines an interface for MongoDB operations, allowing for testing
type CollectionAPI interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
	Drop(ctx context.Context) error
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// IndexCreator is implemented by collections which can build the indexes used by the insertdoc and finddoc
// workloads.
type IndexCreator interface {
	CreateBenchmarkIndexes(ctx context.Context) error
}

// MongoDBCollection is a wrapper around mongo.Collection to implement CollectionAPI
type MongoDBCollection struct {
	*mongo.Collection
}

var (
	_ CollectionAPI = (*MongoDBCollection)(nil)
	_ IndexCreator  = (*MongoDBCollection)(nil)
)

func (c *MongoDBCollection) CreateBenchmarkIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "content", Value: "text"}}},
	}

	if _, err := c.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// FetchDocIDsFunc returns up to limit document IDs of a collection.
type FetchDocIDsFunc func(ctx context.Context, collection CollectionAPI, limit int64) ([]primitive.ObjectID, error)

// FetchDocumentIDs reads every ID of a small collection, or a random $sample of up to limit IDs of a large one. A
// limit <= 0 means the whole collection.
func FetchDocumentIDs(ctx context.Context, collection CollectionAPI, limit int64) ([]primitive.ObjectID, error) {
	estimatedCount, err := collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get estimated document count: %w", err)
	}

	size := estimatedCount
	if limit > 0 && limit < size {
		size = limit
	}

	var cursor *mongo.Cursor
	if estimatedCount <= sampleThreshold {
		opts := options.Find().SetProjection(bson.M{"_id": 1})
		if limit > 0 {
			opts.SetLimit(limit)
		}
		cursor, err = collection.Find(ctx, bson.M{}, opts)
	} else {
		pipeline := []bson.M{{"$sample": bson.M{"size": size}}, {"$project": bson.M{"_id": 1}}}
		cursor, err = collection.Aggregate(ctx, pipeline)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document IDs: %w", err)
	}
	defer cursor.Close(ctx)

	ids := make([]primitive.ObjectID, 0, size)
	for cursor.Next(ctx) {
		var result struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode document ID: %w", err)
		}
		ids = append(ids, result.ID)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return ids, nil
}
