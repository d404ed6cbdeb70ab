package ledger

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mayanews/newsdigest/internal/types"
)

// MongoArchive is an optional secondary store that keeps every accepted
// article across days. Records are upserted by URL, mirroring the daily
// table's overwrite-on-conflict semantics.
type MongoArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
	count      int
	logger     *slog.Logger
}

// NewMongoArchive connects to MongoDB and prepares the archive collection.
func NewMongoArchive(uri, database, collection string, logger *slog.Logger) (*MongoArchive, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.LedgerError{Backend: "mongodb", Op: "connect", Err: err}
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, &types.LedgerError{Backend: "mongodb", Op: "ping", Err: err}
	}

	return &MongoArchive{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_archive"),
	}, nil
}

// Upsert stores a record keyed by URL, replacing any prior version.
func (a *MongoArchive) Upsert(ctx context.Context, record types.ArticleRecord) error {
	doc := bson.M{
		"date":         record.Date.UTC().Format("2006-01-02"),
		"category":     record.Category,
		"keyword":      record.Keyword,
		"headline":     record.Headline,
		"source":       record.Source,
		"url":          record.URL,
		"summary":      record.Summary,
		"extracted_at": record.ExtractedAt.UTC(),
	}

	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := a.collection.ReplaceOne(opCtx,
		bson.M{"url": record.URL},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return &types.LedgerError{Backend: "mongodb", Op: "upsert", Err: err}
	}

	a.count++
	a.logger.Debug("record archived", "url", record.URL, "total", a.count)
	return nil
}

// Close disconnects from MongoDB.
func (a *MongoArchive) Close() error {
	a.logger.Info("mongo archive closing", "total_records", a.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}
