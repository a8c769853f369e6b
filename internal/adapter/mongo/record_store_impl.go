package mongo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

const (
	collectionName    = "brand_records"
	defaultQueryLimit = 50
)

// recordDocument is the stored shape of a brand record.
type recordDocument struct {
	ID         string                `bson:"_id"`
	SourceURL  string                `bson:"sourceUrl"`
	Status     string                `bson:"status"`
	Properties bson.M                `bson:"properties"`
	Blocks     []entity.ContentBlock `bson:"blocks"`
	CreatedAt  time.Time             `bson:"createdAt"`
	UpdatedAt  time.Time             `bson:"updatedAt"`
}

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, eris.Wrap(err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, eris.Wrap(err, "ping mongo")
	}
	return client, nil
}

// RecordStoreImpl keeps brand records as one document each, blocks embedded.
type RecordStoreImpl struct {
	collection *mongo.Collection
}

// NewRecordStore creates a new instance of RecordStoreImpl.
func NewRecordStore(client *mongo.Client, database string) *RecordStoreImpl {
	return &RecordStoreImpl{collection: client.Database(database).Collection(collectionName)}
}

func (r *RecordStoreImpl) Create(ctx context.Context, props map[string]any, blocks []entity.ContentBlock) (string, error) {
	properties, err := jsonDocument(props)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	sourceURL, _ := props["sourceUrl"].(string)
	doc := recordDocument{
		ID:         uuid.NewString(),
		SourceURL:  sourceURL,
		Status:     statusOf(props, entity.RecordStatusActive),
		Properties: properties,
		Blocks:     blocks,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", eris.Wrap(err, "insert brand record")
	}
	return doc.ID, nil
}

func (r *RecordStoreImpl) Patch(ctx context.Context, id string, props map[string]any) error {
	set := patchSet(props, time.Now().UTC())
	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return eris.Wrapf(err, "patch brand record %s", id)
	}
	if res.MatchedCount == 0 {
		return eris.Wrapf(repository.ErrRecordNotFound, "patch %s", id)
	}
	return nil
}

func (r *RecordStoreImpl) Query(ctx context.Context, filter entity.RecordFilter) ([]*entity.BrandRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	query := bson.M{}
	if filter.SourceURL != "" {
		query["sourceUrl"] = filter.SourceURL
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))

	cur, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, eris.Wrap(err, "query brand records")
	}
	defer cur.Close(ctx)

	var records []*entity.BrandRecord
	for cur.Next(ctx) {
		var doc recordDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, eris.Wrap(err, "decode brand record")
		}
		rec, err := doc.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, cur.Err()
}

func (r *RecordStoreImpl) Archive(ctx context.Context, id string) error {
	return r.Patch(ctx, id, map[string]any{"status": entity.RecordStatusArchived})
}

// patchSet turns props into a $set document on the embedded property set.
func patchSet(props map[string]any, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	for k, v := range props {
		set["properties."+k] = v
	}
	if s := statusOf(props, ""); s != "" {
		set["status"] = s
	}
	return set
}

// jsonDocument stores props under their JSON names, so nested lists such as
// distributors keep the keys RecordFromProperties reads back.
func jsonDocument(props map[string]any) (bson.M, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, eris.Wrap(err, "encode properties")
	}
	var doc bson.M
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "decode properties")
	}
	return doc, nil
}

func (d recordDocument) record() (*entity.BrandRecord, error) {
	raw, err := json.Marshal(d.Properties)
	if err != nil {
		return nil, eris.Wrapf(err, "encode properties of %s", d.ID)
	}
	rec, err := entity.RecordFromProperties(d.ID, raw)
	if err != nil {
		return nil, eris.Wrapf(err, "decode brand record %s", d.ID)
	}
	rec.Status = d.Status
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = d.CreatedAt
	}
	return rec, nil
}

func statusOf(props map[string]any, fallback string) string {
	if s, ok := props["status"].(string); ok && s != "" {
		return s
	}
	return fallback
}
