package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tenderdesk/caseforum/internal/core/ports"
)

// parentField scopes documents of a sub-collection to their parent document.
// Sub-collections share one Mongo collection per name.
const parentField = "_parent"

// DocumentStore implements ports.DocumentStore on MongoDB. Ids are stored as
// string _id values.
type DocumentStore struct {
	db *mongo.Database
}

var _ ports.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{db: db}
}

// List returns the documents of coll matching q.
func (s *DocumentStore) List(ctx context.Context, coll ports.Collection, q ports.Query) ([]ports.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scope(coll)
	for _, c := range q.Where {
		filter[c.Field] = c.Value
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Direction == ports.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "_id", Value: 1}})
	}

	cur, err := s.db.Collection(coll.Name).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Path(), err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Path(), err)
	}

	docs := make([]ports.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toDocument(m))
	}
	return docs, nil
}

// Get retrieves a single document by id.
func (s *DocumentStore) Get(ctx context.Context, coll ports.Collection, id string) (ports.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m bson.M
	err := s.db.Collection(coll.Name).FindOne(ctx, byID(coll, id)).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Document{}, ports.ErrNoDocument
		}
		return ports.Document{}, fmt.Errorf("find %s/%s: %w", coll.Path(), id, err)
	}
	return toDocument(m), nil
}

// Create inserts a new document under a generated ObjectID hex id.
func (s *DocumentStore) Create(ctx context.Context, coll ports.Collection, fields ports.Fields) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := primitive.NewObjectID().Hex()
	if _, err := s.db.Collection(coll.Name).InsertOne(ctx, toBSON(coll, id, fields)); err != nil {
		return "", fmt.Errorf("insert %s: %w", coll.Path(), err)
	}
	return id, nil
}

// Set upserts the document with the given id, replacing all its fields.
func (s *DocumentStore) Set(ctx context.Context, coll ports.Collection, id string, fields ports.Fields) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.Collection(coll.Name).ReplaceOne(ctx, byID(coll, id), toBSON(coll, id, fields), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", coll.Path(), id, err)
	}
	return nil
}

// Update sets the patch fields on an existing document.
func (s *DocumentStore) Update(ctx context.Context, coll ports.Collection, id string, patch ports.Fields) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.Collection(coll.Name).UpdateOne(ctx, byID(coll, id), bson.M{"$set": bson.M(patch)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", coll.Path(), id, err)
	}
	if res.MatchedCount == 0 {
		return ports.ErrNoDocument
	}
	return nil
}

// Delete removes the document; a missing id is not an error.
func (s *DocumentStore) Delete(ctx context.Context, coll ports.Collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.db.Collection(coll.Name).DeleteOne(ctx, byID(coll, id)); err != nil {
		return fmt.Errorf("delete %s/%s: %w", coll.Path(), id, err)
	}
	return nil
}

// EnsureIndexes creates the indexes backing the case and comment queries.
func (s *DocumentStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cases := []mongo.IndexModel{
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "stage", Value: 1}, {Key: "updatedAt", Value: -1}}},
	}
	if _, err := s.db.Collection("cases").Indexes().CreateMany(ctx, cases); err != nil {
		return fmt.Errorf("cases indexes: %w", err)
	}

	comments := []mongo.IndexModel{
		{Keys: bson.D{{Key: parentField, Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	if _, err := s.db.Collection("comments").Indexes().CreateMany(ctx, comments); err != nil {
		return fmt.Errorf("comments indexes: %w", err)
	}
	return nil
}

func scope(coll ports.Collection) bson.M {
	filter := bson.M{}
	if coll.IsNested() {
		filter[parentField] = coll.Parent + "/" + coll.ParentID
	}
	return filter
}

func byID(coll ports.Collection, id string) bson.M {
	filter := scope(coll)
	filter["_id"] = id
	return filter
}

func toBSON(coll ports.Collection, id string, fields ports.Fields) bson.M {
	doc := scope(coll)
	for k, v := range fields {
		doc[k] = v
	}
	doc["_id"] = id
	return doc
}

func toDocument(m bson.M) ports.Document {
	id, _ := m["_id"].(string)
	fields := make(ports.Fields, len(m))
	for k, v := range m {
		if k == "_id" || k == parentField {
			continue
		}
		fields[k] = v
	}
	return ports.Document{ID: id, Fields: fields}
}
