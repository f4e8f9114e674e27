package providers

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebook/carebook/internal/storage"
	"github.com/carebook/carebook/pkg/logging"
)

const collectionName = "providers"

// MongoRepository persists providers in the shared document store.
type MongoRepository struct {
	store  *storage.Store
	logger *logging.Logger
}

func NewMongoRepository(store *storage.Store, logger *logging.Logger) *MongoRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &MongoRepository{store: store, logger: logger}
}

var _ Repository = (*MongoRepository)(nil)

func (r *MongoRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.store.Collection(ctx, collectionName)
}

// EnsureIndexes creates the unique email index. Email uniqueness is enforced
// here, at the store level, so concurrent creates cannot race past a
// handler-side check.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("providers: create email index: %w", err)
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, q ListQuery) ([]Provider, int64, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := buildFilter(q)
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("providers: list: %w", err)
	}
	defer cursor.Close(ctx)

	out := []Provider{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("providers: decode list: %w", err)
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("providers: count: %w", err)
	}
	return out, total, nil
}

// buildFilter translates the parsed query into store directives. Search terms
// are quoted so user input is matched as a literal substring.
func buildFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if q.Specialty != "" {
		filter["specialty"] = caseInsensitive(q.Specialty)
	}
	if q.Search != "" {
		re := caseInsensitive(q.Search)
		filter["$or"] = []bson.M{
			{"name": re},
			{"specialty": re},
			{"email": re},
		}
	}
	return filter
}

func caseInsensitive(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Provider, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var p Provider
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("providers: get %s: %w", id.Hex(), err)
	}
	return &p, nil
}

func (r *MongoRepository) Create(ctx context.Context, p *Provider) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("providers: insert: %w", err)
	}
	return nil
}

func (r *MongoRepository) Update(ctx context.Context, p *Provider) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("providers: update %s: %w", p.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("providers: delete %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Summary, error) {
	out := make(map[primitive.ObjectID]Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("providers: summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var matched []Provider
	if err := cursor.All(ctx, &matched); err != nil {
		return nil, fmt.Errorf("providers: decode summaries: %w", err)
	}
	for i := range matched {
		out[matched[i].ID] = matched[i].Summarize(false)
	}
	return out, nil
}

func (r *MongoRepository) Detail(ctx context.Context, id primitive.ObjectID) (*Summary, error) {
	p, err := r.GetByID(ctx, id)
	if err == ErrNotFound {
		// Weak reference: a deleted provider is not an error.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := p.Summarize(true)
	return &s, nil
}
