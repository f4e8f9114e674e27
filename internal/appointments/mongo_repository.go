package appointments

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

const collectionName = "appointments"

// MongoRepository persists appointments in the shared document store.
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

// EnsureIndexes creates the secondary indexes the read paths lean on.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "appointmentDate", Value: 1}, {Key: "appointmentTime", Value: 1}}},
		{Keys: bson.D{{Key: "patientEmail", Value: 1}}},
		{Keys: bson.D{{Key: "provider", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("appointments: create indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, q ListQuery) ([]Appointment, int64, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := buildFilter(q)
	order := 1
	if q.Descending {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: order}}).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("appointments: list: %w", err)
	}
	defer cursor.Close(ctx)

	out := []Appointment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("appointments: decode list: %w", err)
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("appointments: count: %w", err)
	}
	return out, total, nil
}

// buildFilter translates the parsed query into store directives. Search terms
// are quoted so user input is matched as a literal substring.
func buildFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.ProviderSpecialty != "" {
		filter["providerSpecialty"] = q.ProviderSpecialty
	}
	if q.StartDate != nil || q.EndDate != nil {
		dateRange := bson.M{}
		if q.StartDate != nil {
			dateRange["$gte"] = *q.StartDate
		}
		if q.EndDate != nil {
			dateRange["$lte"] = *q.EndDate
		}
		filter["appointmentDate"] = dateRange
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"patientName": re},
			{"patientEmail": re},
			{"providerName": re},
			{"reason": re},
		}
	}
	return filter
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Appointment, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var a Appointment
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: get %s: %w", id.Hex(), err)
	}
	return &a, nil
}

func (r *MongoRepository) Create(ctx context.Context, a *Appointment) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

func (r *MongoRepository) Update(ctx context.Context, a *Appointment) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	a.UpdatedAt = time.Now().UTC()
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("appointments: update %s: %w", a.ID.Hex(), err)
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
		return fmt.Errorf("appointments: delete %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) ListByPatient(ctx context.Context, email string) ([]Appointment, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "appointmentDate", Value: 1},
		{Key: "appointmentTime", Value: 1},
	})
	cursor, err := coll.Find(ctx, bson.M{"patientEmail": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by patient: %w", err)
	}
	defer cursor.Close(ctx)

	out := []Appointment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("appointments: decode patient list: %w", err)
	}
	return out, nil
}
