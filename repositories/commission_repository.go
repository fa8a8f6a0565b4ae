package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentshore/rentshore_backend/config"
	"github.com/rentshore/rentshore_backend/models"
)

// CommissionChangeEvent is emitted when another writer mutates the
// commissions collection. Consumers re-fetch; the stream is advisory only.
type CommissionChangeEvent struct {
	OperationType string
	RecordID      primitive.ObjectID
}

// CommissionRepository is the store surface the disbursement logic runs
// against. Implementations persist whole records; concurrent edits are
// last write wins.
type CommissionRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.CommissionRecord, error)
	List(ctx context.Context, filter models.CommissionFilter) ([]models.CommissionRecord, error)
	Insert(ctx context.Context, record *models.CommissionRecord) error
	Update(ctx context.Context, record *models.CommissionRecord) error
	Watch(ctx context.Context) (<-chan CommissionChangeEvent, error)
}

// MongoCommissionRepository is the MongoDB-backed implementation
type MongoCommissionRepository struct {
	db *mongo.Client
}

// NewCommissionRepository creates a new commission repository
func NewCommissionRepository(db *mongo.Client) *MongoCommissionRepository {
	return &MongoCommissionRepository{db: db}
}

func (r *MongoCommissionRepository) collection() *mongo.Collection {
	return config.GetCollection(r.db, "commissions")
}

// Get fetches a single commission record by id
func (r *MongoCommissionRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.CommissionRecord, error) {
	var record models.CommissionRecord
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List fetches commission records matching the filter, newest first
func (r *MongoCommissionRepository) List(ctx context.Context, filter models.CommissionFilter) ([]models.CommissionRecord, error) {
	query := bson.M{}

	if filter.Status != "" {
		query["disbursementStatus"] = filter.Status
	}
	if filter.OwnerID != "" {
		ownerID, err := primitive.ObjectIDFromHex(filter.OwnerID)
		if err == nil {
			query["ownerId"] = ownerID
		}
	}
	if filter.AgentID != "" {
		agentID, err := primitive.ObjectIDFromHex(filter.AgentID)
		if err == nil {
			query["agentId"] = agentID
		}
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		dateRange := bson.M{}
		if filter.DateFrom != nil {
			dateRange["$gte"] = *filter.DateFrom
		}
		if filter.DateTo != nil {
			dateRange["$lte"] = *filter.DateTo
		}
		query["createdAt"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CommissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Insert stores a new commission record
func (r *MongoCommissionRepository) Insert(ctx context.Context, record *models.CommissionRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err := r.collection().InsertOne(ctx, record)
	return err
}

// Update replaces the stored record. Last write wins; the caller holds the
// full record it read.
func (r *MongoCommissionRepository) Update(ctx context.Context, record *models.CommissionRecord) error {
	record.UpdatedAt = time.Now()

	result, err := r.collection().ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Watch opens a change stream on the commissions collection and forwards
// change events until ctx is cancelled. Requires a replica set; callers treat
// a failed open as "no live updates", not an error worth aborting over.
func (r *MongoCommissionRepository) Watch(ctx context.Context) (<-chan CommissionChangeEvent, error) {
	stream, err := r.collection().Watch(ctx, mongo.Pipeline{}, options.ChangeStream())
	if err != nil {
		return nil, err
	}

	events := make(chan CommissionChangeEvent)
	go func() {
		defer close(events)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var change struct {
				OperationType string `bson:"operationType"`
				DocumentKey   struct {
					ID primitive.ObjectID `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&change); err != nil {
				continue
			}
			select {
			case events <- CommissionChangeEvent{
				OperationType: change.OperationType,
				RecordID:      change.DocumentKey.ID,
			}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
