package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

const collectionActivity = "activity_events"

type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

type activityDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SiteID      string             `bson:"site_id"`
	CompanyName string             `bson:"company_name"`
	ActorID     string             `bson:"actor_id"`
	Kind        string             `bson:"kind"`
	Message     string             `bson:"message"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, e *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := activityDoc{
		SiteID:      e.SiteID,
		CompanyName: e.CompanyName,
		ActorID:     e.ActorID,
		Kind:        string(e.Kind),
		Message:     e.Message,
		CreatedAt:   e.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByActors(ctx context.Context, actorIDs []string, limit int) ([]*domain.ActivityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"actor_id": bson.M{"$in": actorIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity events: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.ActivityEvent
	for cur.Next(ctx) {
		var doc activityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode activity event: %w", err)
		}
		out = append(out, &domain.ActivityEvent{
			ID:          doc.ID.Hex(),
			SiteID:      doc.SiteID,
			CompanyName: doc.CompanyName,
			ActorID:     doc.ActorID,
			Kind:        domain.ActivityKind(doc.Kind),
			Message:     doc.Message,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return out, cur.Err()
}

// EnsureIndexes creates the indexes the feed queries rely on.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
