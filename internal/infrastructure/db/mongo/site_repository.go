package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

const collectionSites = "sites"

type SiteRepository struct {
	col *mongo.Collection
}

func NewSiteRepository(db *mongo.Database) *SiteRepository {
	return &SiteRepository{col: db.Collection(collectionSites)}
}

// Money is stored as a decimal string to avoid float drift in bson.
type siteDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CompanyName   string             `bson:"company_name"`
	OwnerUserID   string             `bson:"owner_user_id"`
	Name          string             `bson:"name"`
	Address       string             `bson:"address,omitempty"`
	ContractValue string             `bson:"contract_value"`
	ClientName    string             `bson:"client_name,omitempty"`
	ClientEmail   string             `bson:"client_email,omitempty"`
	ClientPhone   string             `bson:"client_phone,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *siteDoc) toDomain() (*domain.Site, error) {
	value, err := decimal.NewFromString(d.ContractValue)
	if err != nil {
		return nil, fmt.Errorf("site %s: contract value: %w", d.ID.Hex(), err)
	}
	return &domain.Site{
		ID:            d.ID.Hex(),
		CompanyName:   d.CompanyName,
		OwnerUserID:   d.OwnerUserID,
		Name:          d.Name,
		Address:       d.Address,
		ContractValue: value,
		ClientName:    d.ClientName,
		ClientEmail:   d.ClientEmail,
		ClientPhone:   d.ClientPhone,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

func (r *SiteRepository) Create(ctx context.Context, s *domain.Site) (*domain.Site, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := siteDoc{
		CompanyName:   s.CompanyName,
		OwnerUserID:   s.OwnerUserID,
		Name:          s.Name,
		Address:       s.Address,
		ContractValue: s.ContractValue.String(),
		ClientName:    s.ClientName,
		ClientEmail:   s.ClientEmail,
		ClientPhone:   s.ClientPhone,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert site: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain()
}

func (r *SiteRepository) FindByID(ctx context.Context, id string) (*domain.Site, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSiteNotFound
	}

	var doc siteDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSiteNotFound
		}
		return nil, fmt.Errorf("find site: %w", err)
	}
	return doc.toDomain()
}

func (r *SiteRepository) ListByOwners(ctx context.Context, ownerIDs []string) ([]*domain.Site, error) {
	return r.list(ctx, bson.M{"owner_user_id": bson.M{"$in": ownerIDs}})
}

func (r *SiteRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Site, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *SiteRepository) list(ctx context.Context, filter bson.M) ([]*domain.Site, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Site
	for cur.Next(ctx) {
		var doc siteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode site: %w", err)
		}
		s, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, cur.Err()
}

// EnsureIndexes creates the indexes the site queries rely on.
func (r *SiteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_name", Value: 1}}},
		{Keys: bson.D{{Key: "owner_user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
