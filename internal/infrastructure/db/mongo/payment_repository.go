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

const collectionPayments = "payments"

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

type fileRefDoc struct {
	Path     string `bson:"path"`
	Filename string `bson:"filename"`
}

type paymentDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	SiteID       string             `bson:"site_id"`
	CompanyName  string             `bson:"company_name"`
	CreatedBy    string             `bson:"created_by"`
	Title        string             `bson:"title"`
	Amount       string             `bson:"amount"`
	Mode         string             `bson:"mode,omitempty"`
	DueDate      time.Time          `bson:"due_date"`
	Status       string             `bson:"status"`
	StatusManual bool               `bson:"status_manual,omitempty"`
	PaidDate     *time.Time         `bson:"paid_date,omitempty"`
	Invoice      *fileRefDoc        `bson:"invoice,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *paymentDoc) toDomain() (*domain.Payment, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("payment %s: amount: %w", d.ID.Hex(), err)
	}
	p := &domain.Payment{
		ID:           d.ID.Hex(),
		SiteID:       d.SiteID,
		CompanyName:  d.CompanyName,
		CreatedBy:    d.CreatedBy,
		Title:        d.Title,
		Amount:       amount,
		Mode:         d.Mode,
		DueDate:      d.DueDate,
		Status:       domain.PaymentStatus(d.Status),
		StatusManual: d.StatusManual,
		PaidDate:     d.PaidDate,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Invoice != nil {
		p.Invoice = &domain.FileRef{Path: d.Invoice.Path, Filename: d.Invoice.Filename}
	}
	return p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := paymentDoc{
		SiteID:      p.SiteID,
		CompanyName: p.CompanyName,
		CreatedBy:   p.CreatedBy,
		Title:       p.Title,
		Amount:      p.Amount.String(),
		Mode:        p.Mode,
		DueDate:     p.DueDate,
		Status:      string(p.Status),
		PaidDate:    p.PaidDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain()
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}

	var doc paymentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return doc.toDomain()
}

func (r *PaymentRepository) ListBySite(ctx context.Context, siteID string) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"site_id": siteID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Payment
	for cur.Next(ctx) {
		var doc paymentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode payment: %w", err)
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

// UpdateStatusIf is the conditional write behind reconciliation: the status
// changes only when the stored value still matches what the caller read, so
// concurrent reconcilers cannot clobber each other or an admin action that
// landed in between. Re-deriving an overridden row consumes the manual flag.
func (r *PaymentRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.PaymentStatus, includeManual bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, domain.ErrPaymentNotFound
	}

	filter := bson.M{"_id": oid, "status": string(from)}
	if !includeManual {
		filter["status_manual"] = bson.M{"$ne": true}
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"status":        string(to),
		"status_manual": false,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return false, fmt.Errorf("update payment status: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// SetPaid atomically marks the payment paid. The filter excludes already-paid
// rows so the paid date is stamped exactly once; if the row was already paid
// the stored document is returned unchanged.
func (r *PaymentRepository) SetPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc paymentDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": bson.M{"$ne": string(domain.PaymentPaid)}},
		bson.M{"$set": bson.M{
			"status":        string(domain.PaymentPaid),
			"status_manual": false,
			"paid_date":     paidAt,
			"updated_at":    paidAt,
		}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Already paid (or gone): fall back to a plain read.
			return r.FindByID(ctx, id)
		}
		return nil, fmt.Errorf("set payment paid: %w", err)
	}
	return doc.toDomain()
}

// SetStatusOverride force-sets the status and flags the row as manually
// overridden. Paid stamps the paid date; any other value clears it.
func (r *PaymentRepository) SetStatusOverride(ctx context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}

	set := bson.M{
		"status":        string(status),
		"status_manual": true,
		"updated_at":    time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if paidAt != nil {
		set["paid_date"] = *paidAt
	} else {
		update["$unset"] = bson.M{"paid_date": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc paymentDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("override payment status: %w", err)
	}
	return doc.toDomain()
}

// EnsureIndexes creates the indexes the payment queries rely on.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "site_id", Value: 1}, {Key: "due_date", Value: 1}}},
		{Keys: bson.D{{Key: "company_name", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
