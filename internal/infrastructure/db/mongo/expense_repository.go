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

const collectionExpenses = "expenses"

type ExpenseRepository struct {
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{col: db.Collection(collectionExpenses)}
}

type expenseDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	SiteID        string             `bson:"site_id"`
	CompanyName   string             `bson:"company_name"`
	CreatedBy     string             `bson:"created_by"`
	Description   string             `bson:"description"`
	Amount        string             `bson:"amount"`
	Date          time.Time          `bson:"date"`
	Status        string             `bson:"status"`
	PaymentStatus string             `bson:"payment_status"`
	PaidDate      *time.Time         `bson:"paid_date,omitempty"`
	Invoice       *fileRefDoc        `bson:"invoice,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *expenseDoc) toDomain() (*domain.Expense, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("expense %s: amount: %w", d.ID.Hex(), err)
	}
	e := &domain.Expense{
		ID:            d.ID.Hex(),
		SiteID:        d.SiteID,
		CompanyName:   d.CompanyName,
		CreatedBy:     d.CreatedBy,
		Description:   d.Description,
		Amount:        amount,
		Date:          d.Date,
		Status:        domain.ExpenseStatus(d.Status),
		PaymentStatus: domain.ExpensePaymentStatus(d.PaymentStatus),
		PaidDate:      d.PaidDate,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Invoice != nil {
		e.Invoice = &domain.FileRef{Path: d.Invoice.Path, Filename: d.Invoice.Filename}
	}
	return e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := expenseDoc{
		SiteID:        e.SiteID,
		CompanyName:   e.CompanyName,
		CreatedBy:     e.CreatedBy,
		Description:   e.Description,
		Amount:        e.Amount.String(),
		Date:          e.Date,
		Status:        string(e.Status),
		PaymentStatus: string(e.PaymentStatus),
		PaidDate:      e.PaidDate,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.Invoice != nil {
		doc.Invoice = &fileRefDoc{Path: e.Invoice.Path, Filename: e.Invoice.Filename}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain()
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrExpenseNotFound
	}

	var doc expenseDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return doc.toDomain()
}

func (r *ExpenseRepository) ListBySite(ctx context.Context, siteID string) ([]*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"site_id": siteID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Expense
	for cur.Next(ctx) {
		var doc expenseDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode expense: %w", err)
		}
		e, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

func (r *ExpenseRepository) SetStatus(ctx context.Context, id string, status domain.ExpenseStatus) (*domain.Expense, error) {
	return r.findAndSet(ctx, id, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}})
}

func (r *ExpenseRepository) SetPaymentStatus(ctx context.Context, id string, status domain.ExpensePaymentStatus, paidAt *time.Time) (*domain.Expense, error) {
	set := bson.M{
		"payment_status": string(status),
		"updated_at":     time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if paidAt != nil {
		set["paid_date"] = *paidAt
	} else {
		update["$unset"] = bson.M{"paid_date": ""}
	}
	return r.findAndSet(ctx, id, update)
}

func (r *ExpenseRepository) AttachInvoice(ctx context.Context, id string, ref domain.FileRef) (*domain.Expense, error) {
	return r.findAndSet(ctx, id, bson.M{"$set": bson.M{
		"invoice":    fileRefDoc{Path: ref.Path, Filename: ref.Filename},
		"updated_at": time.Now().UTC(),
	}})
}

func (r *ExpenseRepository) findAndSet(ctx context.Context, id string, update bson.M) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrExpenseNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc expenseDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return doc.toDomain()
}

// EnsureIndexes creates the indexes the expense queries rely on.
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "site_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "company_name", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
