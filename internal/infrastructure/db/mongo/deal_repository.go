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

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

const dealsCollection = "deals"

type DealRepository struct {
	coll *mongo.Collection
}

func NewDealRepository(db *mongo.Database) *DealRepository {
	return &DealRepository{coll: db.Collection(dealsCollection)}
}

type mongoDealNote struct {
	UserID    string    `bson:"user_id"`
	Text      string    `bson:"text"`
	Timestamp time.Time `bson:"timestamp"`
}

type mongoDeal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ClientName   string             `bson:"client_name"`
	DealType     string             `bson:"deal_type"`
	Sector       string             `bson:"sector"`
	DealValue    *int64             `bson:"deal_value,omitempty"`
	CurrentStage string             `bson:"current_stage"`
	Summary      string             `bson:"summary"`
	Notes        []mongoDealNote    `bson:"notes"`
	CreatedBy    string             `bson:"created_by"`
	AssignedTo   string             `bson:"assigned_to,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toMongoDeal(d *domain.Deal) mongoDeal {
	notes := make([]mongoDealNote, 0, len(d.Notes))
	for _, n := range d.Notes {
		notes = append(notes, mongoDealNote{UserID: n.UserID, Text: n.Text, Timestamp: n.Timestamp})
	}
	return mongoDeal{
		ClientName:   d.ClientName,
		DealType:     d.DealType,
		Sector:       d.Sector,
		DealValue:    d.DealValue,
		CurrentStage: string(d.CurrentStage),
		Summary:      d.Summary,
		Notes:        notes,
		CreatedBy:    d.CreatedBy,
		AssignedTo:   d.AssignedTo,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (md mongoDeal) toDomain() *domain.Deal {
	notes := make([]domain.DealNote, 0, len(md.Notes))
	for _, n := range md.Notes {
		notes = append(notes, domain.DealNote{UserID: n.UserID, Text: n.Text, Timestamp: n.Timestamp.UTC()})
	}
	return &domain.Deal{
		ID:           md.ID.Hex(),
		ClientName:   md.ClientName,
		DealType:     md.DealType,
		Sector:       md.Sector,
		DealValue:    md.DealValue,
		CurrentStage: domain.DealStage(md.CurrentStage),
		Summary:      md.Summary,
		Notes:        notes,
		CreatedBy:    md.CreatedBy,
		AssignedTo:   md.AssignedTo,
		CreatedAt:    md.CreatedAt.UTC(),
		UpdatedAt:    md.UpdatedAt.UTC(),
	}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoDeal(deal))
	if err != nil {
		return nil, fmt.Errorf("insert deal: %w", err)
	}

	created := *deal
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *DealRepository) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDealNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDeal
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDealNotFound
		}
		return nil, fmt.Errorf("find deal: %w", err)
	}
	return md.toDomain(), nil
}

// Save replaces the whole deal document. Concurrent saves of the same deal
// are last-write-wins.
func (r *DealRepository) Save(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	oid, err := primitive.ObjectIDFromHex(deal.ID)
	if err != nil {
		return nil, domain.ErrDealNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toMongoDeal(deal))
	if err != nil {
		return nil, fmt.Errorf("save deal: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrDealNotFound
	}
	return deal, nil
}

func (r *DealRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("count deals: %w", err)
	}
	return n > 0, nil
}

func (r *DealRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDealNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

func (r *DealRepository) List(ctx context.Context) ([]*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer cur.Close(ctx)

	var deals []*domain.Deal
	for cur.Next(ctx) {
		var md mongoDeal
		if err := cur.Decode(&md); err != nil {
			return nil, fmt.Errorf("decode deal: %w", err)
		}
		deals = append(deals, md.toDomain())
	}
	return deals, cur.Err()
}

// EnsureIndexes creates the query indexes for the deals collection.
func (r *DealRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "current_stage", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
