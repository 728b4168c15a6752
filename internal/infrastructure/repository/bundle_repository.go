package repository

import (
	"context"
	"fmt"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/infrastructure/repository/entity"
	"bundle-discount-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBundleRepository implements BundleRepository using MongoDB.
// Every query is scoped by shop domain.
type MongoBundleRepository struct {
	collection *mongo.Collection
}

// NewMongoBundleRepository creates a new MongoDB bundle repository
func NewMongoBundleRepository(db *mongo.Database) *MongoBundleRepository {
	return &MongoBundleRepository{
		collection: db.Collection("bundles"),
	}
}

var _ ports.BundleRepository = (*MongoBundleRepository)(nil)

// EnsureIndexes creates the shop listing index
func (r *MongoBundleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shopDomain", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create bundle index: %w", err)
	}
	return nil
}

// Create inserts a new bundle
func (r *MongoBundleRepository) Create(ctx context.Context, bundle *domain.BundleConfig) error {
	doc := entity.MongoBundleDocFromDomain(bundle)

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}

	return nil
}

// Update replaces a stored bundle
func (r *MongoBundleRepository) Update(ctx context.Context, bundle *domain.BundleConfig) error {
	doc := entity.MongoBundleDocFromDomain(bundle)
	filter := bson.M{"_id": bundle.ID, "shopDomain": bundle.ShopDomain}

	result, err := r.collection.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("failed to update bundle: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("bundle %s: %w", bundle.ID, domain.ErrBundleNotFound)
	}

	return nil
}

// GetByID retrieves a bundle of a shop
func (r *MongoBundleRepository) GetByID(ctx context.Context, shop, id string) (*domain.BundleConfig, error) {
	var doc entity.MongoBundleDoc
	filter := bson.M{"_id": id, "shopDomain": shop}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bundle: %w", err)
	}

	return doc.ToDomain(), nil
}

// ListByShop retrieves the bundles of a shop in creation order
func (r *MongoBundleRepository) ListByShop(ctx context.Context, shop string) ([]*domain.BundleConfig, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"shopDomain": shop}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	defer cursor.Close(ctx)

	var bundles []*domain.BundleConfig
	for cursor.Next(ctx) {
		var doc entity.MongoBundleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode bundle: %w", err)
		}
		bundles = append(bundles, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return bundles, nil
}

// Delete deletes a bundle of a shop
func (r *MongoBundleRepository) Delete(ctx context.Context, shop, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "shopDomain": shop})
	if err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	return nil
}

// DeleteByShop deletes every bundle of a shop
func (r *MongoBundleRepository) DeleteByShop(ctx context.Context, shop string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"shopDomain": shop})
	if err != nil {
		return 0, fmt.Errorf("failed to delete shop bundles: %w", err)
	}
	return result.DeletedCount, nil
}
