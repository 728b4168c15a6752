package repository

import (
	"context"
	"fmt"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/infrastructure/repository/entity"
	"bundle-discount-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	shopsCollection     *mongo.Collection
	webhooksCollection  *mongo.Collection
	analyticsCollection *mongo.Collection
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(db *mongo.Database) ports.Repository {
	return &MongoRepository{
		shopsCollection:     db.Collection("shops"),
		webhooksCollection:  db.Collection("webhook_events"),
		analyticsCollection: db.Collection("analytics_events"),
	}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.shopsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "domain", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create shop index: %w", err)
	}

	_, err = r.analyticsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shop", Value: 1}, {Key: "bundleId", Value: 1}, {Key: "occurredAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create analytics index: %w", err)
	}
	return nil
}

// SaveShop saves or updates a shop
func (r *MongoRepository) SaveShop(ctx context.Context, shop *domain.Shop) error {
	doc := entity.MongoShopDocFromDomain(shop)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"domain": shop.Domain}
	update := bson.M{"$set": doc}

	_, err := r.shopsCollection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save shop: %w", err)
	}

	return nil
}

// GetShop retrieves a shop by domain
func (r *MongoRepository) GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	var doc entity.MongoShopDoc
	filter := bson.M{"domain": shopDomain}

	err := r.shopsCollection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return doc.ToDomain(), nil
}

// DeleteShop removes a shop and its access token
func (r *MongoRepository) DeleteShop(ctx context.Context, shopDomain string) error {
	_, err := r.shopsCollection.DeleteOne(ctx, bson.M{"domain": shopDomain})
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	return nil
}

// LogWebhook logs a webhook event
func (r *MongoRepository) LogWebhook(ctx context.Context, event *domain.WebhookEvent) error {
	doc := entity.MongoWebhookDocFromDomain(event)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	_, err := r.webhooksCollection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to log webhook: %w", err)
	}

	return nil
}

// LogAnalyticsEvent stores a widget beacon
func (r *MongoRepository) LogAnalyticsEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	doc := entity.MongoAnalyticsDocFromDomain(event)
	if doc.OccurredAt.IsZero() {
		doc.OccurredAt = time.Now()
	}

	_, err := r.analyticsCollection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to log analytics event: %w", err)
	}

	return nil
}
