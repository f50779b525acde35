package accountRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teleka/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const fareSettingsID = "fares"

// MongoAccountRepo implements AccountRepository using MongoDB. Drivers live
// in one collection and the approved flag separates the review queue.
type MongoAccountRepo struct {
	customers     *mongo.Collection
	drivers       *mongo.Collection
	notifications *mongo.Collection
	settings      *mongo.Collection
	bookings      *mongo.Collection
	defaults      models.FareSettings
}

// NewMongoAccountRepo binds the repository to db.
func NewMongoAccountRepo(db *mongo.Database, defaults models.FareSettings, logger *zap.Logger) AccountRepository {
	repo := &MongoAccountRepo{
		customers:     db.Collection("customers"),
		drivers:       db.Collection("drivers"),
		notifications: db.Collection("notifications"),
		settings:      db.Collection("settings"),
		bookings:      db.Collection("bookings"),
		defaults:      defaults,
	}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create indexes", zap.Error(err))
	}
	return repo
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func (r *MongoAccountRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.customers.Indexes().CreateMany(ctx, unique); err != nil {
		return fmt.Errorf("customers: %w", err)
	}
	if _, err := r.drivers.Indexes().CreateMany(ctx, unique); err != nil {
		return fmt.Errorf("drivers: %w", err)
	}
	_, err := r.notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("notifications: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if _, err := r.customers.InsertOne(ctx, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var c models.Customer
	if err := r.customers.FindOne(ctx, bson.M{"email": email}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *MongoAccountRepo) CreatePendingDriver(ctx context.Context, driver *models.Driver) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	d := *driver
	d.Approved = false
	if _, err := r.drivers.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) ListPendingDrivers(ctx context.Context) ([]models.Driver, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.drivers.Find(ctx, bson.M{"approved": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("failed to decode pending drivers: %w", err)
	}
	return drivers, nil
}

func (r *MongoAccountRepo) GetDriverByEmail(ctx context.Context, email string) (*models.Driver, error) {
	return r.findDriver(ctx, bson.M{"email": email, "approved": true})
}

func (r *MongoAccountRepo) GetPendingDriverByEmail(ctx context.Context, email string) (*models.Driver, error) {
	return r.findDriver(ctx, bson.M{"email": email, "approved": false})
}

func (r *MongoAccountRepo) findDriver(ctx context.Context, filter bson.M) (*models.Driver, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var d models.Driver
	if err := r.drivers.FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *MongoAccountRepo) ApproveDriver(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.drivers.UpdateOne(ctx,
		bson.M{"id": id, "approved": false},
		bson.M{"$set": bson.M{"approved": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to approve driver %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAccountRepo) RejectDriver(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.drivers.DeleteOne(ctx, bson.M{"id": id, "approved": false})
	if err != nil {
		return fmt.Errorf("failed to reject driver %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAccountRepo) AddNotification(ctx context.Context, n models.AdminNotification) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if _, err := r.notifications.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) RecentNotifications(ctx context.Context, limit int) ([]models.AdminNotification, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.notifications.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.AdminNotification{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return out, nil
}

type fareSettingsDoc struct {
	ID                  string `bson:"_id"`
	models.FareSettings `bson:",inline"`
}

func (r *MongoAccountRepo) GetFareSettings(ctx context.Context) (models.FareSettings, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var doc fareSettingsDoc
	err := r.settings.FindOne(ctx, bson.M{"_id": fareSettingsID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r.defaults, nil
	}
	if err != nil {
		return models.FareSettings{}, fmt.Errorf("failed to load fare settings: %w", err)
	}
	return doc.FareSettings, nil
}

func (r *MongoAccountRepo) SaveFareSettings(ctx context.Context, settings models.FareSettings) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := r.settings.ReplaceOne(ctx,
		bson.M{"_id": fareSettingsID},
		fareSettingsDoc{ID: fareSettingsID, FareSettings: settings},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save fare settings: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to store booking: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
