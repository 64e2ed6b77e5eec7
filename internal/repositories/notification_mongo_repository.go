package repositories

import (
	"context"
	"time"

	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationsCollection = "notifications"

type mongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository stores notifications in the "notifications"
// collection of mongoDB.
func NewMongoNotificationRepository(mongoDB *mongo.Database) NotificationRepository {
	return &mongoNotificationRepository{collection: mongoDB.Collection(notificationsCollection)}
}

// EnsureNotificationIndexes creates the recipient listing index.
func EnsureNotificationIndexes(ctx context.Context, mongoDB *mongo.Database) error {
	_, err := mongoDB.Collection(notificationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}}},
	})
	return err
}

func (r *mongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, notification)
	return models.NewStoreError("create notification", err)
}

func (r *mongoNotificationRepository) GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	filter := bson.M{"user_id": recipientID}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, models.NewStoreError("count notifications", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, models.NewStoreError("list notifications", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, models.NewStoreError("decode notifications", err)
	}
	return notifications, total, nil
}

func (r *mongoNotificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": recipientID, "is_read": false})
	return count, models.NewStoreError("count unread", err)
}

func (r *mongoNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": notificationID, "user_id": recipientID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return false, models.NewStoreError("mark read", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, models.NewStoreError("mark all read", err)
	}
	return res.ModifiedCount, nil
}
