package bookings

import (
	"context"
	"time"

	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingMongoRepository struct {
	Collection *mongo.Collection
}

func NewBookingMongoRepository(db *mongo.Client, dbName string) contracts.BookingRepository {
	return &BookingMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionBookings),
	}
}

func (repo *BookingMongoRepository) CreateBooking(ctx context.Context, bookingModel *models.Booking) (bookingID string, err error) {
	bookingModel.ID = ""
	result, err := repo.Collection.InsertOne(ctx, bookingModel)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *BookingMongoRepository) FindBookingByID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var booking models.Booking
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID, "tenantId": tenantID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &booking, nil
}

func (repo *BookingMongoRepository) FindBookingsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.Booking, error) {
	filter := bson.M{"tenantId": tenantID, "leadId": leadID}
	cursor, err := repo.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}}))
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return bookings, nil
}

func (repo *BookingMongoRepository) FindActiveBookingsByResourceAndRange(ctx context.Context, tenantID, resourceID string, from, to time.Time) ([]models.Booking, error) {
	// Half-open interval intersection: startAt < to && endAt > from.
	filter := bson.M{
		"tenantId":   tenantID,
		"resourceId": resourceID,
		"status":     models.BookingStatusConfirmed,
		"startAt":    bson.M{"$lt": to},
		"endAt":      bson.M{"$gt": from},
	}

	cursor, err := repo.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}}))
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return bookings, nil
}

func (repo *BookingMongoRepository) FindNearestBookingByLead(ctx context.Context, tenantID, leadID string, after time.Time) (*models.Booking, error) {
	filter := bson.M{
		"tenantId": tenantID,
		"leadId":   leadID,
		"status":   models.BookingStatusConfirmed,
		"startAt":  bson.M{"$gte": after},
	}

	var booking models.Booking
	err := repo.Collection.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "startAt", Value: 1}})).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &booking, nil
}

func (repo *BookingMongoRepository) UpdateBooking(ctx context.Context, bookingModel *models.Booking) error {
	objectID, err := primitive.ObjectIDFromHex(bookingModel.ID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	update := bson.M{"$set": bson.M{
		"status":    bookingModel.Status,
		"notes":     bookingModel.Notes,
		"updatedAt": bookingModel.UpdatedAt,
	}}

	_, err = repo.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "tenantId": bookingModel.TenantID}, update, options.Update().SetUpsert(false))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
