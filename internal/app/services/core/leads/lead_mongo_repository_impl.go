package leads

import (
	"context"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeadMongoRepository struct {
	LeadCollection    *mongo.Collection
	CallLogCollection *mongo.Collection
}

func NewLeadMongoRepository(db *mongo.Client, dbName string) contracts.LeadRepository {
	return &LeadMongoRepository{
		LeadCollection:    db.Database(dbName).Collection(constvars.MongoCollectionLeads),
		CallLogCollection: db.Database(dbName).Collection(constvars.MongoCollectionCallLogs),
	}
}

func (repo *LeadMongoRepository) CreateLead(ctx context.Context, leadModel *models.Lead) (leadID string, err error) {
	leadModel.ID = ""
	result, err := repo.LeadCollection.InsertOne(ctx, leadModel)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *LeadMongoRepository) FindLeadByID(ctx context.Context, tenantID, leadID string) (*models.Lead, error) {
	objectID, err := primitive.ObjectIDFromHex(leadID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var lead models.Lead
	err = repo.LeadCollection.FindOne(ctx, bson.M{"_id": objectID, "tenantId": tenantID}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &lead, nil
}

func (repo *LeadMongoRepository) FindAllLeads(ctx context.Context, tenantID, status string, page, pageSize int) ([]models.Lead, int64, error) {
	filter := bson.M{"tenantId": tenantID}
	if status != "" {
		filter["status"] = status
	}

	total, err := repo.LeadCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	findOptions := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := repo.LeadCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return leads, total, nil
}

func (repo *LeadMongoRepository) UpdateLead(ctx context.Context, leadModel *models.Lead) error {
	objectID, err := primitive.ObjectIDFromHex(leadModel.ID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	update := bson.M{"$set": bson.M{
		"name":           leadModel.Name,
		"phone":          leadModel.Phone,
		"status":         leadModel.Status,
		"attemptCount":   leadModel.AttemptCount,
		"nextRetryAt":    leadModel.NextRetryAt,
		"nextRetryLocal": leadModel.NextRetryLocal,
		"lastOutcome":    leadModel.LastOutcome,
		"notes":          leadModel.Notes,
		"updatedAt":      leadModel.UpdatedAt,
	}}
	_, err = repo.LeadCollection.UpdateOne(ctx, bson.M{"_id": objectID, "tenantId": leadModel.TenantID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (repo *LeadMongoRepository) FindLeadsDueForRetry(ctx context.Context, now time.Time, limit int) ([]models.Lead, error) {
	filter := bson.M{
		"status":      constvars.LeadStatusRetryQueued,
		"nextRetryAt": bson.M{"$lte": now},
	}

	findOptions := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "nextRetryAt", Value: 1}})

	cursor, err := repo.LeadCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return leads, nil
}

func (repo *LeadMongoRepository) CreateCallLog(ctx context.Context, callLogModel *models.CallLog) (callLogID string, err error) {
	callLogModel.ID = ""
	result, err := repo.CallLogCollection.InsertOne(ctx, callLogModel)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *LeadMongoRepository) FindCallLogsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.CallLog, error) {
	filter := bson.M{"tenantId": tenantID, "leadId": leadID}

	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})

	cursor, err := repo.CallLogCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var callLogs []models.CallLog
	if err := cursor.All(ctx, &callLogs); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return callLogs, nil
}
