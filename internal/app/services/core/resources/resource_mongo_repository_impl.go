package resources

import (
	"context"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResourceMongoRepository struct {
	Collection *mongo.Collection
}

func NewResourceMongoRepository(db *mongo.Client, dbName string) contracts.ResourceRepository {
	return &ResourceMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionResources),
	}
}

func (repo *ResourceMongoRepository) CreateResource(ctx context.Context, resourceModel *models.Resource) (resourceID string, err error) {
	resourceModel.ID = ""
	result, err := repo.Collection.InsertOne(ctx, resourceModel)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *ResourceMongoRepository) FindResourceByID(ctx context.Context, tenantID, resourceID string) (*models.Resource, error) {
	objectID, err := primitive.ObjectIDFromHex(resourceID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var resource models.Resource
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID, "tenantId": tenantID}).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &resource, nil
}

func (repo *ResourceMongoRepository) FindAllResources(ctx context.Context, tenantID string, page, pageSize int) ([]models.Resource, int64, error) {
	filter := bson.M{"tenantId": tenantID}

	total, err := repo.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	findOptions := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := repo.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return resources, total, nil
}

func (repo *ResourceMongoRepository) UpdateResource(ctx context.Context, resourceModel *models.Resource) error {
	objectID, err := primitive.ObjectIDFromHex(resourceModel.ID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	update := bson.M{"$set": bson.M{
		"name":                   resourceModel.Name,
		"timezone":               resourceModel.Timezone,
		"sessionDurationMinutes": resourceModel.SessionDurationMinutes,
		"weeklySchedule":         resourceModel.WeeklySchedule,
		"overrides":              resourceModel.Overrides,
		"active":                 resourceModel.Active,
		"updatedAt":              resourceModel.UpdatedAt,
	}}

	_, err = repo.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "tenantId": resourceModel.TenantID}, update, options.Update().SetUpsert(false))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (repo *ResourceMongoRepository) DeleteResourceByID(ctx context.Context, tenantID, resourceID string) error {
	objectID, err := primitive.ObjectIDFromHex(resourceID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}
	_, err = repo.Collection.DeleteOne(ctx, bson.M{"_id": objectID, "tenantId": tenantID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}
