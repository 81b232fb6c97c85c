package contracts

import (
	"context"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/dto/responses"
)

type ResourceUsecase interface {
	CreateResource(ctx context.Context, tenantID string, request *requests.CreateResource) (*responses.Resource, error)
	FindResourceByID(ctx context.Context, tenantID, resourceID string) (*responses.Resource, error)
	FindAllResources(ctx context.Context, tenantID string, query *requests.QueryParams) ([]responses.Resource, int64, error)
	UpdateResourceByID(ctx context.Context, tenantID, resourceID string, request *requests.UpdateResource) (*responses.Resource, error)
	DeleteResourceByID(ctx context.Context, tenantID, resourceID string) error
}

type ResourceRepository interface {
	CreateResource(ctx context.Context, resourceModel *models.Resource) (resourceID string, err error)
	FindResourceByID(ctx context.Context, tenantID, resourceID string) (*models.Resource, error)
	FindAllResources(ctx context.Context, tenantID string, page, pageSize int) ([]models.Resource, int64, error)
	UpdateResource(ctx context.Context, resourceModel *models.Resource) error
	DeleteResourceByID(ctx context.Context, tenantID, resourceID string) error
}
