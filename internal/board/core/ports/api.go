package ports

import (
	"context"

	"ride-admin/internal/board/core/domain/dto"
)

// IAdminAPI is the platform REST surface the board consumes. All business
// rules live behind it; the board only calls and caches.
type IAdminAPI interface {
	Drivers(ctx context.Context, page int, status string) (dto.DriverPage, error)
	PendingDrivers(ctx context.Context) ([]dto.PendingDriverDTO, error)
	Driver(ctx context.Context, id string) (dto.DriverDTO, error)
	ApproveDriver(ctx context.Context, id string) (dto.ActionResponse, error)
	RejectDriver(ctx context.Context, id, reason string) (dto.ActionResponse, error)

	LiveRides(ctx context.Context, limit int) ([]dto.LiveRideDTO, error)
	Stats(ctx context.Context) (dto.AdminStats, error)

	ChangeRequests(ctx context.Context) ([]dto.ChangeRequestDTO, error)
	ApproveChangeRequest(ctx context.Context, id string) (dto.ActionResponse, error)
	RejectChangeRequest(ctx context.Context, id, reason string) (dto.ActionResponse, error)

	Fleets(ctx context.Context) ([]dto.FleetDTO, error)
	CreateFleet(ctx context.Context, form dto.FleetForm) (dto.FleetDTO, error)
	Corporates(ctx context.Context) ([]dto.CorporateDTO, error)
	CreateCorporate(ctx context.Context, form dto.CorporateForm) (dto.CorporateDTO, error)
	Promotions(ctx context.Context) ([]dto.PromotionDTO, error)
	CreatePromotion(ctx context.Context, form dto.PromotionForm) (dto.PromotionDTO, error)
	SetPromotionActive(ctx context.Context, id string, active bool) (dto.ActionResponse, error)

	Admins(ctx context.Context) ([]dto.AdminDTO, error)
	GrantAdmin(ctx context.Context, email string) (dto.ActionResponse, error)
	RevokeAdmin(ctx context.Context, userID string) (dto.ActionResponse, error)

	ImportDrivers(ctx context.Context, req dto.DriverImportRequest) (dto.DriverImportResponse, error)
}
