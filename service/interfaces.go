package service

import (
	"context"
	"time"

	"github.com/elC0mpa/spot-allocator/model"
)

// IdentityService provides cloud account identity information
type IdentityService interface {
	GetAccountInfo(ctx context.Context) (*model.AccountInfo, error)
}

// InventoryService provides read-only access to the cloud's placement and
// pricing signals. It never mutates cloud state.
type InventoryService interface {
	ListRegions(ctx context.Context) ([]string, error)
	ListZones(ctx context.Context, region string) ([]model.Zone, error)
	ResolveInstanceTypes(ctx context.Context, req model.InstanceRequirements) ([]string, error)
	GetPlacementScores(ctx context.Context, region string, instanceTypes []string, targetCapacity int32) ([]model.PlacementScore, error)
	GetPriceHistory(ctx context.Context, region string, instanceTypes []string, window time.Duration, platform string) ([]model.PriceSample, error)
	ArtifactExists(ctx context.Context, region, namePattern, arch string) (bool, error)
	OfferedInstanceTypes(ctx context.Context, region string, instanceTypes []string) ([]string, error)
}

// PricingService provides on-demand list prices for the savings report
type PricingService interface {
	GetOnDemandPrice(ctx context.Context, instanceType, region string) (float64, error)
}

// ProbeService answers which regions can host a given machine image
type ProbeService interface {
	FindRegionsWithImage(ctx context.Context, regions []string, namePattern, arch string) ([]string, error)
}

// EvaluatorService produces one region's contribution to the candidate pool
type EvaluatorService interface {
	Evaluate(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error)
}

// AllocatorService is the optimizer entry point
type AllocatorService interface {
	FindBestAllocation(ctx context.Context, req model.AllocationRequest) (*model.AllocationResult, error)
}

// ProvisionService turns an AllocationResult into a running machine. It is
// the only part of the system that mutates cloud state.
type ProvisionService interface {
	LaunchSpotInstance(ctx context.Context, result *model.AllocationResult, amiPattern, keyName string) (*model.LaunchedInstance, error)
}
