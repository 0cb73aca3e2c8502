package orchestrator

import (
	"github.com/elC0mpa/spot-allocator/model"
	"github.com/elC0mpa/spot-allocator/service"
)

// ProvisionFactory builds a provisioning workflow bound to the winning
// region, which is only known after allocation
type ProvisionFactory func(region string) service.ProvisionService

type orchestratorService struct {
	identityService  service.IdentityService
	allocatorService service.AllocatorService
	provisionFactory ProvisionFactory
}

type OrchestratorService interface {
	Orchestrate(model.Flags) error
}
