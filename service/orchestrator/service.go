package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elC0mpa/spot-allocator/model"
	"github.com/elC0mpa/spot-allocator/service"
	"github.com/elC0mpa/spot-allocator/utils"
)

func NewService(identityService service.IdentityService, allocatorService service.AllocatorService, provisionFactory ProvisionFactory) *orchestratorService {
	return &orchestratorService{
		identityService:  identityService,
		allocatorService: allocatorService,
		provisionFactory: provisionFactory,
	}
}

func (s *orchestratorService) Orchestrate(flags model.Flags) error {
	ctx := context.Background()

	result, err := s.allocatorService.FindBestAllocation(ctx, BuildRequest(flags))
	if err != nil {
		utils.StopSpinner()
		if errors.Is(err, model.ErrNoCandidates) {
			return fmt.Errorf("the global search was exhaustive and empty: %w", err)
		}
		return err
	}

	accountInfo, err := s.identityService.GetAccountInfo(ctx)
	if err != nil {
		utils.StopSpinner()
		return err
	}

	utils.StopSpinner()

	utils.DrawAllocationTable(accountInfo.AccountID, result)

	if flags.Chart {
		utils.DrawCandidateChart(result.TopCandidates)
	}

	if flags.Launch {
		return s.launchWorkflow(ctx, result, flags)
	}

	return nil
}

func (s *orchestratorService) launchWorkflow(ctx context.Context, result *model.AllocationResult, flags model.Flags) error {
	if flags.AMIPattern == "" {
		return fmt.Errorf("-launch requires -ami so the instance has an image to boot")
	}

	provisionService := s.provisionFactory(result.Region)

	instance, err := provisionService.LaunchSpotInstance(ctx, result, flags.AMIPattern, flags.KeyName)
	if err != nil {
		return err
	}

	utils.DrawLaunchTable(instance)

	return nil
}

// BuildRequest maps parsed flags onto an optimizer request
func BuildRequest(flags model.Flags) model.AllocationRequest {
	var instanceTypes []string
	if flags.InstanceTypes != "" {
		for _, instanceType := range strings.Split(flags.InstanceTypes, ",") {
			if trimmed := strings.TrimSpace(instanceType); trimmed != "" {
				instanceTypes = append(instanceTypes, trimmed)
			}
		}
	}

	return model.AllocationRequest{
		InstanceTypes: instanceTypes,
		Requirements: model.InstanceRequirements{
			VCpus:     int32(flags.VCpus),
			MemoryMiB: int32(flags.MemoryGiB) * 1024,
			Arch:      flags.Arch,
			GPUVendor: flags.GPUVendor,
		},
		AMIPattern:     flags.AMIPattern,
		AMIArch:        flags.Arch,
		Platform:       flags.Platform,
		Rate:           flags.Rate,
		Tolerance:      int32(flags.Tolerance),
		TargetCapacity: int32(flags.TargetCapacity),
	}
}
