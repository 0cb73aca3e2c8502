package awsinventory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/elC0mpa/spot-allocator/model"
	cachesvc "github.com/elC0mpa/spot-allocator/service/cache"
)

func NewService(awsconfig aws.Config, store cachesvc.CacheService, callTimeout time.Duration) *service {
	s := &service{
		cfg:         awsconfig,
		store:       store,
		callTimeout: callTimeout,
		clients:     make(map[string]EC2API),
	}
	s.newClient = func(region string) EC2API {
		regionCfg := awsconfig.Copy()
		regionCfg.Region = region
		return ec2.NewFromConfig(regionCfg)
	}
	return s
}

// NewServiceWithFactory injects a client factory, used by tests
func NewServiceWithFactory(store cachesvc.CacheService, callTimeout time.Duration, factory ClientFactory) *service {
	return &service{
		store:       store,
		callTimeout: callTimeout,
		newClient:   factory,
		clients:     make(map[string]EC2API),
	}
}

func (s *service) clientFor(region string) EC2API {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[region]; ok {
		return client
	}

	client := s.newClient(region)
	s.clients[region] = client
	return client
}

func (s *service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

func (s *service) ListRegions(ctx context.Context) ([]string, error) {
	return cachesvc.GetOrFetch(s.store, "regions", "all", cachesvc.RegionListTTL, func() ([]string, error) {
		callCtx, cancel := s.callCtx(ctx)
		defer cancel()

		output, err := s.clientFor(s.cfg.Region).DescribeRegions(callCtx, &ec2.DescribeRegionsInput{})
		if err != nil {
			return nil, err
		}

		regions := make([]string, 0, len(output.Regions))
		for _, region := range output.Regions {
			regions = append(regions, aws.ToString(region.RegionName))
		}
		sort.Strings(regions)

		return regions, nil
	})
}

func (s *service) ListZones(ctx context.Context, region string) ([]model.Zone, error) {
	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	output, err := s.clientFor(region).DescribeAvailabilityZones(callCtx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("state"),
				Values: []string{"available"},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	zones := make([]model.Zone, 0, len(output.AvailabilityZones))
	for _, zone := range output.AvailabilityZones {
		zones = append(zones, model.Zone{
			ID:   aws.ToString(zone.ZoneId),
			Name: aws.ToString(zone.ZoneName),
		})
	}

	return zones, nil
}

func (s *service) ResolveInstanceTypes(ctx context.Context, req model.InstanceRequirements) ([]string, error) {
	arch := req.Arch
	if arch == "" {
		arch = "x86_64"
	}

	requirements := &types.InstanceRequirementsRequest{
		VCpuCount: &types.VCpuCountRangeRequest{
			Min: aws.Int32(req.VCpus),
		},
		MemoryMiB: &types.MemoryMiBRequest{
			Min: aws.Int32(req.MemoryMiB),
		},
	}

	if req.GPUVendor != "" {
		requirements.AcceleratorManufacturers = []types.AcceleratorManufacturer{
			types.AcceleratorManufacturer(strings.ToLower(req.GPUVendor)),
		}
		requirements.AcceleratorCount = &types.AcceleratorCountRequest{
			Min: aws.Int32(1),
		}
	}

	input := &ec2.GetInstanceTypesFromInstanceRequirementsInput{
		ArchitectureTypes:    []types.ArchitectureType{types.ArchitectureType(arch)},
		VirtualizationTypes:  []types.VirtualizationType{types.VirtualizationTypeHvm},
		InstanceRequirements: requirements,
	}

	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	var instanceTypes []string
	paginator := ec2.NewGetInstanceTypesFromInstanceRequirementsPaginator(s.clientFor(s.cfg.Region), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(callCtx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.InstanceTypes {
			instanceTypes = append(instanceTypes, aws.ToString(item.InstanceType))
		}
	}
	sort.Strings(instanceTypes)

	return instanceTypes, nil
}

func (s *service) GetPlacementScores(ctx context.Context, region string, instanceTypes []string, targetCapacity int32) ([]model.PlacementScore, error) {
	scope := fmt.Sprintf("%s/%s/%d", region, strings.Join(instanceTypes, ","), targetCapacity)

	return cachesvc.GetOrFetch(s.store, "placement-scores", scope, cachesvc.PlacementScoreTTL, func() ([]model.PlacementScore, error) {
		input := &ec2.GetSpotPlacementScoresInput{
			TargetCapacity:         aws.Int32(targetCapacity),
			InstanceTypes:          instanceTypes,
			SingleAvailabilityZone: aws.Bool(true),
			RegionNames:            []string{region},
		}

		callCtx, cancel := s.callCtx(ctx)
		defer cancel()

		var scores []model.PlacementScore
		paginator := ec2.NewGetSpotPlacementScoresPaginator(s.clientFor(region), input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(callCtx)
			if err != nil {
				return nil, err
			}
			for _, item := range page.SpotPlacementScores {
				scores = append(scores, model.PlacementScore{
					Region: aws.ToString(item.Region),
					ZoneID: aws.ToString(item.AvailabilityZoneId),
					Score:  aws.ToInt32(item.Score),
				})
			}
		}

		return scores, nil
	})
}

func (s *service) GetPriceHistory(ctx context.Context, region string, instanceTypes []string, window time.Duration, platform string) ([]model.PriceSample, error) {
	now := time.Now()

	ec2Types := make([]types.InstanceType, 0, len(instanceTypes))
	for _, instanceType := range instanceTypes {
		ec2Types = append(ec2Types, types.InstanceType(instanceType))
	}

	input := &ec2.DescribeSpotPriceHistoryInput{
		InstanceTypes:       ec2Types,
		ProductDescriptions: []string{platform},
		StartTime:           aws.Time(now.Add(-window)),
		EndTime:             aws.Time(now),
	}

	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	var samples []model.PriceSample
	paginator := ec2.NewDescribeSpotPriceHistoryPaginator(s.clientFor(region), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(callCtx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.SpotPriceHistory {
			price, err := strconv.ParseFloat(aws.ToString(item.SpotPrice), 64)
			if err != nil || price <= 0 {
				continue
			}
			samples = append(samples, model.PriceSample{
				ZoneName:     aws.ToString(item.AvailabilityZone),
				InstanceType: string(item.InstanceType),
				Price:        price,
				Timestamp:    aws.ToTime(item.Timestamp),
			})
		}
	}

	return samples, nil
}

func (s *service) ArtifactExists(ctx context.Context, region, namePattern, arch string) (bool, error) {
	filters := []types.Filter{
		{
			Name:   aws.String("name"),
			Values: []string{namePattern},
		},
		{
			Name:   aws.String("state"),
			Values: []string{"available"},
		},
	}
	if arch != "" {
		filters = append(filters, types.Filter{
			Name:   aws.String("architecture"),
			Values: []string{arch},
		})
	}

	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	output, err := s.clientFor(region).DescribeImages(callCtx, &ec2.DescribeImagesInput{
		Filters: filters,
	})
	if err != nil {
		return false, err
	}

	return len(output.Images) > 0, nil
}

func (s *service) OfferedInstanceTypes(ctx context.Context, region string, instanceTypes []string) ([]string, error) {
	input := &ec2.DescribeInstanceTypeOfferingsInput{
		LocationType: types.LocationTypeRegion,
		Filters: []types.Filter{
			{
				Name:   aws.String("location"),
				Values: []string{region},
			},
			{
				Name:   aws.String("instance-type"),
				Values: instanceTypes,
			},
		},
	}

	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	offered := make(map[string]struct{})
	paginator := ec2.NewDescribeInstanceTypeOfferingsPaginator(s.clientFor(region), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(callCtx)
		if err != nil {
			return nil, err
		}
		for _, offering := range page.InstanceTypeOfferings {
			offered[string(offering.InstanceType)] = struct{}{}
		}
	}

	names := make([]string, 0, len(offered))
	for name := range offered {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
