package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elC0mpa/spot-allocator/cmd/mcp/response"
	"github.com/elC0mpa/spot-allocator/model"
	"github.com/elC0mpa/spot-allocator/service/allocator"
	awsconfig "github.com/elC0mpa/spot-allocator/service/aws/config"
	awsinventory "github.com/elC0mpa/spot-allocator/service/aws/inventory"
	awspricing "github.com/elC0mpa/spot-allocator/service/aws/pricing"
	awssts "github.com/elC0mpa/spot-allocator/service/aws/sts"
	"github.com/elC0mpa/spot-allocator/service/cache"
	"github.com/elC0mpa/spot-allocator/service/evaluator"
	"github.com/elC0mpa/spot-allocator/service/probe"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterSpotTools registers the spot optimizer tools with the MCP server
func RegisterSpotTools(s *server.MCPServer, profile string, workers, probeWorkers int, callTimeout time.Duration) {
	s.AddTool(
		mcp.NewTool("spot_find_best_allocation",
			mcp.WithDescription("Find the cheapest reliable (region, availability zone, instance type) combination for a spot instance across all AWS regions, and a safe bid price. Provide either instance_types or vcpus+memory_gib."),
			mcp.WithString("instance_types", mcp.Description("Comma separated instance types to evaluate (e.g. m5.large,m5a.large)")),
			mcp.WithNumber("vcpus", mcp.Description("Minimum vCPU count, used when instance_types is not given")),
			mcp.WithNumber("memory_gib", mcp.Description("Minimum memory in GiB, used when instance_types is not given")),
			mcp.WithString("arch", mcp.Description("CPU architecture, x86_64 (default) or arm64")),
			mcp.WithString("gpu", mcp.Description("GPU vendor constraint, e.g. nvidia")),
			mcp.WithString("ami_pattern", mcp.Description("AMI name pattern that must exist in the chosen region")),
			mcp.WithString("platform", mcp.Description("Spot product description, default Linux/UNIX")),
			mcp.WithNumber("rate", mcp.Description("Percentage added on top of the max observed price when bidding, default 10")),
			mcp.WithNumber("tolerance", mcp.Description("Minimum placement score a zone must exceed, default 3")),
		),
		makeFindBestAllocationHandler(profile, workers, probeWorkers, callTimeout),
	)

	s.AddTool(
		mcp.NewTool("spot_get_region_candidates",
			mcp.WithDescription("Evaluate one AWS region and list its priced, scored spot placement candidates for a set of instance types"),
			mcp.WithString("region", mcp.Description("Region to evaluate, e.g. us-east-1"), mcp.Required()),
			mcp.WithString("instance_types", mcp.Description("Comma separated instance types"), mcp.Required()),
			mcp.WithNumber("tolerance", mcp.Description("Minimum placement score a zone must exceed, default 3")),
		),
		makeRegionCandidatesHandler(profile, callTimeout),
	)

	s.AddTool(
		mcp.NewTool("spot_get_account_info",
			mcp.WithDescription("Get AWS account identity information including account ID and ARN"),
		),
		makeAccountInfoHandler(profile),
	)
}

func makeFindBestAllocationHandler(profile string, workers, probeWorkers int, callTimeout time.Duration) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		configSvc := awsconfig.NewService()
		awsCfg, err := configSvc.GetAWSCfg(ctx, "us-east-1", profile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		args := request.GetArguments()

		req := model.AllocationRequest{
			InstanceTypes: splitTypes(stringArg(args, "instance_types")),
			Requirements: model.InstanceRequirements{
				VCpus:     int32(numberArg(args, "vcpus", 0)),
				MemoryMiB: int32(numberArg(args, "memory_gib", 0) * 1024),
				Arch:      stringArg(args, "arch"),
				GPUVendor: stringArg(args, "gpu"),
			},
			AMIPattern: stringArg(args, "ami_pattern"),
			AMIArch:    stringArg(args, "arch"),
			Platform:   stringArg(args, "platform"),
			Rate:       numberArg(args, "rate", 10),
			Tolerance:  int32(numberArg(args, "tolerance", 3)),
		}

		cacheService := cache.NewService()
		inventorySvc := awsinventory.NewService(awsCfg, cacheService, callTimeout)
		pricingSvc := awspricing.NewService(awsCfg, callTimeout)
		evaluatorSvc := evaluator.NewService(inventorySvc)
		probeSvc := probe.NewService(inventorySvc, probeWorkers)
		allocatorSvc := allocator.NewService(inventorySvc, evaluatorSvc, probeSvc, pricingSvc, workers)

		result, err := allocatorSvc.FindBestAllocation(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to find allocation: %v", err)), nil
		}

		resp := response.ConvertAllocationResult(result)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeRegionCandidatesHandler(profile string, callTimeout time.Duration) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		configSvc := awsconfig.NewService()
		awsCfg, err := configSvc.GetAWSCfg(ctx, "us-east-1", profile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		args := request.GetArguments()

		region := stringArg(args, "region")
		instanceTypes := splitTypes(stringArg(args, "instance_types"))
		if region == "" || len(instanceTypes) == 0 {
			return mcp.NewToolResultError("region and instance_types are required"), nil
		}

		req := model.AllocationRequest{
			InstanceTypes:  instanceTypes,
			Platform:       "Linux/UNIX",
			Tolerance:      int32(numberArg(args, "tolerance", 3)),
			TargetCapacity: 1,
		}

		cacheService := cache.NewService()
		inventorySvc := awsinventory.NewService(awsCfg, cacheService, callTimeout)
		evaluatorSvc := evaluator.NewService(inventorySvc)

		candidates, err := evaluatorSvc.Evaluate(ctx, region, req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to evaluate %s: %v", region, err)), nil
		}

		resp := response.ConvertCandidates(region, candidates)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeAccountInfoHandler(profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		configSvc := awsconfig.NewService()
		awsCfg, err := configSvc.GetAWSCfg(ctx, "us-east-1", profile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		stsSvc := awssts.NewService(awsCfg)
		info, err := stsSvc.GetAccountInfo(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get account info: %v", err)), nil
		}

		resp := response.ConvertAccountInfo(info)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func stringArg(args map[string]any, key string) string {
	if value, ok := args[key].(string); ok {
		return value
	}
	return ""
}

func numberArg(args map[string]any, key string, defaultValue float64) float64 {
	if value, ok := args[key].(float64); ok {
		return value
	}
	return defaultValue
}

func splitTypes(list string) []string {
	if list == "" {
		return nil
	}

	var instanceTypes []string
	for _, instanceType := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(instanceType); trimmed != "" {
			instanceTypes = append(instanceTypes, trimmed)
		}
	}

	return instanceTypes
}
