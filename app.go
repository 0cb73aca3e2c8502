package main

import (
	"context"

	"github.com/elC0mpa/spot-allocator/service"
	"github.com/elC0mpa/spot-allocator/service/allocator"
	awsconfig "github.com/elC0mpa/spot-allocator/service/aws/config"
	awsinventory "github.com/elC0mpa/spot-allocator/service/aws/inventory"
	awspricing "github.com/elC0mpa/spot-allocator/service/aws/pricing"
	awssts "github.com/elC0mpa/spot-allocator/service/aws/sts"
	"github.com/elC0mpa/spot-allocator/service/cache"
	"github.com/elC0mpa/spot-allocator/service/evaluator"
	"github.com/elC0mpa/spot-allocator/service/flag"
	"github.com/elC0mpa/spot-allocator/service/orchestrator"
	"github.com/elC0mpa/spot-allocator/service/probe"
	"github.com/elC0mpa/spot-allocator/service/provision"
	"github.com/elC0mpa/spot-allocator/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	utils.DrawBanner()

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		logrus.Fatal(err)
	}

	cfgService := awsconfig.NewService()
	awsCfg, err := cfgService.GetAWSCfg(context.Background(), "us-east-1", flags.Profile)
	if err != nil {
		logrus.Fatal(err)
	}

	utils.StartSpinner()

	cacheService := cache.NewService()
	inventoryService := awsinventory.NewService(awsCfg, cacheService, flags.CallTimeout)
	pricingService := awspricing.NewService(awsCfg, flags.CallTimeout)
	stsService := awssts.NewService(awsCfg)

	evaluatorService := evaluator.NewService(inventoryService)
	probeService := probe.NewService(inventoryService, flags.ProbeWorkers)
	allocatorService := allocator.NewService(inventoryService, evaluatorService, probeService, pricingService, flags.Workers)

	provisionFactory := func(region string) service.ProvisionService {
		return provision.NewService(awsCfg, region)
	}

	orchestratorService := orchestrator.NewService(stsService, allocatorService, provisionFactory)

	if err := orchestratorService.Orchestrate(flags); err != nil {
		utils.StopSpinner()
		logrus.Fatal(err)
	}
}
