package flag

import (
	"flag"
	"time"

	"github.com/elC0mpa/spot-allocator/model"
)

type service struct{}

func NewService() *service {
	return &service{}
}

func (s *service) GetParsedFlags() (model.Flags, error) {
	profile := flag.String("profile", "", "AWS profile configuration")
	instanceTypes := flag.String("types", "", "Comma separated instance types to evaluate (e.g. m5.large,m5a.large)")
	vcpus := flag.Int("vcpus", 0, "Minimum vCPU count (used when -types is not set)")
	memory := flag.Int("memory", 0, "Minimum memory in GiB (used when -types is not set)")
	arch := flag.String("arch", "x86_64", "CPU architecture (x86_64 or arm64)")
	gpu := flag.String("gpu", "", "GPU vendor constraint (e.g. nvidia), optional")
	ami := flag.String("ami", "", "AMI name pattern that must exist in the chosen region, optional")
	platform := flag.String("platform", "Linux/UNIX", "Spot product description for price history")
	rate := flag.Float64("rate", 10, "Percentage added on top of the max observed price when bidding")
	tolerance := flag.Int("tolerance", 3, "Minimum placement score a zone must exceed")
	targetCapacity := flag.Int("target-capacity", 1, "Target capacity used when scoring placements")
	workers := flag.Int("workers", 1, "Concurrent region evaluations")
	probeWorkers := flag.Int("probe-workers", 10, "Concurrent AMI probes")
	timeout := flag.Duration("timeout", 30*time.Second, "Timeout per cloud API call")
	chart := flag.Bool("chart", false, "Draw a price chart of the top candidates")
	launch := flag.Bool("launch", false, "Launch a spot instance from the chosen allocation")
	keyName := flag.String("key-name", "", "Key pair to use with -launch (created when missing)")

	flag.Parse()

	return model.Flags{
		Profile:        *profile,
		InstanceTypes:  *instanceTypes,
		VCpus:          *vcpus,
		MemoryGiB:      *memory,
		Arch:           *arch,
		GPUVendor:      *gpu,
		AMIPattern:     *ami,
		Platform:       *platform,
		Rate:           *rate,
		Tolerance:      *tolerance,
		TargetCapacity: *targetCapacity,
		Workers:        *workers,
		ProbeWorkers:   *probeWorkers,
		CallTimeout:    *timeout,
		Chart:          *chart,
		Launch:         *launch,
		KeyName:        *keyName,
	}, nil
}
