package model

import "time"

type Flags struct {
	// AWS configuration
	Profile string

	// Instance type selection: explicit list or requirements search
	InstanceTypes string
	VCpus         int
	MemoryGiB     int
	Arch          string
	GPUVendor     string

	// Optimizer knobs
	AMIPattern     string
	Platform       string
	Rate           float64
	Tolerance      int
	TargetCapacity int
	Workers        int
	ProbeWorkers   int
	CallTimeout    time.Duration

	// Output / workflow
	Chart   bool
	Launch  bool
	KeyName string
}
