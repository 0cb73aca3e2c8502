package model

import "time"

// Spot allocation models

// Zone pairs an availability zone's stable identifier with its display name.
// Placement scores are indexed by id, price history by name; the evaluator
// maps between the two before joining.
type Zone struct {
	ID   string
	Name string
}

// PlacementScore is the 0-10 capacity reliability signal for a zone
type PlacementScore struct {
	Region string
	ZoneID string
	Score  int32
}

// PriceSample is a single historical spot price observation
type PriceSample struct {
	ZoneName     string
	InstanceType string
	Price        float64
	Timestamp    time.Time
}

// PriceAggregate summarizes samples sharing (zone, instance type)
type PriceAggregate struct {
	ZoneName     string
	InstanceType string
	AvgPrice     float64
	MinPrice     float64
	MaxPrice     float64
	SampleCount  int
}

// Candidate is a priced, scored placement option eligible for selection
type Candidate struct {
	Region       string
	ZoneName     string
	InstanceType string
	AvgPrice     float64
	MaxPrice     float64
	Score        int32
}

// InstanceRequirements describes an instance type search when the caller
// does not supply an explicit type list
type InstanceRequirements struct {
	VCpus     int32
	MemoryMiB int32
	Arch      string
	GPUVendor string
}

// AllocationRequest contains everything the optimizer needs for one run
type AllocationRequest struct {
	InstanceTypes  []string
	Requirements   InstanceRequirements
	AMIPattern     string
	AMIArch        string
	Platform       string
	Rate           float64
	Tolerance      int32
	TargetCapacity int32
}

// AllocationResult is the optimizer's single answer
type AllocationResult struct {
	Region        string
	ZoneName      string
	InstanceType  string
	BidPrice      float64
	AvgPrice      float64
	MaxPrice      float64
	Score         int32
	OfferedTypes  []string
	OnDemandPrice float64 // 0 when the pricing API had no answer
	Savings       float64 // percent vs on-demand, 0 when unknown

	// TopCandidates holds the best-ranked runners-up for reporting
	TopCandidates []Candidate
}
