package response

// AccountInfo represents cloud account identity
type AccountInfo struct {
	Provider    string `json:"provider"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}

// Candidate represents a priced, scored placement option
type Candidate struct {
	Region       string  `json:"region"`
	Zone         string  `json:"zone"`
	InstanceType string  `json:"instance_type"`
	AvgPrice     float64 `json:"avg_price"`
	MaxPrice     float64 `json:"max_price"`
	Score        int32   `json:"score"`
}

// RegionCandidates represents one region's candidate pool
type RegionCandidates struct {
	Region     string      `json:"region"`
	Candidates []Candidate `json:"candidates"`
	Count      int         `json:"count"`
}

// AllocationResult represents the optimizer's chosen allocation
type AllocationResult struct {
	Region        string      `json:"region"`
	Zone          string      `json:"zone"`
	InstanceType  string      `json:"instance_type"`
	BidPrice      float64     `json:"bid_price"`
	AvgPrice      float64     `json:"avg_price"`
	MaxPrice      float64     `json:"max_price"`
	Score         int32       `json:"score"`
	OfferedTypes  []string    `json:"offered_types"`
	OnDemandPrice float64     `json:"on_demand_price,omitempty"`
	Savings       float64     `json:"savings_percent,omitempty"`
	TopCandidates []Candidate `json:"top_candidates,omitempty"`
}
