package response

import "github.com/elC0mpa/spot-allocator/model"

// ConvertAccountInfo converts model.AccountInfo to the response format
func ConvertAccountInfo(info *model.AccountInfo) AccountInfo {
	return AccountInfo{
		Provider:    info.Provider,
		AccountID:   info.AccountID,
		AccountName: info.AccountName,
	}
}

// ConvertCandidates converts one region's candidate pool to the response format
func ConvertCandidates(region string, candidates []model.Candidate) RegionCandidates {
	converted := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		converted = append(converted, convertCandidate(candidate))
	}

	return RegionCandidates{
		Region:     region,
		Candidates: converted,
		Count:      len(converted),
	}
}

// ConvertAllocationResult converts the optimizer's answer to the response format
func ConvertAllocationResult(result *model.AllocationResult) AllocationResult {
	converted := AllocationResult{
		Region:        result.Region,
		Zone:          result.ZoneName,
		InstanceType:  result.InstanceType,
		BidPrice:      result.BidPrice,
		AvgPrice:      result.AvgPrice,
		MaxPrice:      result.MaxPrice,
		Score:         result.Score,
		OfferedTypes:  result.OfferedTypes,
		OnDemandPrice: result.OnDemandPrice,
		Savings:       result.Savings,
	}

	for _, candidate := range result.TopCandidates {
		converted.TopCandidates = append(converted.TopCandidates, convertCandidate(candidate))
	}

	return converted
}

func convertCandidate(candidate model.Candidate) Candidate {
	return Candidate{
		Region:       candidate.Region,
		Zone:         candidate.ZoneName,
		InstanceType: candidate.InstanceType,
		AvgPrice:     candidate.AvgPrice,
		MaxPrice:     candidate.MaxPrice,
		Score:        candidate.Score,
	}
}
