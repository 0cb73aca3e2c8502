package model

// AccountInfo represents cloud account identity
type AccountInfo struct {
	Provider    string
	AccountID   string
	AccountName string
}

// LaunchedInstance describes the machine provisioned from an AllocationResult
type LaunchedInstance struct {
	InstanceID       string
	SpotRequestID    string
	PublicIP         string
	PrivateIP        string
	State            string
	KeyName          string
	SecurityGroupID  string
	AvailabilityZone string
}
