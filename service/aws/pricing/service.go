package awspricing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	ptypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

func NewService(awsconfig aws.Config, callTimeout time.Duration) *service {
	// The Pricing API is only served from us-east-1 and ap-south-1
	pricingCfg := awsconfig.Copy()
	pricingCfg.Region = "us-east-1"

	return &service{
		client:      pricing.NewFromConfig(pricingCfg),
		callTimeout: callTimeout,
	}
}

// NewServiceWithClient injects the pricing client, used by tests
func NewServiceWithClient(client PricingAPI, callTimeout time.Duration) *service {
	return &service{
		client:      client,
		callTimeout: callTimeout,
	}
}

// GetOnDemandPrice returns the hourly on-demand USD list price for a shared
// tenancy Linux instance of the given type in the given region.
func (s *service) GetOnDemandPrice(ctx context.Context, instanceType, region string) (float64, error) {
	filters := []ptypes.Filter{
		{Type: ptypes.FilterTypeTermMatch, Field: aws.String("instanceType"), Value: aws.String(instanceType)},
		{Type: ptypes.FilterTypeTermMatch, Field: aws.String("regionCode"), Value: aws.String(region)},
		{Type: ptypes.FilterTypeTermMatch, Field: aws.String("operatingSystem"), Value: aws.String("Linux")},
		{Type: ptypes.FilterTypeTermMatch, Field: aws.String("preInstalledSw"), Value: aws.String("NA")},
		{Type: ptypes.FilterTypeTermMatch, Field: aws.String("tenancy"), Value: aws.String("Shared")},
		{Type: ptypes.FilterTypeTermMatch, Field: aws.String("capacitystatus"), Value: aws.String("Used")},
	}

	callCtx := ctx
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	output, err := s.client.GetProducts(callCtx, &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	})
	if err != nil {
		return 0, err
	}
	if len(output.PriceList) == 0 {
		return 0, fmt.Errorf("no on-demand price found for %s in %s", instanceType, region)
	}

	return parseOnDemandUSDPrice(output.PriceList[0])
}

type priceListItem struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

func parseOnDemandUSDPrice(item string) (float64, error) {
	var parsed priceListItem
	if err := json.Unmarshal([]byte(item), &parsed); err != nil {
		return 0, fmt.Errorf("malformed price list item: %w", err)
	}

	for _, term := range parsed.Terms.OnDemand {
		for _, dimension := range term.PriceDimensions {
			usd, ok := dimension.PricePerUnit["USD"]
			if !ok {
				continue
			}
			return strconv.ParseFloat(usd, 64)
		}
	}

	return 0, fmt.Errorf("no USD price dimension in price list item")
}
