package awspricing

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/pricing"
)

// PricingAPI is the subset of the Pricing client used for on-demand lookups
type PricingAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

type service struct {
	client      PricingAPI
	callTimeout time.Duration
}
