package evaluator

import (
	"time"

	svc "github.com/elC0mpa/spot-allocator/service"
)

// priceLookback is the trailing window of spot price history considered
// meaningful for bidding
const priceLookback = time.Hour

type service struct {
	inventory svc.InventoryService
}
