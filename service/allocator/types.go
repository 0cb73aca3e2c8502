package allocator

import (
	svc "github.com/elC0mpa/spot-allocator/service"
)

type service struct {
	inventory svc.InventoryService
	evaluator svc.EvaluatorService
	prober    svc.ProbeService
	pricing   svc.PricingService
	workers   int
}
