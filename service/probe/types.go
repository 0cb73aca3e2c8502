package probe

import (
	svc "github.com/elC0mpa/spot-allocator/service"
)

type service struct {
	inventory svc.InventoryService
	workers   int
}
