package services

import (
	"context"
	"time"

	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order/app/core"
)

// InventoryService is the ledger over daily meal capacity. All mutations go
// through Reserve/Release inside the caller's transaction; the repository
// serializes concurrent calls for one (meal, date) key with a row lock.
type InventoryService struct {
	inventory core.IInventoryRepo
	mylog     logger.Logger
}

func NewInventoryService(inventory core.IInventoryRepo, mylog logger.Logger) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		mylog:     mylog,
	}
}

func (s *InventoryService) Reserve(ctx context.Context, mealID int64, date time.Time, quantity, dailyCapacity int) error {
	mylog := s.mylog.Action("reserve_meal").With("meal_id", mealID, "date", date.Format("2006-01-02"), "quantity", quantity)

	if err := s.inventory.Reserve(ctx, mealID, date, quantity, dailyCapacity); err != nil {
		mylog.Debug("reservation refused", "reason", err.Error())
		return err
	}

	mylog.Info("meal reserved")
	return nil
}

func (s *InventoryService) Release(ctx context.Context, mealID int64, date time.Time, quantity int) error {
	mylog := s.mylog.Action("release_meal").With("meal_id", mealID, "date", date.Format("2006-01-02"), "quantity", quantity)

	if err := s.inventory.Release(ctx, mealID, date, quantity); err != nil {
		mylog.Error("failed to release meal", err)
		return err
	}

	mylog.Info("meal released")
	return nil
}
