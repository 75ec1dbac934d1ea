package interfaces

import (
	"context"
	"trd/internal/models"
)

type SchedulerInterface interface {
	Start(intervalMinutes int) (bool, error)
	Stop()
	Status() models.SchedulerStatus
	Shutdown(ctx context.Context) error
}

type CycleRunnerInterface interface {
	RunCycle(ctx context.Context) models.CycleResult
}
