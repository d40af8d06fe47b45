package entries

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListByOwner(ctx context.Context, userID, employeeNumber string) ([]WorkEntry, error)
	Get(ctx context.Context, userID, employeeNumber, id string) (WorkEntry, error)
	Insert(ctx context.Context, e WorkEntry) error
	Update(ctx context.Context, e WorkEntry) error
	SoftDelete(ctx context.Context, userID, employeeNumber, id string, at time.Time) error
	Restore(ctx context.Context, userID, employeeNumber, id string, at time.Time) error
	Purge(ctx context.Context, userID, employeeNumber, id string) (string, error)
	SetPhotoPath(ctx context.Context, userID, employeeNumber, id, path string, at time.Time) error
	SetDealer(ctx context.Context, userID, employeeNumber, id, dealer string, at time.Time) error
	UpdateDayKeys(ctx context.Context, id, dayKey, weekStartKey string) error
}
