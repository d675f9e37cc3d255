package workers

import (
	"context"
	"time"

	"github.com/alimgiray/familytree/internal/repositories"
	"github.com/alimgiray/familytree/pkg/logger"
	"github.com/alimgiray/familytree/pkg/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PhotoSweepWorker periodically deletes stored photos that no person references.
// Photos newer than the grace period are left alone so uploads still being
// attached to a person are never swept.
type PhotoSweepWorker struct {
	*BaseWorker
	personRepo *repositories.PersonRepository
	photos     *storage.PhotoStore
	interval   time.Duration
	grace      time.Duration
	now        func() time.Time
}

// NewPhotoSweepWorker creates a new photo sweep worker
func NewPhotoSweepWorker(workerID string, personRepo *repositories.PersonRepository, photos *storage.PhotoStore,
	interval, grace time.Duration) *PhotoSweepWorker {
	return &PhotoSweepWorker{
		BaseWorker: NewBaseWorker(workerID),
		personRepo: personRepo,
		photos:     photos,
		interval:   interval,
		grace:      grace,
		now:        time.Now,
	}
}

// Start sweeps once per interval until stopped
func (w *PhotoSweepWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)
	logger.WithField("worker", w.WorkerID).Info("Photo sweep worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.StopChan:
			logger.WithField("worker", w.WorkerID).Info("Photo sweep worker stopping")
			return nil
		case <-ticker.C:
			removed, err := w.Sweep(ctx)
			if err != nil {
				logger.WithError(err).WithField("worker", w.WorkerID).Error("Photo sweep failed")
				continue
			}
			if removed > 0 {
				logger.WithFields(logrus.Fields{"worker": w.WorkerID, "removed": removed}).Info("Removed orphaned photos")
			}
		}
	}
}

// Sweep deletes unreferenced photos older than the grace period and returns how many were removed
func (w *PhotoSweepWorker) Sweep(ctx context.Context) (int, error) {
	referenced, err := w.personRepo.PhotoKeys()
	if err != nil {
		return 0, err
	}

	keys, err := w.photos.Keys(ctx, w.now().Add(-w.grace))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		if err := w.photos.Delete(ctx, key); err != nil {
			return removed, errors.Wrapf(err, "sweep photo %s", key)
		}
		removed++
	}
	return removed, nil
}
