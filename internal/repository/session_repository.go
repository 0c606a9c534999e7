package repository

import (
	"context"
	"log/slog"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/store"
)

// StoreSessionRepository keeps the "loggedInUser" document.
type StoreSessionRepository struct {
	store   store.Store
	session store.Value[models.Session]
}

// NewSessionRepository creates a SessionRepository on s. Pass a prefixed
// store to keep one session per client.
func NewSessionRepository(s store.Store, logger *slog.Logger) SessionRepository {
	return &StoreSessionRepository{
		store:   s,
		session: store.NewValue[models.Session](store.KeyLoggedInUser, logger.With("repository", "session")),
	}
}

// Get returns the stored session. A malformed or incomplete document counts
// as no session.
func (r *StoreSessionRepository) Get(ctx context.Context) (*models.Session, error) {
	sess, ok, err := r.session.Load(ctx, r.store)
	if err != nil {
		return nil, err
	}
	if !ok || sess.UserID.IsZero() {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (r *StoreSessionRepository) Save(ctx context.Context, session models.Session) error {
	return r.session.Save(ctx, r.store, session)
}

func (r *StoreSessionRepository) Delete(ctx context.Context) error {
	return r.session.Clear(ctx, r.store)
}

// StorePerformanceFeedRepository reads the "taskPerformance" document.
type StorePerformanceFeedRepository struct {
	store store.Store
	feed  store.Collection[models.PerformanceRecord]
}

func NewPerformanceFeedRepository(s store.Store, logger *slog.Logger) PerformanceFeedRepository {
	return &StorePerformanceFeedRepository{
		store: s,
		feed:  store.NewCollection[models.PerformanceRecord](store.KeyTaskPerformance, logger.With("repository", "performance")),
	}
}

// Load returns the feed; an absent or malformed document is an empty feed.
func (r *StorePerformanceFeedRepository) Load(ctx context.Context) ([]models.PerformanceRecord, error) {
	records, _, err := r.feed.Load(ctx, r.store)
	return records, err
}

func (r *StorePerformanceFeedRepository) Save(ctx context.Context, records []models.PerformanceRecord) error {
	_, err := r.feed.Mutate(ctx, r.store, func([]models.PerformanceRecord) ([]models.PerformanceRecord, error) {
		return records, nil
	})
	return err
}
