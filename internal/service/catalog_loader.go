package service

import (
	"context"
	"sync"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CatalogFetcher retrieves the category list.
type CatalogFetcher interface {
	FetchCategories(ctx context.Context) ([]models.Category, error)
}

// CatalogLoader fills the store's category list once per session.
type CatalogLoader struct {
	fetcher CatalogFetcher
	store   *store.Store
	sfg     singleflight.Group // collapses concurrent first loads
	mu      sync.Mutex
	loaded  store.Token // session whose catalog has been fetched
	logger  *zap.Logger
}

// NewCatalogLoader creates a new catalog loader
func NewCatalogLoader(fetcher CatalogFetcher, st *store.Store) *CatalogLoader {
	return &CatalogLoader{
		fetcher: fetcher,
		store:   st,
		logger:  util.GetLogger(),
	}
}

// Load fetches the categories if this session has not done so yet. Calls
// made while the first fetch is in flight wait for it and share its result;
// later calls return nil without fetching. A failed fetch is not repeated.
func (l *CatalogLoader) Load(ctx context.Context) error {
	token, _ := l.store.Begin()

	_, err, _ := l.sfg.Do(token.String(), func() (interface{}, error) {
		if l.isLoaded(token) {
			return nil, nil
		}
		defer l.markLoaded(token)
		return nil, l.fetch(ctx, token)
	})
	return err
}

func (l *CatalogLoader) fetch(ctx context.Context, token store.Token) error {
	ctx, span := util.StartSpan(ctx, "CatalogLoader.Load")
	defer span.End()

	categories, err := l.fetcher.FetchCategories(ctx)
	if err != nil {
		util.CatalogLoadsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog unavailable")
		l.logger.Error("Failed to load categories", zap.Error(err))

		applied := l.store.Apply(token, "load_categories", func(st *store.State, d *notify.Dialog) {
			st.Categories = []models.Category{}
			d.Show(notify.General(MsgCategoriesError, models.SeverityError))
		})
		if !applied {
			return ErrSessionEnded
		}
		return &CatalogLoadError{Err: err}
	}

	util.CatalogLoadsTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("catalog.categories", len(categories)))

	applied := l.store.Apply(token, "load_categories", func(st *store.State, _ *notify.Dialog) {
		st.Categories = categories
	})
	if !applied {
		return ErrSessionEnded
	}

	l.logger.Info("Categories loaded", zap.Int("count", len(categories)))
	return nil
}

func (l *CatalogLoader) isLoaded(token store.Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded == token
}

// markLoaded records token unless a newer session has started meanwhile.
func (l *CatalogLoader) markLoaded(token store.Token) {
	if token != l.store.Token() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = token
}
