package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/backend"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogReplacesCategories(t *testing.T) {
	fetcher := &fakeFetcher{categories: testCategories}
	sf, _ := newTestStorefront(fetcher, &fakeSender{})

	require.NoError(t, sf.LoadCatalog(context.Background()))

	assert.Equal(t, testCategories, sf.Snapshot().Categories)
	assert.False(t, sf.Snapshot().DialogVisible)
}

func TestLoadCatalogRunsOncePerSession(t *testing.T) {
	fetcher := &fakeFetcher{categories: testCategories}
	sf, _ := newTestStorefront(fetcher, &fakeSender{})

	require.NoError(t, sf.LoadCatalog(context.Background()))
	require.NoError(t, sf.LoadCatalog(context.Background()))

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestLoadCatalogCollapsesConcurrentCalls(t *testing.T) {
	fetcher := &fakeFetcher{
		categories: testCategories,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	sf, _ := newTestStorefront(fetcher, &fakeSender{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sf.LoadCatalog(context.Background()))
		}()
	}

	<-fetcher.entered
	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Len(t, sf.Snapshot().Categories, 2)
}

func TestLoadCatalogFailureShowsError(t *testing.T) {
	fetcher := &fakeFetcher{err: &backend.StatusError{Endpoint: "categories", StatusCode: 503, Status: "503 Service Unavailable"}}
	sf, _ := newTestStorefront(fetcher, &fakeSender{})

	err := sf.LoadCatalog(context.Background())

	var loadErr *CatalogLoadError
	require.True(t, errors.As(err, &loadErr))
	snap := sf.Snapshot()
	assert.Empty(t, snap.Categories)
	assertDialog(t, sf, MsgCategoriesError, models.SeverityError)

	require.NoError(t, sf.LoadCatalog(context.Background()), "a failed load is not repeated in the same session")
	assert.Equal(t, int32(1), fetcher.calls.Load())

	assert.True(t, IsValidation(sf.SelectCategory("Fruit"), InvalidSelection))
	assert.True(t, IsValidation(sf.AddToCart(), InvalidProduct))
}

func TestResetLoadsCatalogAgain(t *testing.T) {
	fetcher := &fakeFetcher{categories: testCategories}
	sf, _ := newTestStorefront(fetcher, &fakeSender{})
	require.NoError(t, sf.LoadCatalog(context.Background()))
	fillCart(t, sf)

	require.NoError(t, sf.Reset(context.Background()))

	assert.Equal(t, int32(2), fetcher.calls.Load())
	assert.True(t, sf.Snapshot().Cart.IsEmpty())
	assert.Len(t, sf.Snapshot().Categories, 2)
}

func TestLoadCatalogLateResponseIsIgnored(t *testing.T) {
	fetcher := &fakeFetcher{
		categories: testCategories,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	sf, _ := newTestStorefront(fetcher, &fakeSender{})

	done := make(chan error, 1)
	go func() { done <- sf.LoadCatalog(context.Background()) }()

	<-fetcher.entered
	sf.Close()
	close(fetcher.release)

	assert.ErrorIs(t, <-done, ErrSessionEnded)
	assert.Empty(t, sf.Snapshot().Categories)
}

func TestLoaderRemembersOnlyCurrentSession(t *testing.T) {
	fetcher := &fakeFetcher{categories: testCategories}
	sf, st := newTestStorefront(fetcher, &fakeSender{})
	require.NoError(t, sf.LoadCatalog(context.Background()))

	for i := 0; i < 3; i++ {
		require.NoError(t, sf.Reset(context.Background()))
	}

	assert.Equal(t, st.Token(), sf.loader.loaded)
	assert.Equal(t, int32(4), fetcher.calls.Load())

	require.NoError(t, sf.LoadCatalog(context.Background()))
	assert.Equal(t, int32(4), fetcher.calls.Load())
}
