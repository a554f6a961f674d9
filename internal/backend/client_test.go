package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/categories/api/Categories", srv.URL+"/orders", 2*time.Second)
}

func TestFetchCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/categories/api/Categories", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"Fruit"},{"id":2,"name":" Dairy "}]`)
	})

	categories, err := client.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Category{{ID: "1", Name: "Fruit"}, {ID: "2", Name: "Dairy"}}, categories)
}

func TestFetchCategoriesDropsInvalidEntries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":1,"name":"Fruit"},
			{"id":1,"name":"Fruit again"},
			{"id":2,"name":""},
			{"name":"No id"},
			"garbage",
			{"id":"3","name":"Bakery"}
		]`)
	})

	categories, err := client.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Category{{ID: "1", Name: "Fruit"}, {ID: "3", Name: "Bakery"}}, categories)
}

func TestFetchCategoriesRejectsNonArray(t *testing.T) {
	for _, body := range []string{`{"items":[]}`, `null`, ``, `not json`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		_, err := client.FetchCategories(context.Background())
		assert.Error(t, err, "body %q", body)
	}
}

func TestFetchCategoriesStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.FetchCategories(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestFetchCategoriesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, url, time.Second)
	_, err := client.FetchCategories(context.Background())

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestPostOrder(t *testing.T) {
	orderDate := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "2026-10-18T09:30:00Z", got["orderDate"])
		assert.Equal(t, "dana@example.com", got["customer"].(map[string]any)["email"])
		assert.Len(t, got["products"], 1)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":42}`)
	})

	resp, err := client.PostOrder(context.Background(), &models.OrderSubmission{
		Customer:  models.Customer{FullName: "Dana", FullAddress: "1 Herzl St", Email: "dana@example.com"},
		Products:  []models.OrderProduct{{Category: "Fruit", Name: "Apple", Quantity: 2}},
		OrderDate: orderDate,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"id":42}`, string(resp.Body))
}

func TestPostOrderReturnsRejectedResponses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"email must be an email"}`)
	})

	resp, err := client.PostOrder(context.Background(), &models.OrderSubmission{})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "email must be an email")
}

func TestOversizedBodyIsRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("["))
		_, _ = w.Write(bytes.Repeat([]byte(" "), maxBodyBytes))
		_, _ = w.Write([]byte("]"))
	})

	_, err := client.FetchCategories(context.Background())
	assert.ErrorIs(t, err, ErrResponseTooLarge)

	_, err = client.PostOrder(context.Background(), &models.OrderSubmission{})
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestBodyAtLimitIsAccepted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("["))
		_, _ = w.Write(bytes.Repeat([]byte(" "), maxBodyBytes-2))
		_, _ = w.Write([]byte("]"))
	})

	categories, err := client.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}
