package endpoint_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zeebo/assert"

	"github.com/tidepool-labs/swapquote/internal/endpoint"
)

func TestFirstMirrorWins(t *testing.T) {
	var secondHits atomic.Int64
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"primary"`))
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondHits.Add(1)
		_, _ = w.Write([]byte(`"backup"`))
	}))
	defer second.Close()

	c, err := endpoint.New([]string{first.URL, second.URL}, 5*time.Second)
	assert.NoError(t, err)

	var got string
	assert.NoError(t, c.GetJSON(context.Background(), "/v2/pools", &got))
	assert.Equal(t, "primary", got)
	assert.Equal(t, int64(0), secondHits.Load())
}

func TestFallsBackOnMirrorFailure(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"backup"`))
	}))
	defer healthy.Close()

	c, err := endpoint.New([]string{broken.URL, healthy.URL}, 5*time.Second)
	assert.NoError(t, err)

	var got string
	assert.NoError(t, c.GetJSON(context.Background(), "/v2/pools", &got))
	assert.Equal(t, "backup", got)
}

func TestAllMirrorsFailed(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	c, err := endpoint.New([]string{broken.URL}, 5*time.Second)
	assert.NoError(t, err)

	_, err = c.Get(context.Background(), "/v2/pools")
	assert.True(t, errors.Is(err, endpoint.ErrAllMirrorsFailed))

	var statusErr *endpoint.StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestRejectsEmptyMirrorList(t *testing.T) {
	_, err := endpoint.New(nil, time.Second)
	assert.Error(t, err)

	_, err = endpoint.New([]string{"not a url"}, time.Second)
	assert.Error(t, err)
}
