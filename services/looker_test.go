package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGauge struct {
	calls int
	data  *GaugeData
	err   error
}

func (s *stubGauge) FetchGauge(ctx context.Context) (*GaugeData, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func TestLookerServiceCachesReadings(t *testing.T) {
	value := 750
	stub := &stubGauge{data: &GaugeData{GaugeValue: &value, GaugeTarget: 800}}
	svc := NewLookerService(stub)

	first, err := svc.GaugeValue(context.Background(), false)
	require.NoError(t, err)
	second, err := svc.GaugeValue(context.Background(), false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, stub.calls)

	_, err = svc.GaugeValue(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestLookerServiceServesStaleOnFailure(t *testing.T) {
	value := 750
	stub := &stubGauge{data: &GaugeData{GaugeValue: &value, GaugeTarget: 800}}
	svc := NewLookerService(stub)

	_, err := svc.GaugeValue(context.Background(), false)
	require.NoError(t, err)

	stub.err = errors.New("session expired")
	data, err := svc.GaugeValue(context.Background(), true)
	require.NoError(t, err)
	require.NotNil(t, data.GaugeValue)
	assert.Equal(t, 750, *data.GaugeValue)
}

func TestLookerServiceErrorWithoutCache(t *testing.T) {
	stub := &stubGauge{err: errors.New("no session")}
	svc := NewLookerService(stub)

	_, err := svc.GaugeValue(context.Background(), false)
	assert.Error(t, err)
}

func TestLookerClientPicksLargestPlausibleValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// 800 is the target itself, 1500 out of range, 762 wins over 20
		w.Write([]byte(`[{"count":762},{"count":20},{"count":800},{"count":1500}]`))
	}))
	defer server.Close()

	client := &LookerClient{
		URL:         server.URL,
		GaugeTarget: 800,
		HTTPClient:  &http.Client{Timeout: 5 * time.Second},
	}

	data, err := client.FetchGauge(context.Background())
	require.NoError(t, err)
	require.NotNil(t, data.GaugeValue)
	assert.Equal(t, 762, *data.GaugeValue)
	require.NotNil(t, data.Remaining)
	assert.Equal(t, 38, *data.Remaining)
}

func TestLookerClientSessionExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := &LookerClient{
		URL:        server.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
	_, err := client.FetchGauge(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")
}
