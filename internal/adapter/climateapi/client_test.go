package climateapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/climax-batch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

var testParams = domain.TrialParams{CultureID: 48132, FloweringDate: "2011-06-14", SoilVolume: 7.2, FieldCapacity: 0.31}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, testToken, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_ClimateData_Irrigated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/climate-data", r.URL.Path)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, contentTypeJSON, r.Header.Get(headerContentType))

		var got domain.TrialParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, testParams, got)

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `{
			"irrigated": true,
			"control_drought": {"before": 1, "after": 2},
			"stress_drought": {"before": 11, "after": 15},
			"cold": {"before": 4, "after": 0},
			"heat": {"before": 2, "after": 9},
			"light": {"before": 1234.5, "after": 987}
		}`)
	}))
	defer srv.Close()

	data, err := testClient(srv.URL).ClimateData(context.Background(), testParams)
	require.NoError(t, err)

	assert.True(t, data.Irrigated)
	assert.Nil(t, data.Drought)
	require.NotNil(t, data.ControlDrought)
	assert.Equal(t, domain.StressPair{Before: 1, After: 2}, *data.ControlDrought)
	require.NotNil(t, data.StressDrought)
	assert.Equal(t, domain.StressPair{Before: 11, After: 15}, *data.StressDrought)
	assert.Equal(t, domain.StressPair{Before: 2, After: 9}, data.Heat)
	assert.Equal(t, domain.LightSum{Before: 1234.5, After: 987}, data.Light)
}

func TestClient_ClimateData_TrailingSlashAndNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/climate-data", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `{"irrigated": false, "drought": {"before": 3, "after": 7}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "", 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	data, err := c.ClimateData(context.Background(), testParams)
	require.NoError(t, err)
	require.NotNil(t, data.Drought)
	assert.Equal(t, 7, data.Drought.After)
}

func TestClient_ClimateData_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ClimateData(context.Background(), testParams)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClimateDataNotFound)
	assert.Contains(t, err.Error(), "48132")
}

func TestClient_ClimateData_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ClimateData(context.Background(), testParams)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Not Authorized")
}

func TestClient_ClimateData_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ClimateData(context.Background(), testParams)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_ClimateData_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testToken, 50*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.ClimateData(context.Background(), testParams)
	require.Error(t, err)
}
