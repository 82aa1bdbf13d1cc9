package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/afterglow3292/portops/internal/engine"
	"github.com/afterglow3292/portops/internal/refcache"
	"github.com/afterglow3292/portops/internal/store/memstore"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	log := zerolog.Nop()
	return NewRouter(memstore.New(), engine.NewLockTable(time.Second), engine.NewLedger(log), refcache.New(time.Second), log, nil)
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func TestShipCRUDOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/api/ships", map[string]interface{}{
		"name": "MV Aurora", "imo": "IMO9000001", "capacityTeu": 4000, "status": "AT_SEA",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	ship := decode(t, rr)
	id := ship["shipId"].(string)
	require.NotEmpty(t, id)

	rr = doJSON(t, router, "GET", "/api/ships/"+id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "MV Aurora", decode(t, rr)["name"])

	rr = doJSON(t, router, "PUT", "/api/ships/"+id, map[string]interface{}{
		"name": "MV Aurora II", "imo": "IMO9000001", "capacityTeu": 4200, "status": "ARRIVED",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "MV Aurora II", decode(t, rr)["name"])

	rr = doJSON(t, router, "GET", "/api/ships", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 1, decode(t, rr)["count"])

	rr = doJSON(t, router, "DELETE", "/api/ships/"+id, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, router, "GET", "/api/ships/"+id, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "NOT_FOUND", decode(t, rr)["kind"])
}

func TestValidationErrorBody(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/api/ships", map[string]interface{}{
		"name": "", "imo": "IMO9000002", "capacityTeu": 100, "status": "AT_SEA",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	require.Equal(t, "VALIDATION", body["kind"])
	require.EqualValues(t, http.StatusBadRequest, body["code"])
	require.NotEmpty(t, body["message"])
}

func TestDuplicateIMOConflict(t *testing.T) {
	router := newTestRouter(t)

	ship := map[string]interface{}{"name": "MV One", "imo": "IMO9000003", "capacityTeu": 100, "status": "AT_SEA"}
	require.Equal(t, http.StatusCreated, doJSON(t, router, "POST", "/api/ships", ship).Code)

	ship["name"] = "MV Two"
	rr := doJSON(t, router, "POST", "/api/ships", ship)
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "CONFLICT", decode(t, rr)["kind"])
}

func TestBerthWindowConflictOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/api/ports", map[string]interface{}{
		"portCode": "CNSHA", "portName": "Shanghai", "country": "China", "city": "Shanghai", "totalBerths": 4,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	portID := decode(t, rr)["portId"].(string)

	rr = doJSON(t, router, "POST", "/api/ships", map[string]interface{}{
		"name": "MV Pelican", "imo": "IMO9000004", "capacityTeu": 800, "status": "AT_SEA",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	shipID := decode(t, rr)["shipId"].(string)

	arrive := time.Date(2027, 5, 1, 8, 0, 0, 0, time.UTC)
	depart := arrive.Add(12 * time.Hour)
	first := map[string]interface{}{
		"portId": portID, "shipId": shipID, "berthNumber": "B1",
		"arrivalTime": arrive, "departureTime": depart, "legacyStatus": "CONFIRMED",
	}
	require.Equal(t, http.StatusCreated, doJSON(t, router, "POST", "/api/berths", first).Code)

	second := map[string]interface{}{
		"portId": portID, "shipId": shipID, "berthNumber": "B1",
		"arrivalTime": arrive.Add(6 * time.Hour), "departureTime": depart.Add(6 * time.Hour),
		"legacyStatus": "CONFIRMED",
	}
	rr = doJSON(t, router, "POST", "/api/berths", second)
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "CONFLICT", decode(t, rr)["kind"])

	// A different berth at the same port is free.
	second["berthNumber"] = "B2"
	require.Equal(t, http.StatusCreated, doJSON(t, router, "POST", "/api/berths", second).Code)
}

func TestStatusPatchAndIllegalTransition(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/api/transport-tasks", map[string]interface{}{
		"taskNumber": "T-100", "truckLicense": "B-7721", "driverName": "Chen Wei",
		"pickupLocation": "Yard 3", "deliveryLocation": "Gate 9",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode(t, rr)["taskId"].(string)

	rr = doJSON(t, router, "PATCH", fmt.Sprintf("/api/transport-tasks/%s/status", id), map[string]interface{}{"status": "IN_TRANSIT"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "IN_TRANSIT", decode(t, rr)["status"])

	// PENDING is behind us now.
	rr = doJSON(t, router, "PATCH", fmt.Sprintf("/api/transport-tasks/%s/status", id), map[string]interface{}{"status": "PENDING"})
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "ILLEGAL_TRANSITION", decode(t, rr)["kind"])
}

func TestWarehouseCapacityOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/api/warehouses", map[string]interface{}{
		"warehouseName": "North Shed", "warehouseType": "GENERAL", "totalCapacity": 100.0,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	whID := decode(t, rr)["warehouseId"].(string)

	rr = doJSON(t, router, "POST", "/api/cargo", map[string]interface{}{
		"description": "Steel coils", "weight": 80.0, "destination": "Rotterdam", "warehouseId": whID,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, "POST", "/api/cargo", map[string]interface{}{
		"description": "More coils", "weight": 30.0, "destination": "Rotterdam", "warehouseId": whID,
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "CONFLICT", decode(t, rr)["kind"])

	rr = doJSON(t, router, "GET", "/api/warehouses/"+whID+"/usage", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	usage := decode(t, rr)
	require.InDelta(t, 80.0, usage["used"].(float64), 1e-9)
	require.InDelta(t, 80.0, usage["rate"].(float64), 1e-9)
}

func TestMonthlyStatsRoute(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/api/cargo", map[string]interface{}{
		"description": "Grain", "weight": 25.0, "destination": "Hamburg",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, "GET", "/api/cargo/stats/monthly", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	require.EqualValues(t, 1, body["count"])
	months := body["months"].([]interface{})
	first := months[0].(map[string]interface{})
	require.Equal(t, time.Now().UTC().Format("2006-01"), first["month"])
	require.InDelta(t, 25.0, first["totalWeight"].(float64), 1e-9)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "GET", "/api/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "healthy", decode(t, rr)["status"])
}

func TestMalformedJSONRejected(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/ships", bytes.NewBufferString("{nope"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "VALIDATION", decode(t, rr)["kind"])
}
