// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

/*
TestOK_Envelope verifies that payloads are wrapped under "data".
*/
func TestOK_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, map[string]string{"slug": "reading-list"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "no-store", recorder.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"data":{"slug":"reading-list"}}`, recorder.Body.String())
}

/*
TestAccepted_Envelope verifies the status used by background writes.
*/
func TestAccepted_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Accepted(recorder, map[string]string{"id": "md:aria"})

	assert.Equal(t, http.StatusAccepted, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"md:aria"}}`, recorder.Body.String())
}

/*
TestPaginated_Envelope verifies the metadata block.
*/
func TestPaginated_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []int{1, 2}, pagination.NewMeta(1, 2, 5))

	assert.JSONEq(t, `{"data":[1,2],"meta":{"page":1,"limit":2,"total":5,"total_pages":3}}`, recorder.Body.String())
}

/*
TestError_AppError verifies status and envelope for classified errors.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, apperr.NotFound("Collection"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "Collection not found", body.Error)
}

/*
TestError_Unclassified verifies that unknown errors are hidden behind a 500.
*/
func TestError_Unclassified(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "relation")
}
