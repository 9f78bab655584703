package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelerp/backend/internal/interfaces/http/dto"
)

func serveSystem(t *testing.T, handle gin.HandlerFunc, path string) dto.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)

	handle(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	return resp
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler()
	resp := serveSystem(t, h.GetSystemInfo, "/system/info")

	data := resp.Data.(map[string]any)
	assert.Equal(t, "Jewellery ERP API", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.Equal(t, runtimeVersionPrefix(t, data["go_version"]), "go")
	assert.NotEmpty(t, data["uptime"])
}

func runtimeVersionPrefix(t *testing.T, v any) string {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(s), 2)
	return s[:2]
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler()
	resp := serveSystem(t, h.Ping, "/system/ping")

	data := resp.Data.(map[string]any)
	assert.Equal(t, "pong", data["message"])

	ts, ok := data["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}
