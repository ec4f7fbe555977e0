package docs

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocument(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Info  struct{ Title string }    `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	assert.Equal(t, "User Feed API", parsed.Info.Title)
	for path, method := range map[string]string{
		"/health":      "get",
		"/healthz":     "get",
		"/users":       "get",
		"/users/fetch": "post",
		"/fetches":     "get",
	} {
		assert.Contains(t, parsed.Paths[path], method, path)
	}
}
