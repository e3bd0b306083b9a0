package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type document struct {
	Swagger             string                                `json:"swagger"`
	Paths               map[string]map[string]json.RawMessage `json:"paths"`
	Definitions         map[string]json.RawMessage            `json:"definitions"`
	SecurityDefinitions map[string]json.RawMessage            `json:"securityDefinitions"`
}

func readDoc(t *testing.T) document {
	t.Helper()
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestDocumentoRegistrado(t *testing.T) {
	doc := readDoc(t)
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.SecurityDefinitions, "Bearer")
	assert.Contains(t, doc.Definitions, "dto.ErrorResponse")
	assert.Contains(t, doc.Definitions, "dto.ContractAggregate")
}

// Cada ruta protegida del router debe estar documentada.
func TestDocumento_CubreRutas(t *testing.T) {
	doc := readDoc(t)
	routes := []struct{ path, method string }{
		{"/api/contracts", "post"},
		{"/api/contracts/{id}", "get"},
		{"/api/contracts/{id}", "patch"},
		{"/api/contracts/{id}", "delete"},
		{"/api/contracts/{id}/pets", "post"},
		{"/api/contracts/{id}/pets/{petId}", "delete"},
		{"/api/contracts/{id}/services", "post"},
		{"/api/contracts/{id}/pets/{petId}/services/{serviceId}", "delete"},
		{"/api/contracts/{id}/pets/{petId}/services/{serviceId}", "patch"},
		{"/api/contracts/{id}/status", "post"},
		{"/api/contracts/{id}/price", "get"},
		{"/api/contracts/{id}/statement.pdf", "get"},
		{"/api/owners/{ownerId}/contracts", "get"},
	}
	for _, r := range routes {
		ops, ok := doc.Paths[r.path]
		if assert.True(t, ok, "falta %s", r.path) {
			assert.Contains(t, ops, r.method, "%s %s", r.method, r.path)
		}
	}
}

// Las referencias apuntan a definiciones existentes.
func TestDocumento_ReferenciasResueltas(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)
	doc := readDoc(t)

	var walk func(v any)
	walk = func(v any) {
		switch x := v.(type) {
		case map[string]any:
			if r, ok := x["$ref"].(string); ok {
				const prefix = "#/definitions/"
				require.Greater(t, len(r), len(prefix))
				assert.Contains(t, doc.Definitions, r[len(prefix):])
			}
			for _, child := range x {
				walk(child)
			}
		case []any:
			for _, child := range x {
				walk(child)
			}
		}
	}
	var tree any
	require.NoError(t, json.Unmarshal([]byte(raw), &tree))
	walk(tree)
}
