package entity

import "github.com/google/uuid"

// CanonicalID devuelve los UUID en su forma canónica (minúsculas, sin llaves ni prefijo urn).
// Los ids que no son UUID se devuelven sin cambios.
func CanonicalID(id string) string {
	u, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return u.String()
}

// CanonicalIDs aplica CanonicalID a cada elemento (copia).
func CanonicalIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = CanonicalID(id)
	}
	return out
}
