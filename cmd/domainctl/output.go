package main

import (
	"encoding/json"
	"fmt"
	"io"

	id "domainflow/pkg/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseTenantArg(raw string) (id.TenantID, error) {
	tenantID, err := id.ParseTenantID(raw)
	if err != nil {
		return id.TenantID{}, fmt.Errorf("invalid tenant id %q: %w", raw, err)
	}
	return tenantID, nil
}
