// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format is an export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want yaml or json)", s)
	}
}

// Export writes the items matching q to w. Unlike List, a zero Limit
// exports everything.
func (s *Store) Export(ctx context.Context, q Query, format Format, w io.Writer) error {
	if q.Limit == 0 {
		q.Limit = -1
	}
	items, err := s.List(ctx, q)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
