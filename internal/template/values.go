package template

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/dockerish/internal/config"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// configVariables converts the config into cty values keyed by top-level
// key. Keys that are not valid HCL identifiers cannot be referenced and are
// skipped.
func configVariables(cfg config.Config) (map[string]cty.Value, error) {
	vars := make(map[string]cty.Value, len(cfg)+1)
	if len(cfg) == 0 {
		return vars, nil
	}

	// Round-tripping through JSON lets cty imply object and tuple types for
	// arbitrarily nested values.
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return nil, fmt.Errorf("failed to imply config type: %w", err)
	}
	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config: %w", err)
	}

	for k, v := range val.AsValueMap() {
		if !hclsyntax.ValidIdentifier(k) {
			continue
		}
		vars[k] = v
	}
	return vars, nil
}
