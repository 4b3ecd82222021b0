package statements

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// LoadIndexFile reads a statement index from a fixture or snapshot
// file. The on-disk layout is fiscal year -> concept -> value:
//
//	{
//	  "2023": {"OperatingIncomeLoss": 100, "Assets": 1000},
//	  "2024": {"OperatingIncomeLoss": 120, "Assets": 1100}
//	}
//
// Files ending in .hjson may carry comments and unquoted keys. Plain
// JSON that fails strict parsing gets one repair pass (trailing
// commas, single quotes) before being rejected.
func LoadIndexFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statement index %s: %w", path, err)
	}

	var raw map[string]map[string]float64
	if strings.EqualFold(filepath.Ext(path), ".hjson") {
		raw, err = parseHJSONIndex(data)
	} else {
		raw, err = parseJSONIndex(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse statement index %s: %w", path, err)
	}

	ix := NewIndex()
	for yearKey, concepts := range raw {
		year, err := strconv.Atoi(strings.TrimSpace(yearKey))
		if err != nil {
			return nil, fmt.Errorf("statement index %s: invalid fiscal year key %q", path, yearKey)
		}
		for concept, value := range concepts {
			ix.Set(year, concept, value)
		}
	}
	return ix, nil
}

func parseJSONIndex(data []byte) (map[string]map[string]float64, error) {
	var raw map[string]map[string]float64
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}

	// Repair pass for hand-edited fixtures.
	repaired, rerr := jsonrepair.RepairJSON(string(data))
	if rerr != nil {
		return nil, fmt.Errorf("json repair failed: %v", rerr)
	}
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// parseHJSONIndex decodes Hjson via an intermediate generic value, the
// same two-step hjson -> json -> struct path the config loaders use.
func parseHJSONIndex(data []byte) (map[string]map[string]float64, error) {
	var generic interface{}
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
