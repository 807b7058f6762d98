package measures

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/huangsam/covevo/schema"
)

// ErrNoMeasure means the response is well formed but holds no value for the metric.
var ErrNoMeasure = errors.New("no measure available")

// ExtractMeasure reads component.measures[] and returns the value of the
// first entry whose metric matches. Missing fields yield ErrNoMeasure;
// malformed JSON or an unparsable value yield other errors.
func ExtractMeasure(body []byte, metric schema.MetricKey) (float64, error) {
	_, dataType, end, err := jsonparser.Get(body)
	if err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if dataType != jsonparser.Object {
		return 0, fmt.Errorf("decode response: expected object, got %v", dataType)
	}
	if rest := bytes.TrimSpace(body[end:]); len(rest) > 0 {
		return 0, fmt.Errorf("decode response: unexpected data after object: %q", truncate(string(rest), 32))
	}

	component, dataType, _, err := jsonparser.Get(body, "component")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || (err == nil && dataType != jsonparser.Object) {
		return 0, ErrNoMeasure
	}
	if err != nil {
		return 0, fmt.Errorf("decode component: %w", err)
	}

	measures, dataType, _, err := jsonparser.Get(component, "measures")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || (err == nil && dataType != jsonparser.Array) {
		return 0, ErrNoMeasure
	}
	if err != nil {
		return 0, fmt.Errorf("decode measures: %w", err)
	}

	var (
		found     bool
		raw       []byte
		valueType jsonparser.ValueType
	)
	_, err = jsonparser.ArrayEach(measures, func(entry []byte, entryType jsonparser.ValueType, _ int, _ error) {
		if found || entryType != jsonparser.Object {
			return
		}
		name, err := jsonparser.GetString(entry, "metric")
		if err != nil || name != string(metric) {
			return
		}
		found = true
		raw, valueType, _, _ = jsonparser.Get(entry, "value")
	})
	if err != nil {
		return 0, fmt.Errorf("decode measures: %w", err)
	}
	if !found {
		return 0, ErrNoMeasure
	}

	switch valueType {
	case jsonparser.String, jsonparser.Number:
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return 0, fmt.Errorf("parse measure value %q: %w", raw, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("parse measure value %q: not a finite number", raw)
		}
		return v, nil
	default:
		return 0, ErrNoMeasure
	}
}
