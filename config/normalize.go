// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package config

import (
	"fmt"
)

// Normalize converts the map[interface{}]interface{} values produced
// by the YAML decoder, at any depth, into map[string]interface{}.
// Non-string keys are errors.
func Normalize(obj interface{}) (interface{}, error) {
	switch v := obj.(type) {
	case map[interface{}]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			keyAsString, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", key)
			}
			value, err := Normalize(value)
			if err != nil {
				return nil, err
			}
			result[keyAsString] = value
		}
		return result, nil
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, value := range v {
			value, err := Normalize(value)
			if err != nil {
				return nil, err
			}
			result[i] = value
		}
		return result, nil
	default:
		return obj, nil
	}
}
