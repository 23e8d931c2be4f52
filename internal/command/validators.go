// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// OneOf builds a validator accepting only the listed values.
func OneOf(valid ...string) FlagValidatorType {
	return func(value any) error {
		s, _ := value.(string)
		if !slices.Contains(valid, s) {
			return fmt.Errorf("must be one of %v", valid)
		}
		return nil
	}
}

func OutputValidator(value any) error {
	return OneOf("text", "json", "raw", "yaml")(value)
}

func TemplateOutputValidator(value any) error {
	return OneOf("json", "yaml")(value)
}

// PositiveValidator rejects zero and negative integers.
func PositiveValidator(value any) error {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	default:
		return fmt.Errorf("not an integer: %v", value)
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}
