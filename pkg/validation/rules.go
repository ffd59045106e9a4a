package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/goliatone/go-storeadmin/pkg/model"
)

type rules struct {
	required bool
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
}

var errRequired = errors.New("is required")

func compile(field model.Field) rules {
	r := rules{required: field.Required}
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, ok := parseFloat(v.Params["value"]); ok {
				r.min = &val
			}
		case model.ValidationRuleMax:
			if val, ok := parseFloat(v.Params["value"]); ok {
				r.max = &val
			}
		case model.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				r.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				r.maxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					r.pattern = re
				}
			}
		}
	}
	return r
}

func (r rules) validateString(value string) error {
	if r.required && isBlank(value) {
		return errRequired
	}
	length := utf8.RuneCountInString(value)
	if r.minLen != nil && length < *r.minLen {
		return fmt.Errorf("must be at least %d characters", *r.minLen)
	}
	if r.maxLen != nil && length > *r.maxLen {
		return fmt.Errorf("must be at most %d characters", *r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return errors.New("does not match required pattern")
	}
	return nil
}

func (r rules) validateNumber(value float64) error {
	if r.min != nil && value < *r.min {
		return fmt.Errorf("must be at least %v", *r.min)
	}
	if r.max != nil && value > *r.max {
		return fmt.Errorf("must be at most %v", *r.max)
	}
	return nil
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
