package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"chainprinter-go/pkg/errors"
)

// sectionKey canonicalizes a section name. Editors disagree on composed
// and decomposed accents, so names are held in NFC.
func sectionKey(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// optionKey canonicalizes an option name: NFC and lower case.
func optionKey(name string) string {
	return strings.ToLower(sectionKey(name))
}

// Section is one "[name]" block of a Config with per-option access
// tracking.
type Section struct {
	name    string
	options map[string]string

	mu       sync.Mutex
	accessed map[string]struct{}
}

func newSection(name string, options map[string]string) *Section {
	opts := make(map[string]string, len(options))
	for k, v := range options {
		opts[optionKey(k)] = v
	}
	return &Section{
		name:     name,
		options:  opts,
		accessed: make(map[string]struct{}),
	}
}

// GetName returns the section name.
func (s *Section) GetName() string {
	return s.name
}

func (s *Section) lookup(option string) (string, bool) {
	key := optionKey(option)
	s.mu.Lock()
	s.accessed[key] = struct{}{}
	s.mu.Unlock()
	v, ok := s.options[key]
	return v, ok
}

// GetUnusedOptions returns the options that were never read, sorted.
func (s *Section) GetUnusedOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []string
	for opt := range s.options {
		if _, ok := s.accessed[opt]; !ok {
			result = append(result, opt)
		}
	}
	sort.Strings(result)
	return result
}

// HasOption checks if an option exists in this section.
func (s *Section) HasOption(option string) bool {
	_, ok := s.options[optionKey(option)]
	return ok
}

// Get returns a string option. The fallback, if given, is returned when
// the option is absent; otherwise a missing option is an error.
func (s *Section) Get(option string, fallback ...string) (string, error) {
	if v, ok := s.lookup(option); ok {
		return v, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return "", errors.ConfigOptionError(s.name, option)
}

// GetInt returns an integer option.
func (s *Section) GetInt(option string, fallback ...int) (int, error) {
	v, ok := s.lookup(option)
	if !ok {
		if len(fallback) > 0 {
			return fallback[0], nil
		}
		return 0, errors.ConfigOptionError(s.name, option)
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.ConfigTypeError(s.name, option, v, "integer", err)
	}
	return i, nil
}

// GetIntWithBounds returns an integer option checked against minVal and,
// when maxVal is non-nil, maxVal.
func (s *Section) GetIntWithBounds(option string, minVal int, maxVal *int, fallback ...int) (int, error) {
	v, err := s.GetInt(option, fallback...)
	if err != nil {
		return 0, err
	}
	if v < minVal {
		return 0, errors.ConfigValidationError(s.name, option, fmt.Sprintf("value %d must have minimum of %d", v, minVal))
	}
	if maxVal != nil && v > *maxVal {
		return 0, errors.ConfigValidationError(s.name, option, fmt.Sprintf("value %d must have maximum of %d", v, *maxVal))
	}
	return v, nil
}

// GetBool returns a boolean option.
// Accepts: 1, true, yes, on (true) and 0, false, no, off (false).
func (s *Section) GetBool(option string, fallback ...bool) (bool, error) {
	v, ok := s.lookup(option)
	if !ok {
		if len(fallback) > 0 {
			return fallback[0], nil
		}
		return false, errors.ConfigOptionError(s.name, option)
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, errors.ConfigTypeError(s.name, option, v, "boolean", nil)
	}
}

// GetChoice returns a string option that must be one of choices,
// compared case-insensitively. The canonical choice is returned.
func (s *Section) GetChoice(option string, choices []string, fallback ...string) (string, error) {
	v, err := s.Get(option, fallback...)
	if err != nil {
		return "", err
	}
	for _, c := range choices {
		if strings.EqualFold(v, c) {
			return c, nil
		}
	}
	return "", errors.ConfigValidationError(s.name, option,
		fmt.Sprintf("'%s' is not a valid choice (valid: %v)", v, choices))
}
