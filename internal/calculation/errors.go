package calculation

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates the conditions a pension calculation can report
type ErrorKind int

const (
	NegativeAge ErrorKind = iota + 1
	NegativeWeeks
	InsufficientWeeks
	NegativeSavings
	NegativeReturnRate
	ReturnRateExceedsMaximum
	NegativeAdminFee
	InvalidSex
	// AgeBelowRetirementEligibility is advisory only and never returned as an error.
	AgeBelowRetirementEligibility
)

var kindNames = map[ErrorKind]string{
	NegativeAge:                   "NegativeAge",
	NegativeWeeks:                 "NegativeWeeks",
	InsufficientWeeks:             "InsufficientWeeks",
	NegativeSavings:               "NegativeSavings",
	NegativeReturnRate:            "NegativeReturnRate",
	ReturnRateExceedsMaximum:      "ReturnRateExceedsMaximum",
	NegativeAdminFee:              "NegativeAdminFee",
	InvalidSex:                    "InvalidSex",
	AgeBelowRetirementEligibility: "AgeBelowRetirementEligibility",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel errors, one per kind. Use with errors.Is().
var (
	ErrNegativeAge              = errors.New("age cannot be negative")
	ErrNegativeWeeks            = errors.New("weeks contributed cannot be negative")
	ErrInsufficientWeeks        = errors.New("weeks contributed are insufficient")
	ErrNegativeSavings          = errors.New("current savings cannot be negative")
	ErrNegativeReturnRate       = errors.New("fund return rate cannot be negative")
	ErrReturnRateExceedsMaximum = errors.New("fund return rate cannot exceed the maximum rate")
	ErrNegativeAdminFee         = errors.New("administration fee rate cannot be negative")
	ErrInvalidSex               = errors.New("sex must be 'female' or 'male'")
	ErrPastRetirementAge        = errors.New("already eligible/past retirement age")
)

var kindSentinels = map[ErrorKind]error{
	NegativeAge:                   ErrNegativeAge,
	NegativeWeeks:                 ErrNegativeWeeks,
	InsufficientWeeks:             ErrInsufficientWeeks,
	NegativeSavings:               ErrNegativeSavings,
	NegativeReturnRate:            ErrNegativeReturnRate,
	ReturnRateExceedsMaximum:      ErrReturnRateExceedsMaximum,
	NegativeAdminFee:              ErrNegativeAdminFee,
	InvalidSex:                    ErrInvalidSex,
	AgeBelowRetirementEligibility: ErrPastRetirementAge,
}

// Sentinel returns the sentinel error for k, or nil for an unknown kind
func (k ErrorKind) Sentinel() error {
	return kindSentinels[k]
}

// ValidationError reports the input that violated a rule
type ValidationError struct {
	Kind  ErrorKind
	Field string
	Value string
	Limit string // threshold the value was checked against, if any
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %v (got %s", e.Field, e.Kind.Sentinel(), e.Value)
	if e.Limit != "" {
		msg += ", limit " + e.Limit
	}
	return msg + ")"
}

// Unwrap exposes the sentinel so errors.Is works on a ValidationError
func (e *ValidationError) Unwrap() error {
	return e.Kind.Sentinel()
}

// KindOf extracts the ErrorKind carried by err
func KindOf(err error) (ErrorKind, bool) {
	if err == nil {
		return 0, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind, true
		}
	}
	return 0, false
}
