package task

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CC/CP 输入校验错误
var (
	ErrEmptyInput = errors.New("input cannot be empty")
	ErrBadSuffix  = errors.New("must end with 'A' (Amperes) or 'W' (Watts)")
	ErrBadNumber  = errors.New("invalid number format")
)

// Unit CC/CP 单位
type Unit string

const (
	UnitAmpere Unit = "A" // 恒流
	UnitWatt   Unit = "W" // 恒功率
)

// CCCP 解析后的恒流/恒功率设定
type CCCP struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (c CCCP) String() string {
	return strconv.FormatFloat(c.Value, 'f', -1, 64) + string(c.Unit)
}

var numberPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ValidateCCCP 校验并解析形如 "5A" / "10.5W" 的输入，不区分大小写
// 不校验数值范围
func ValidateCCCP(raw string) (CCCP, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return CCCP{}, ErrEmptyInput
	}

	unit := Unit(s[len(s)-1:])
	if unit != UnitAmpere && unit != UnitWatt {
		return CCCP{}, fmt.Errorf("%q: %w", raw, ErrBadSuffix)
	}

	num := s[:len(s)-1]
	if !numberPattern.MatchString(num) {
		return CCCP{}, fmt.Errorf("%q: %w", raw, ErrBadNumber)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return CCCP{}, fmt.Errorf("%q: %w", raw, ErrBadNumber)
	}

	return CCCP{Value: v, Unit: unit}, nil
}

// ErrorKind 错误分类，用于 API 响应和指标标签
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrBadSuffix):
		return "bad_suffix"
	case errors.Is(err, ErrBadNumber):
		return "bad_number"
	case errors.Is(err, ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, ErrMissingSpec):
		return "missing_spec"
	case errors.Is(err, ErrUnknownType):
		return "unknown_task_type"
	default:
		return "unknown"
	}
}
