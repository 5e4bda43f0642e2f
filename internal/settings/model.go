package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type DataType string

const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeJSON    DataType = "json"
)

type Category string

const (
	CategoryStore        Category = "store"
	CategoryPayment      Category = "payment"
	CategoryShipping     Category = "shipping"
	CategoryNotification Category = "notification"
	CategoryEmail        Category = "email"
	CategorySystem       Category = "system"
)

var (
	ErrNotFound        = errors.New("setting not found")
	ErrInvalidType     = errors.New("invalid setting data type")
	ErrInvalidCategory = errors.New("invalid setting category")
	ErrInvalidValue    = errors.New("setting value does not match declared type")
)

// Well-known keys used by the order/payment flow.
const (
	KeyFreeShippingThreshold = "free_shipping_threshold"
	KeyFlatShippingFee       = "flat_shipping_fee"
	KeyStoreName             = "store_name"
	KeyAdminEmail            = "admin_email"
)

// Setting is one typed configuration row. Value keeps the raw stored
// text; Parsed is the tagged union decoded per DataType.
type Setting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	DataType    DataType  `json:"data_type"`
	Category    Category  `json:"category"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	Parsed      Value     `json:"parsed_value"`
}

// Value is a tagged union over the four declared setting types. Exactly
// one of the typed fields is meaningful, selected by Type.
type Value struct {
	Type   DataType
	Str    string
	Num    float64
	Bool   bool
	Object json.RawMessage
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case TypeNumber:
		return json.Marshal(v.Num)
	case TypeBoolean:
		return json.Marshal(v.Bool)
	case TypeJSON:
		if len(v.Object) == 0 {
			return []byte("null"), nil
		}
		return v.Object, nil
	default:
		return json.Marshal(v.Str)
	}
}

// ParseValue decodes a stored text value according to its declared type.
func ParseValue(dataType DataType, raw string) (Value, error) {
	switch dataType {
	case TypeString:
		return Value{Type: TypeString, Str: raw}, nil
	case TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
		}
		return Value{Type: TypeNumber, Num: n}, nil
	case TypeBoolean:
		return Value{Type: TypeBoolean, Bool: raw == "true" || raw == "1"}, nil
	case TypeJSON:
		if !json.Valid([]byte(raw)) {
			return Value{}, fmt.Errorf("%w: invalid JSON for %q", ErrInvalidValue, raw)
		}
		return Value{Type: TypeJSON, Object: json.RawMessage(raw)}, nil
	default:
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidType, dataType)
	}
}

// EncodeValue renders a typed value back to the stored text form.
func EncodeValue(dataType DataType, v any) (string, error) {
	switch dataType {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return "", fmt.Errorf("%w: expected string", ErrInvalidValue)
	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(n), nil
		case int64:
			return strconv.FormatInt(n, 10), nil
		case json.Number:
			return n.String(), nil
		}
		return "", fmt.Errorf("%w: expected number", ErrInvalidValue)
	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), nil
		}
		return "", fmt.Errorf("%w: expected boolean", ErrInvalidValue)
	case TypeJSON:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, dataType)
	}
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryStore, CategoryPayment, CategoryShipping,
		CategoryNotification, CategoryEmail, CategorySystem:
		return true
	}
	return false
}

func ValidDataType(t DataType) bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeJSON:
		return true
	}
	return false
}
