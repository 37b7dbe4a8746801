package types

import (
	"database/sql/driver"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IntList is a JSONB array of integers, e.g. the guests per room of a booking
type IntList []int

// Scan implements the sql.Scanner interface for IntList
func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = IntList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}

	result := IntList{}
	err := json.Unmarshal(bytes, &result)
	*l = result
	return err
}

// Value implements the driver.Valuer interface for IntList
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(IntList{})
	}
	return json.Marshal([]int(l))
}

// Sum returns the total of the list
func (l IntList) Sum() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}
