// Package records defines the raw record shapes persisted for each upstream
// source and the identity helpers used to link records across sources.
//
// Raw records are immutable once stored. They carry parquet struct tags so a
// snapshot can be written as a columnar file without an intermediate row type.
// Optional upstream attributes are pointers: nil means the source did not
// report the attribute.
package records

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// listSeparator joins list-valued attributes (modalities, env vars) into a
// single nullable column.
const listSeparator = ","

var lower = cases.Lower(language.Und)

// Identity is the pair of mandatory identity fields every raw record carries.
// Values are kept as sourced; comparisons go through Normalize.
type Identity struct {
	ProviderKey string `json:"provider_key" yaml:"provider_key"`
	ModelKey    string `json:"model_key" yaml:"model_key"`
}

// CompositeKey returns the normalized provider/model handle for the identity.
func (i Identity) CompositeKey() string {
	return CompositeKey(i.ProviderKey, i.ModelKey)
}

// String returns the identity as sourced.
func (i Identity) String() string {
	return i.ProviderKey + "/" + i.ModelKey
}

// Record is implemented by every raw record type.
type Record interface {
	Identity() Identity
}

// Normalize lowercases and trims an identity component.
func Normalize(s string) string {
	return lower.String(strings.TrimSpace(s))
}

// CompositeKey builds the normalized "provider/model" key.
func CompositeKey(provider, model string) string {
	return Normalize(provider) + "/" + Normalize(model)
}

// JoinList flattens a list attribute into a nullable column value.
// A nil slice stays nil (unknown); an empty slice becomes "" (known empty).
func JoinList(values []string) *string {
	if values == nil {
		return nil
	}
	joined := strings.Join(values, listSeparator)
	return &joined
}

// SplitList reverses JoinList.
func SplitList(value *string) []string {
	if value == nil {
		return nil
	}
	if *value == "" {
		return []string{}
	}
	return strings.Split(*value, listSeparator)
}
