package openfda

import (
	"fmt"
	"sort"
)

// Endpoint identifies an openFDA device dataset.
type Endpoint string

// Device endpoints. Paths are relative to https://api.fda.gov.
const (
	Endpoint510k           Endpoint = "device/510k"
	EndpointClassification Endpoint = "device/classification"
	EndpointEnforcement    Endpoint = "device/enforcement"
	EndpointEvent          Endpoint = "device/event"
	EndpointRecall         Endpoint = "device/recall"
	EndpointRegistration   Endpoint = "device/registrationlisting"
	EndpointPMA            Endpoint = "device/pma"
	EndpointUDI            Endpoint = "device/udi"
)

// endpointInfo describes one dataset for help output and validation.
type endpointInfo struct {
	Description string
	Fields      map[string]Field
}

// Field documents a queryable field on an endpoint.
type Field struct {
	Description string
	Type        string // string, date, int, exact
}

// Known returns whether the endpoint exists in the registry.
func (e Endpoint) Known() bool {
	_, ok := endpoints[e]
	return ok
}

// Path returns the URL path for the endpoint, without leading slash.
func (e Endpoint) Path() string {
	return string(e) + ".json"
}

// Description returns the human-readable dataset description.
func (e Endpoint) Description() string {
	if info, ok := endpoints[e]; ok {
		return info.Description
	}
	return ""
}

// Fields returns the field table for the endpoint.
func (e Endpoint) Fields() (map[string]Field, error) {
	info, ok := endpoints[e]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, e)
	}
	return info.Fields, nil
}

// FieldNames returns the sorted queryable field names for the endpoint.
func (e Endpoint) FieldNames() []string {
	info, ok := endpoints[e]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(info.Fields))
	for name := range info.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllEndpoints returns every registered endpoint, sorted.
func AllEndpoints() []Endpoint {
	eps := make([]Endpoint, 0, len(endpoints))
	for e := range endpoints {
		eps = append(eps, e)
	}
	sort.Slice(eps, func(i, j int) bool { return eps[i] < eps[j] })
	return eps
}

// ParseEndpoint resolves a CLI argument to an Endpoint. Accepts the full
// form ("device/510k") and the short form ("510k").
func ParseEndpoint(arg string) (Endpoint, error) {
	if e := Endpoint(arg); e.Known() {
		return e, nil
	}
	if e := Endpoint("device/" + arg); e.Known() {
		return e, nil
	}
	return "", fmt.Errorf("%w: %q (known: %v)", ErrUnknownEndpoint, arg, AllEndpoints())
}
