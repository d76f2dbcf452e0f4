// Package config turns user supplied connector configuration into the canonical
// property set consumed by the broker plugins.
//
// Configuration arrives either as a Descriptor (a fixed set of named attributes
// plus a "properties" array of key=value entries) or as a flat map. Both feed the
// same pipeline:
//
//	props, err := config.FromDescriptor(file)
//	props, err := config.FromMap(map[string]string{"destination": "orders"})
//
// The pipeline applies the MB compatibility rewrite and then renames public keys
// to their internal names.
package config

// Descriptor is a source of named configuration attributes.
type Descriptor interface {
	// Attribute returns the string value of name, if set.
	Attribute(name string) (string, bool)

	// AttributeArray returns the array value of name, if set.
	AttributeArray(name string) ([]string, bool)
}

// FromDescriptor normalizes the recognized attributes of d. Entries of the
// "properties" array are applied after the fixed attributes and win on
// collision.
func FromDescriptor(d Descriptor) (Properties, error) {
	p := make(Properties)
	for _, name := range descriptorAttributes {
		if v, ok := d.Attribute(name); ok {
			p[name] = v
		}
	}
	if entries, ok := d.AttributeArray(KeyProperties); ok {
		if err := ParseList(entries, p); err != nil {
			return nil, err
		}
	}
	return finalize(p)
}

// FromMap normalizes a flat map. Every key is kept.
func FromMap(m map[string]string) (Properties, error) {
	p := make(Properties, len(m))
	for k, v := range m {
		p[k] = v
	}
	return finalize(p)
}

func finalize(p Properties) (Properties, error) {
	if err := RewriteForBroker(p); err != nil {
		return nil, err
	}
	rename(p, renameTable)
	return p, nil
}

// rename moves every key found in table to its mapped name in a single pass.
// Moved values are not looked up again.
func rename(p Properties, table map[string]string) {
	moved := make(map[string]string)
	for k, v := range p {
		if to, ok := table[k]; ok {
			moved[to] = v
			delete(p, k)
		}
	}
	for k, v := range moved {
		p[k] = v
	}
}
