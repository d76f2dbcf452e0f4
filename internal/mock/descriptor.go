package mock

// Descriptor is a map backed config.Descriptor.
type Descriptor struct {
	Attrs  map[string]string
	Arrays map[string][]string
}

func (d *Descriptor) Attribute(name string) (string, bool) {
	v, ok := d.Attrs[name]
	return v, ok
}

func (d *Descriptor) AttributeArray(name string) ([]string, bool) {
	v, ok := d.Arrays[name]
	return v, ok
}
