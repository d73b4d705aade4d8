package classfile

import "math"

// findAttribute scans the attribute table in reverse order and returns
// the index of the first attribute named name, or -1.
func (c *ClassFile) findAttribute(name string) int {
	for i := len(c.Attributes) - 1; i >= 0; i-- {
		attrName, err := c.ConstantPool.Utf8(c.Attributes[i].NameIndex)
		if err != nil {
			continue
		}
		if attrName == name {
			return i
		}
	}
	return -1
}

// Attribute returns a copy of the payload of the attribute named name.
// If the table holds more than one such attribute, the last one wins.
func (c *ClassFile) Attribute(name string) ([]byte, bool) {
	i := c.findAttribute(name)
	if i < 0 {
		return nil, false
	}
	return append([]byte{}, c.Attributes[i].Data...), true
}

// SetAttribute stores data as the payload of the attribute named name.
//
// A nil data stores an empty attribute. An existing attribute is
// overwritten in place; otherwise a new attribute is appended, reusing
// an existing Utf8 constant for the name or appending one.
func (c *ClassFile) SetAttribute(name string, data []byte) error {
	if uint64(len(data)) > math.MaxUint32 {
		return Error.New("attribute %q of %d bytes is too large", name, len(data))
	}

	slot := c.findAttribute(name)

	var nameIndex uint16
	if slot >= 0 {
		nameIndex = c.Attributes[slot].NameIndex
	} else {
		if len(c.Attributes) >= math.MaxUint16 {
			return Error.New("attribute table is full")
		}

		idx, ok := c.ConstantPool.FindUtf8(name)
		if !ok {
			var err error
			idx, err = c.ConstantPool.AddUtf8(name)
			if err != nil {
				return err
			}
		}
		nameIndex = idx
	}

	attr := &Attribute{
		NameIndex: nameIndex,
		Data:      append([]byte{}, data...),
	}

	if slot >= 0 {
		c.Attributes[slot] = attr
		return nil
	}

	c.Attributes = append(c.Attributes, attr)
	return nil
}
