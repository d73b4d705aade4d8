package classfile

import (
	"encoding/binary"
	"math"
)

// Tag identifies the kind of a constant pool entry.
type Tag uint8

// Constant pool tags.
const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

// infoSize is the size of the fixed-length info following the tag.
// Utf8 is variable length and is not listed.
var infoSize = map[Tag]int{
	TagInteger:            4,
	TagFloat:              4,
	TagLong:               8,
	TagDouble:             8,
	TagClass:              2,
	TagString:             2,
	TagFieldref:           4,
	TagMethodref:          4,
	TagInterfaceMethodref: 4,
	TagNameAndType:        4,
	TagMethodHandle:       3,
	TagMethodType:         2,
	TagDynamic:            4,
	TagInvokeDynamic:      4,
	TagModule:             2,
	TagPackage:            2,
}

// wide reports whether the constant takes up two pool slots.
func (t Tag) wide() bool {
	return t == TagLong || t == TagDouble
}

// Constant is a single constant pool entry.
//
// Info holds the raw bytes following the tag. For Utf8 constants
// it holds the modified UTF-8 bytes without the length prefix.
type Constant struct {
	Tag  Tag
	Info []byte
}

// NameIndex returns the first u2 of the info, which is the
// name (or descriptor) index for Class, String, MethodType,
// Module, Package and NameAndType constants.
func (c *Constant) NameIndex() uint16 {
	if len(c.Info) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(c.Info)
}

// ConstantPool is the constant pool of a class file.
//
// Slot 0 is never used, and the slot after a Long or Double
// constant is an unusable placeholder (nil).
type ConstantPool struct {
	entries []*Constant
}

// Len returns the constant_pool_count, one more than the highest index.
func (p *ConstantPool) Len() int {
	if len(p.entries) == 0 {
		return 1
	}
	return len(p.entries)
}

// Entry returns the constant at index or nil if the slot is unused.
func (p *ConstantPool) Entry(index uint16) *Constant {
	if int(index) >= len(p.entries) {
		return nil
	}
	return p.entries[index]
}

// Utf8 resolves a Utf8 constant to a Go string.
func (p *ConstantPool) Utf8(index uint16) (string, error) {
	c := p.Entry(index)
	if c == nil {
		return "", Error.New("constant pool index %d is not a valid entry", index)
	}
	if c.Tag != TagUtf8 {
		return "", Error.New("constant pool index %d has tag %d, not Utf8", index, c.Tag)
	}
	return decodeModifiedUTF8(c.Info)
}

// FindUtf8 returns the index of the first Utf8 constant equal to s.
func (p *ConstantPool) FindUtf8(s string) (uint16, bool) {
	enc := encodeModifiedUTF8(s)
	for i, c := range p.entries {
		if c == nil || c.Tag != TagUtf8 {
			continue
		}
		if string(c.Info) == string(enc) {
			return uint16(i), true
		}
	}
	return 0, false
}

// AddUtf8 appends a new Utf8 constant and returns its index.
func (p *ConstantPool) AddUtf8(s string) (uint16, error) {
	enc := encodeModifiedUTF8(s)
	if len(enc) > math.MaxUint16 {
		return 0, Error.New("string of %d encoded bytes does not fit a Utf8 constant", len(enc))
	}
	if len(p.entries) == 0 {
		p.entries = append(p.entries, nil)
	}
	if len(p.entries) >= math.MaxUint16 {
		return 0, Error.New("constant pool is full")
	}

	p.entries = append(p.entries, &Constant{Tag: TagUtf8, Info: enc})
	return uint16(len(p.entries) - 1), nil
}

func (p *ConstantPool) read(d *decoder) error {
	count := d.u2()
	if d.err != nil {
		return d.err
	}
	if count == 0 {
		return Error.New("invalid constant pool count 0")
	}

	p.entries = make([]*Constant, count)

	for i := 1; i < int(count); i++ {
		tag := Tag(d.u1())
		if d.err != nil {
			return d.err
		}

		var info []byte
		if tag == TagUtf8 {
			info = d.bytes(int(d.u2()))
		} else {
			size, ok := infoSize[tag]
			if !ok {
				return Error.New("invalid constant pool tag %d at index %d", tag, i)
			}
			info = d.bytes(size)
		}
		if d.err != nil {
			return d.err
		}

		p.entries[i] = &Constant{Tag: tag, Info: info}

		if tag.wide() {
			if i+1 >= int(count) {
				return Error.New("wide constant at index %d overflows the constant pool", i)
			}
			i++
		}
	}

	return nil
}

func (p *ConstantPool) write(e *encoder) {
	e.u2(uint16(p.Len()))
	for _, c := range p.entries {
		if c == nil {
			continue
		}
		e.u1(uint8(c.Tag))
		if c.Tag == TagUtf8 {
			e.u2(uint16(len(c.Info)))
		}
		e.raw(c.Info)
	}
}
