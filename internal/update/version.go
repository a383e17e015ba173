// Package update implements the remote version check and the confirmation
// flow that gates the installer package download.
package update

import (
	"encoding/binary"
	"fmt"
)

// DescriptorSize is the exact size of the remote version descriptor. A remote
// file of any other size carries no usable update info.
const DescriptorSize = 4

// Version is a 32-bit build version: major in the top byte, minor in the next.
// Ordering is plain numeric comparison on the whole word.
type Version uint32

// Current is the embedded version of the running build.
const Current Version = 0x01200000 // 1.2

// EncodeVersion packs major and minor into a Version.
func EncodeVersion(major, minor int) Version {
	return Version(uint32(major&0xFF)<<24 | uint32(minor&0xFF)<<16)
}

// ParseDescriptor decodes a remote version descriptor (4 bytes, big-endian).
func ParseDescriptor(data []byte) (Version, error) {
	if len(data) != DescriptorSize {
		return 0, fmt.Errorf("version descriptor must be %d bytes, got %d", DescriptorSize, len(data))
	}
	return Version(binary.BigEndian.Uint32(data)), nil
}

// Major returns the major version field.
func (v Version) Major() int {
	return int(v >> 24 & 0xFF)
}

// Minor returns the minor version field.
func (v Version) Minor() int {
	return int(v >> 16 & 0xFF)
}

// Format renders the version as MAJOR.MINOR in hex digits, with the trailing
// zero of the minor suppressed: 0x01200000 formats as "1.2", 0x01050000 as
// "1.05". The suppression applies only to the single-digit-major "M.mm"
// shape; a wider major keeps the full minor ("10.20").
func (v Version) Format() string {
	s := fmt.Sprintf("%X.%02X", v.Major(), v.Minor())
	if len(s) == 4 && s[3] == '0' {
		s = s[:3]
	}
	return s
}

// NewerThan reports whether v is strictly newer than other.
func (v Version) NewerThan(other Version) bool {
	return v > other
}
