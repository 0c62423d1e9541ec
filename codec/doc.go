// Package codec converts values between Go and the fixed binary layouts
// that cross the foreign boundary.
//
// All functions are pure. Encoders take ownership of the slices they are
// given; decoders copy out of borrowed input and never retain it.
//
// # Layouts
//
//   - Buffer: {length, bytes}. Strings use the same layout, UTF-8 without
//     a terminator.
//   - Batch: a fixed array of BatchCapacity buffers plus a logical length.
//     Rows at or beyond the length are zero-length placeholders.
//   - Group members: concatenated 81 byte records, a 16 byte user id
//     followed by a 65 byte member id.
//   - Device descriptor: {index, name, unique id, localization key}. A
//     missing device is reported as the EmptyDescriptor sentinel.
//   - HTTP headers: repeated u32be(len(name)) name u32be(len(value)) value.
//   - HTTP body: u32be(len(body)) body.
package codec
