// Package share converts a dashboard to and from a compact, URL-safe token.
//
// # Token format
//
// A dashboard is first reduced to a MinimalState: widget types become one
// letter abbreviations, layouts become [x, y, w, h] tuples and every config
// field that equals the registry default for its type is dropped. The
// minimal state is serialized as JSON, compressed with LZ4 when that helps,
// and encoded with the unpadded URL-safe base64 alphabet, so tokens can be
// placed in a query string without escaping.
//
// Encoding is lossy for fields equal to defaults and for widget
// identities, which are regenerated on decode. Re-encoding a decoded token
// yields the same token.
//
// # Decoding
//
// [Codec.Decode] never fails outward. A token that cannot be decompressed,
// parsed or validated yields nil and a logged warning. A widget whose type
// is not registered is skipped on its own; the rest of the dashboard is
// still returned.
//
// # Usage
//
//	reg := registry.NewDefault()
//	codec := share.New(reg)
//
//	token, err := codec.Encode(dash)
//	link := share.URL("https://sitroom.example", token)
//
//	decoded := codec.Decode(token)
//	if decoded == nil {
//	    // fall back to defaults
//	}
package share
