// Package document adapts vendor documents into the stable Document value type.
//
// A Document is built in one of three ways: FromJSON parses caller-supplied JSON
// text, Wrap adapts one vendor document and WrapAll adapts a page of them. Typed
// access goes through Decode or the generic As:
//
//	product, err := document.As[Product](doc)
//	if errors.IsDecodeError(err) {
//	    // the payload does not fit Product
//	}
package document
