// Package goshape infers structural types from semi-structured data and
// moves that data between JSON, XML and YAML without losing its shape.
//
// Package goshape provides:
//
// - A closed type model (dtype) with numeric, temporal, categorical and nested families
// - Schema inference with null absorption and widening rules (infer)
// - Type promotion and value casting (cast)
// - Pure normalization helpers: container shape, keys, whitespace, URLs, hostnames, flattening (normalize)
// - Format adapters and an immutable registry (codec)
// - Row and column layouts over a record schema (table)
// - A stable error model: typed errors with codes and JSON Pointer paths
//
// Design policy:
// - Keep only errors and options in the root package; put implementations in subpackages.
// - Keep the JSON tokenizer under source/ and the token decoder under internal/.
// - Every operation is pure over its input and all-or-nothing.
//
// Typical usage:
//
//	data, schema, err := codec.Default.JSON().Decode(ctx, []byte(`{"name":"Ann","scores":[1,2,3]}`))
//	xmlText, _, err := codec.Default.XML().Encode(ctx, data)
//	desc := dtype.DescribeSchema(schema)
package goshape
