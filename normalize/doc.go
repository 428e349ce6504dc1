// Package normalize holds pure helpers that bring decoded values into the
// canonical shape: container validation, key and string cleanup, URL and
// hostname checks, flattening and null-token handling.
//
// Every function returns fresh values and leaves its input untouched.
package normalize
