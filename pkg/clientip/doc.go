// Package clientip resolves the address of the client behind the edge proxy
// and carries it through the request context for logging and rate limiting.
package clientip
