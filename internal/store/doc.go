// Package store holds the gateway's persistence adapters: the MongoDB user
// store and the Redis backed OAuth state store and disposable domain set.
//
// Users and DisposableDomains also expose async validation rules
// (uniqueEmail and notDisposableEmail) that the gateway registers on its
// validator.Engine.
package store
