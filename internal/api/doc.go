// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external producers
// and the spool, translating HTTP concerns to scheduled spool operations.
package api
