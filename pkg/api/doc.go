// Package api defines the request and response messages served over Connect.
//
// Messages are plain Go structs carried as JSON (see Codec), so any Connect or
// plain-HTTP client can POST them to /budgetly.v1.<Service>/<Method>.
// Monetary inputs use Amount, which accepts both JSON numbers and numeric strings.
package api
