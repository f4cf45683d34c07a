package config

const (
	// MaxRemoteIDLength bounds drive and item identifiers accepted from clients.
	// Graph ids are well below this; longer values are rejected before any remote call.
	MaxRemoteIDLength = 256

	// DefaultRecentLimit is used when the recent-files request carries no limit.
	DefaultRecentLimit = 10

	// MaxRecentLimit is the largest page the recent-files endpoint will request.
	MaxRecentLimit = 200

	// MaxRequestBodyBytes limits JSON request bodies.
	MaxRequestBodyBytes = 1 << 20
)
