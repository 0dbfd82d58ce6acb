package models

// VersionResponse holds the version of the running server.
type VersionResponse struct {
	Commit string `json:"commit"`
}
