package model

// HealthStatus is the /health response. Endpoints lists the optional
// endpoints mounted on this server.
type HealthStatus struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}
