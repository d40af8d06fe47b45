package shared

import (
	"net/http"
	"strings"
)

// EmployeeNumber resolves the technician scope for a request. The client
// sends it either as the empId query parameter or the X-Employee-Number
// header; entries, presets and week records are all keyed by it.
func EmployeeNumber(r *http.Request) string {
	if v := strings.TrimSpace(r.URL.Query().Get("empId")); v != "" {
		return v
	}
	return strings.TrimSpace(r.Header.Get("X-Employee-Number"))
}

func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
