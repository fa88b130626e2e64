package ratelimit

import "time"

// Policy names used by the HTTP layer.
const (
	PolicyLogin  = "login"
	PolicyUpload = "upload"
	PolicyAPI    = "api"
)

// DefaultPolicies returns the built-in limits. Development mode relaxes login and upload
// limits tenfold and fivefold respectively.
func DefaultPolicies(development bool) map[string]Policy {
	login := Policy{Name: PolicyLogin, Window: 15 * time.Minute, MaxRequests: 5}
	upload := Policy{Name: PolicyUpload, Window: time.Hour, MaxRequests: 20}
	if development {
		login.MaxRequests = 50
		upload.MaxRequests = 100
	}
	return map[string]Policy{
		PolicyLogin:  login,
		PolicyUpload: upload,
		PolicyAPI:    {Name: PolicyAPI, Window: time.Minute, MaxRequests: 300},
	}
}
