package api

// Endpoint is a logical operation name on the account service. The set is
// closed; Path is exhaustive over it.
type Endpoint int

const (
	// Authentication
	EndpointLogin Endpoint = iota
	EndpointRegister
	EndpointLogout
	EndpointRefreshToken

	// User
	EndpointProfile
	EndpointUpdateProfile
	EndpointDeleteAccount
)

// Path returns the URL path for the endpoint, relative to the base URL.
func (e Endpoint) Path() string {
	switch e {
	case EndpointLogin:
		return "/auth/login"
	case EndpointRegister:
		return "/auth/register"
	case EndpointLogout:
		return "/auth/logout"
	case EndpointRefreshToken:
		return "/auth/refresh"
	case EndpointProfile:
		return "/user/profile"
	case EndpointUpdateProfile:
		return "/user/profile"
	case EndpointDeleteAccount:
		return "/user/account"
	default:
		return ""
	}
}
