package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityAccess                       // Access or service token required
	SecurityService                      // Service token required
)

// EndpointSecurityConfig maps methods to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"/grpc.health.v1.Health/Check": SecurityPublic,
	"/grpc.health.v1.Health/Watch": SecurityPublic,

	// ReservationService
	"/gameplaza.v1.ReservationService/CreateReservation":      SecurityAccess,
	"/gameplaza.v1.ReservationService/GetReservation":         SecurityAccess,
	"/gameplaza.v1.ReservationService/ListDeviceReservations": SecurityAccess,
	"/gameplaza.v1.ReservationService/UpdateReservationSlot":  SecurityAccess,
	"/gameplaza.v1.ReservationService/ApproveReservation":     SecurityAccess,
	"/gameplaza.v1.ReservationService/RejectReservation":      SecurityAccess,
	"/gameplaza.v1.ReservationService/CancelReservation":      SecurityAccess,
	"/gameplaza.v1.ReservationService/MarkNoShow":             SecurityAccess,
	"/gameplaza.v1.ReservationService/ProcessAutoNoShow":      SecurityService,

	// CheckInService
	"/gameplaza.v1.CheckInService/ProcessCheckIn":         SecurityAccess,
	"/gameplaza.v1.CheckInService/ConfirmPayment":         SecurityAccess,
	"/gameplaza.v1.CheckInService/AdjustTimeAndAmount":    SecurityAccess,
	"/gameplaza.v1.CheckInService/ProcessCheckOut":        SecurityAccess,
	"/gameplaza.v1.CheckInService/GetCheckInDetails":      SecurityAccess,
	"/gameplaza.v1.CheckInService/GetActiveCheckIns":      SecurityAccess,
	"/gameplaza.v1.CheckInService/GetCheckInsByDateRange": SecurityAccess,
	"/gameplaza.v1.CheckInService/ListPendingPayments":    SecurityAccess,

	// AccountService
	"/gameplaza.v1.AccountService/GetUser":            SecurityAccess,
	"/gameplaza.v1.AccountService/SuspendUser":        SecurityAccess,
	"/gameplaza.v1.AccountService/BanUser":            SecurityAccess,
	"/gameplaza.v1.AccountService/ActivateUser":       SecurityAccess,
	"/gameplaza.v1.AccountService/ChangeRole":         SecurityAccess,
	"/gameplaza.v1.AccountService/RecordLoginAttempt": SecurityService,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityService
}
