package api

import (
	"net/http"

	"CoinPulse/internal/domain/fault"
	xhttp "CoinPulse/pkg/http"
)

// faultStatus maps a fault kind to its transport status.
func faultStatus(k fault.Kind) int {
	switch k {
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindInsufficientData:
		return http.StatusUnprocessableEntity
	case fault.KindInvalidParameters:
		return http.StatusBadRequest
	case fault.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// appErrorFromFault converts a domain fault into the envelope error. Internal
// faults surface a generic message; their detail stays in the unit logs.
func appErrorFromFault(err error) *xhttp.AppError {
	fe := fault.AsError(err, "internal error")
	msg := fe.Message
	if fe.Kind == fault.KindInternal {
		msg = "internal error"
	}
	return xhttp.NewAppError(fe.Kind.Code(), "", msg, faultStatus(fe.Kind))
}
