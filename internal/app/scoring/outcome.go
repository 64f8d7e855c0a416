package scoring

import (
	"errors"
	"francoggm/antiscam-scoring/internal/models"
)

type OutcomeKind int

const (
	Success OutcomeKind = iota
	RateLimited
	Timeout
	MalformedResponse
	CountMismatch
	TransportError
	EndpointUnconfigured
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case RateLimited:
		return "rate_limited"
	case Timeout:
		return "timeout"
	case MalformedResponse:
		return "malformed_response"
	case CountMismatch:
		return "count_mismatch"
	case TransportError:
		return "transport_error"
	case EndpointUnconfigured:
		return "endpoint_unconfigured"
	default:
		return "unknown"
	}
}

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrDecode           = errors.New("undecodable prediction payload")
)

// Outcome is the result of exactly one remote attempt. Predictions is only set on Success,
// with one entry per submitted record.
type Outcome struct {
	Kind        OutcomeKind
	Predictions []models.PredictionResult
	Err         error
}

func (o Outcome) OK() bool {
	return o.Kind == Success
}

func failed(kind OutcomeKind, err error) Outcome {
	return Outcome{Kind: kind, Err: err}
}

// Category buckets an outcome for observability.
func Category(o Outcome) string {
	switch o.Kind {
	case Success:
		return ""
	case EndpointUnconfigured:
		return "configuration_absent"
	case RateLimited:
		return "rate_limited"
	case Timeout:
		return "transient_network_failure"
	case MalformedResponse, CountMismatch:
		return "protocol_violation"
	case TransportError:
		if errors.Is(o.Err, ErrDecode) {
			return "unexpected_decode_failure"
		}
		return "transient_network_failure"
	default:
		return "internal"
	}
}
