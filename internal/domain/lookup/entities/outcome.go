package entities

import "fmt"

// OutcomeKind classifies one remote fetch attempt
type OutcomeKind int

const (
	OutcomeFound OutcomeKind = iota
	OutcomeNotFound
	OutcomeForbidden
	OutcomeInvalidRequest
	OutcomeTransportError
)

// String returns the label used in metrics and events
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeInvalidRequest:
		return "invalid_request"
	case OutcomeTransportError:
		return "transport_error"
	}
	return "unknown"
}

// outcomeReasons maps failed outcomes to the message shown to users
var outcomeReasons = map[OutcomeKind]string{
	OutcomeNotFound:       "Пользователь не найден",
	OutcomeForbidden:      "Доступ запрещен (приватный профиль)",
	OutcomeInvalidRequest: "Неверный запрос или юзернейм не существует",
	OutcomeTransportError: "Ошибка соединения: %s",
}

// LookupOutcome is the result of one fetch. Profile is set only for OutcomeFound,
// Detail carries the remote or transport error text otherwise.
type LookupOutcome struct {
	Kind    OutcomeKind
	Profile *ProfileRecord
	Detail  string
}

// Found creates a successful outcome
func Found(profile *ProfileRecord) LookupOutcome {
	return LookupOutcome{Kind: OutcomeFound, Profile: profile}
}

// Failed creates a failed outcome of the given kind
func Failed(kind OutcomeKind, detail string) LookupOutcome {
	return LookupOutcome{Kind: kind, Detail: detail}
}

// Success reports whether a profile was found
func (o LookupOutcome) Success() bool {
	return o.Kind == OutcomeFound && o.Profile != nil
}

// Reason returns the user-facing failure reason, empty for a found profile
func (o LookupOutcome) Reason() string {
	if o.Success() {
		return ""
	}

	template, ok := outcomeReasons[o.Kind]
	if !ok {
		return "Неизвестная ошибка"
	}
	if o.Kind == OutcomeTransportError {
		return fmt.Sprintf(template, o.Detail)
	}
	return template
}
