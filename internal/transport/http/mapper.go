package http

import (
	"errors"
	"net/http"

	"github.com/vovakirdan/redischat/internal/core"
	"github.com/vovakirdan/redischat/internal/proto"
	"github.com/vovakirdan/redischat/internal/store"
)

func streamEventFromCore(ev *core.Event) proto.StreamEvent {
	return proto.StreamEvent{
		Channel: ev.Channel,
		Text:    ev.Text,
		Private: ev.Kind == core.EventPrivateMessage,
	}
}

func profileResponse(p *store.Profile) proto.ProfileResponse {
	return proto.ProfileResponse{
		Username: p.Username,
		Age:      p.Age,
		Gender:   p.Gender,
		Location: p.Location,
	}
}

// errorStatus maps domain errors to HTTP status codes. Unknown errors are 500.
func errorStatus(err error) (int, proto.Error) {
	if errors.Is(err, errBadBody) {
		return http.StatusBadRequest, proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid request body"}
	}

	code := core.ErrorCode(err)
	switch code {
	case core.ErrCodeBadRequest:
		return http.StatusBadRequest, proto.Error{Code: code, Msg: err.Error()}
	case core.ErrCodeNotIdentified:
		return http.StatusUnauthorized, proto.Error{Code: code, Msg: err.Error()}
	case core.ErrCodeAlreadyIdentified:
		return http.StatusConflict, proto.Error{Code: code, Msg: err.Error()}
	case core.ErrCodeUserNotFound, core.ErrCodeNotFound:
		return http.StatusNotFound, proto.Error{Code: code, Msg: err.Error()}
	default:
		return http.StatusInternalServerError, proto.Error{Code: "internal", Msg: "internal server error"}
	}
}
