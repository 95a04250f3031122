package oc

import (
	"context"
	"errors"

	"go.opencensus.io/trace"

	"github.com/teamdman/winhandle/internal/winerror"
)

func toStatusCode(err error) int32 {
	var (
		perr  *winerror.PrivilegeError
		fault *winerror.WatchFault
	)
	switch {
	case errors.Is(err, context.Canceled):
		return trace.StatusCodeCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return trace.StatusCodeDeadlineExceeded
	case errors.Is(err, winerror.ErrInvalidHandle):
		return trace.StatusCodeInvalidArgument
	case errors.Is(err, winerror.ErrUnexpectedEOF):
		return trace.StatusCodeOutOfRange
	case errors.As(err, &perr):
		return trace.StatusCodePermissionDenied
	case errors.As(err, &fault):
		return trace.StatusCodeUnavailable
	default:
		return trace.StatusCodeUnknown
	}
}
