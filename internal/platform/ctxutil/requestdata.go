package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries per-request identity resolved by the auth middleware.
type RequestData struct {
	UserID uuid.UUID
}

func WithRequestData(ctx context.Context, data *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, data)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	rd, ok := ctx.Value(requestDataKey{}).(*RequestData)
	if !ok {
		return nil
	}
	return rd
}

// UserID is a convenience accessor returning uuid.Nil when no identity is set.
func UserID(ctx context.Context) uuid.UUID {
	rd := GetRequestData(ctx)
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}
