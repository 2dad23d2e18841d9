package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/application/mediator"
)

type pingRequest struct{ Name string }
type pingResponse struct{ Reply string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	req := request.(*pingRequest)
	return &pingResponse{Reply: "pong-" + req.Name}, nil
}

func TestMediator_SendDispatchesToRegisteredHandler(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[*pingRequest](m, pingHandler{}))

	resp, err := m.Send(context.Background(), &pingRequest{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong-a", resp.(*pingResponse).Reply)
}

func TestMediator_SendWithNoHandlerErrors(t *testing.T) {
	m := mediator.New()
	_, err := m.Send(context.Background(), &pingRequest{Name: "a"})
	assert.Error(t, err)
}

func TestMediator_DuplicateRegistrationErrors(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[*pingRequest](m, pingHandler{}))
	err := mediator.RegisterHandler[*pingRequest](m, pingHandler{})
	assert.Error(t, err)
}

func TestMediator_MiddlewareRunsInRegistrationOrder(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[*pingRequest](m, pingHandler{}))

	var order []string
	m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		order = append(order, "first-before")
		resp, err := next(ctx, request)
		order = append(order, "first-after")
		return resp, err
	})
	m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		order = append(order, "second-before")
		resp, err := next(ctx, request)
		order = append(order, "second-after")
		return resp, err
	})

	_, err := m.Send(context.Background(), &pingRequest{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first-before", "second-before", "second-after", "first-after"}, order)
}

func TestMediator_SendRecoversHandlerPanic(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[*pingRequest](m, panicHandler{}))

	_, err := m.Send(context.Background(), &pingRequest{Name: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

type panicHandler struct{}

func (panicHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	panic("boom")
}

func TestMediator_MiddlewareCanShortCircuitOnError(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[*pingRequest](m, pingHandler{}))

	sentinel := errors.New("blocked")
	m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		return nil, sentinel
	})

	_, err := m.Send(context.Background(), &pingRequest{Name: "a"})
	assert.ErrorIs(t, err, sentinel)
}
