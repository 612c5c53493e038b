package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/handler"
	"github.com/noah-isme/roomtalk-api/internal/service"
)

type mockRoomService struct {
	homeRequest   dto.HomeRequest
	createHostID  uint
	createPayload dto.RoomCreateRequest
	likeRoomID    uint
	likeUserID    uint
	home          dto.HomeResponse
	detail        dto.RoomDetailResponse
	room          dto.RoomResponse
	message       dto.MessageResponse
	err           error
}

func (m *mockRoomService) Home(_ context.Context, req dto.HomeRequest) (dto.HomeResponse, error) {
	m.homeRequest = req
	return m.home, m.err
}

func (m *mockRoomService) Detail(_ context.Context, _ uint) (dto.RoomDetailResponse, error) {
	return m.detail, m.err
}

func (m *mockRoomService) Create(_ context.Context, hostID uint, payload dto.RoomCreateRequest) (dto.RoomResponse, error) {
	m.createHostID = hostID
	m.createPayload = payload
	return m.room, m.err
}

func (m *mockRoomService) Update(_ context.Context, _, _ uint, _ dto.RoomUpdateRequest) (dto.RoomResponse, error) {
	return m.room, m.err
}

func (m *mockRoomService) Delete(_ context.Context, _, _ uint) error {
	return m.err
}

func (m *mockRoomService) PostMessage(_ context.Context, _, _ uint, _ dto.MessageCreateRequest) (dto.MessageResponse, error) {
	return m.message, m.err
}

func (m *mockRoomService) Like(_ context.Context, roomID, userID uint) error {
	m.likeRoomID = roomID
	m.likeUserID = userID
	return m.err
}

func newRoomApp(svc service.RoomService, identity fiber.Handler) *fiber.App {
	app := fiber.New()
	if identity != nil {
		app.Use(identity)
	}
	handler.NewRoomHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/rooms"))
	return app
}

func TestRoomHandler_HomeDefaultsNonNumericPage(t *testing.T) {
	svc := &mockRoomService{home: dto.HomeResponse{
		Pagination: dto.PaginationMeta{Page: 1, PageSize: 6},
	}}
	app := newRoomApp(svc, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/rooms?page=abc&q=chess", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, svc.homeRequest.Page, "a non-numeric page falls back to 1")
	require.Equal(t, "chess", svc.homeRequest.Query)
}

func TestRoomHandler_CreateRequiresStaff(t *testing.T) {
	svc := &mockRoomService{}

	anonymous := newRoomApp(svc, nil)
	resp, err := anonymous.Test(jsonRequest(http.MethodPost, "/api/v1/rooms", `{"topic":"Games","name":"Chess"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	regular := newRoomApp(svc, asUser(7, "bob", false, false))
	resp, err = regular.Test(jsonRequest(http.MethodPost, "/api/v1/rooms", `{"topic":"Games","name":"Chess"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Zero(t, svc.createHostID, "the service is never reached")

	staff := newRoomApp(svc, asUser(8, "admin", true, false))
	resp, err = staff.Test(jsonRequest(http.MethodPost, "/api/v1/rooms", `{"topic":"Games","name":"Chess"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(8), svc.createHostID)
	require.Equal(t, "Chess", svc.createPayload.Name)
}

func TestRoomHandler_PostMessageRequiresLogin(t *testing.T) {
	svc := &mockRoomService{message: dto.MessageResponse{ID: 1, Body: "hi"}}

	anonymous := newRoomApp(svc, nil)
	resp, err := anonymous.Test(jsonRequest(http.MethodPost, "/api/v1/rooms/3/messages", `{"body":"hi"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	regular := newRoomApp(svc, asUser(7, "bob", false, false))
	resp, err = regular.Test(jsonRequest(http.MethodPost, "/api/v1/rooms/3/messages", `{"body":"hi"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestRoomHandler_DuplicateLikeConflicts(t *testing.T) {
	svc := &mockRoomService{err: service.ErrAlreadyLiked}
	app := newRoomApp(svc, asUser(7, "bob", false, false))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/rooms/3/likes", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.Equal(t, uint(3), svc.likeRoomID)
	require.Equal(t, uint(7), svc.likeUserID)
}

func TestRoomHandler_UpdateByNonOwnerForbidden(t *testing.T) {
	svc := &mockRoomService{err: service.ErrNotOwner}
	app := newRoomApp(svc, asUser(8, "admin", true, false))

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v1/rooms/3", `{"topic":"Games","name":"Hijacked"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, service.ErrNotOwner.Error(), body.Message)
}

func TestRoomHandler_DetailInvalidID(t *testing.T) {
	svc := &mockRoomService{}
	app := newRoomApp(svc, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/rooms/chess", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
