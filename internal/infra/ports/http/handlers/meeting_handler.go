package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/business-nexus/backend/internal/application/constant"
	"github.com/business-nexus/backend/internal/domain/apperror"
	"github.com/business-nexus/backend/internal/domain/input"
	"github.com/business-nexus/backend/internal/infra/appctx"
	"github.com/business-nexus/backend/internal/infra/ports/http/dto"
	"github.com/business-nexus/backend/internal/usecase"
)

type MeetingHandler struct {
	meetingUsecase usecase.MeetingUsecase
}

func NewMeetingHandler(meetingUsecase usecase.MeetingUsecase) *MeetingHandler {
	return &MeetingHandler{meetingUsecase: meetingUsecase}
}

func (h *MeetingHandler) CreateMeetingHandler(c echo.Context) error {
	var req dto.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	createMeetingInput := &input.CreateMeetingInput{
		OrganizerID:    userID,
		ParticipantIDs: req.ParticipantIDs,
		Title:          req.Title,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Location:       req.Location,
	}

	meeting, err := h.meetingUsecase.CreateMeeting(c.Request().Context(), createMeetingInput)
	if err != nil {
		if apperror.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		if errors.Is(err, apperror.ErrConflict) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}

		slog.Error("create meeting", slog.Any(constant.Error, err))

		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create meeting"})
	}

	return c.JSON(http.StatusCreated, meeting)
}

func (h *MeetingHandler) ListMeetingsHandler(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	meetings, err := h.meetingUsecase.GetMeetingsForUser(c.Request().Context(), userID)
	if err != nil {
		slog.Error("get meetings by user id", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get meetings"})
	}

	return c.JSON(http.StatusOK, dto.ListMeetingsResponse{Meetings: meetings})
}

func (h *MeetingHandler) GetMeetingHandler(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid meeting id"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	meeting, err := h.meetingUsecase.GetMeeting(c.Request().Context(), userID, meetingID)
	if err != nil {
		return h.meetingError(c, err, "get meeting")
	}

	return c.JSON(http.StatusOK, meeting)
}

func (h *MeetingHandler) DeleteMeetingHandler(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid meeting id"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	if err := h.meetingUsecase.DeleteMeeting(c.Request().Context(), userID, meetingID); err != nil {
		return h.meetingError(c, err, "delete meeting")
	}

	return c.NoContent(http.StatusOK)
}

func (h *MeetingHandler) meetingError(c echo.Context, err error, op string) error {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "meeting not found"})
	case errors.Is(err, apperror.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		slog.Error(op, slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to " + op})
	}
}
