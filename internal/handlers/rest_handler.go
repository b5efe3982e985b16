package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"socketBoard/internal/errs"
	"socketBoard/internal/hub"
	"socketBoard/internal/models"
	"socketBoard/internal/msgs"
	"socketBoard/internal/services"

	"github.com/gin-gonic/gin"
)

type RestHandler struct {
	authService       *services.AuthenticationService
	whiteboardService *services.WhiteboardService
	boardHub          *hub.Hub
}

func NewRestHandler(
	authService *services.AuthenticationService,
	whiteboardService *services.WhiteboardService,
	boardHub *hub.Hub,
) *RestHandler {
	return &RestHandler{
		authService:       authService,
		whiteboardService: whiteboardService,
		boardHub:          boardHub,
	}
}

func (rh *RestHandler) Login(ctx *gin.Context) {
	var errors []error

	var loginData models.LoginRequestBody
	err := ctx.BindJSON(&loginData)
	if err != nil {
		log.Println("Error login data json binding:", err)
		errors = append(errors, errs.ErrInvalidRequestBody)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  errors,
		})
		return
	}

	loginResponse, loginErrs := rh.authService.Login(&loginData)
	if len(loginErrs) > 0 {
		errors = append(errors, loginErrs...)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  errors,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

func (rh *RestHandler) Register(ctx *gin.Context) {
	var errors []error

	var body models.RegisterRequestBody
	err := ctx.BindJSON(&body)
	if err != nil {
		errors = append(errors, errs.ErrInvalidRequestBody)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  errors,
		})
		return
	}

	user := models.User{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	}
	_, registerErrs := rh.authService.Register(&user)
	if len(registerErrs) > 0 {
		errors = append(errors, registerErrs...)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  errors,
		})
		return
	}

	ctx.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: msgs.MsgUserCreatedSuccessfully,
	})
}

func (rh *RestHandler) GetProfile(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	profile, err := rh.authService.GetProfile(userID)
	if err != nil {
		rh.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    profile,
	})
}

func (rh *RestHandler) CreateWhiteboard(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	var body models.CreateWhiteboardRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		rh.fail(ctx, errs.ErrInvalidRequestBody)
		return
	}

	whiteboard, err := rh.whiteboardService.CreateWhiteboard(userID, body.Title)
	if err != nil {
		rh.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    whiteboard,
	})
}

func (rh *RestHandler) GetWhiteboard(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	whiteboardID, err := pathID(ctx, "id")
	if err != nil {
		rh.fail(ctx, errs.ErrInvalidWhiteboardId)
		return
	}

	whiteboard, err := rh.whiteboardService.GetWhiteboard(whiteboardID, userID)
	if err != nil {
		rh.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    whiteboard,
	})
}

func (rh *RestHandler) GetUserWhiteboards(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	list, err := rh.whiteboardService.GetUserWhiteboards(userID, page, size)
	if err != nil {
		rh.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    list,
	})
}

func (rh *RestHandler) ShareWhiteboard(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	whiteboardID, err := pathID(ctx, "id")
	if err != nil {
		rh.fail(ctx, errs.ErrInvalidWhiteboardId)
		return
	}

	var body models.ShareWhiteboardRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		rh.fail(ctx, errs.ErrInvalidRequestBody)
		return
	}

	code, err := rh.whiteboardService.ShareWhiteboard(whiteboardID, userID, body.Role, body.RecipientEmail)
	if err != nil {
		rh.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgShareCode,
		Data:    models.ShareWhiteboardResponse{ShareCode: code},
	})
}

func (rh *RestHandler) JoinWhiteboard(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	email := ctx.GetString("user_email")
	username := ctx.GetString("username")

	var body models.JoinWhiteboardRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		rh.fail(ctx, errs.ErrInvalidRequestBody)
		return
	}

	user := models.User{Username: username, Email: email}
	user.ID = userID
	whiteboard, err := rh.whiteboardService.JoinWhiteboard(body.ShareCode, &user)
	if err != nil {
		rh.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    whiteboard,
	})
}

func (rh *RestHandler) DeleteWhiteboard(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	whiteboardID, err := pathID(ctx, "id")
	if err != nil {
		rh.fail(ctx, errs.ErrInvalidWhiteboardId)
		return
	}

	if err := rh.whiteboardService.DeleteWhiteboard(whiteboardID, userID); err != nil {
		rh.fail(ctx, err)
		return
	}

	// Evict the live room so every connected member gets
	// whiteboard_removed.
	rh.boardHub.NotifyWhiteboardRemoved(whiteboardID)

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgWhiteboardDeleted,
	})
}

func (rh *RestHandler) ChangeRole(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	whiteboardID, err := pathID(ctx, "id")
	if err != nil {
		rh.fail(ctx, errs.ErrInvalidWhiteboardId)
		return
	}

	var body models.ChangeRoleRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		rh.fail(ctx, errs.ErrInvalidRequestBody)
		return
	}

	newRole, err := rh.whiteboardService.ChangeRole(whiteboardID, userID, body.ParticipantID, body.NewRole)
	if err != nil {
		rh.fail(ctx, err)
		return
	}

	// Refresh cached roles on live connections; a demoted editor learns
	// immediately that mutation is now denied.
	rh.boardHub.NotifyRoleChanged(whiteboardID, body.ParticipantID, newRole)

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgRoleUpdated,
	})
}

func (rh *RestHandler) RemoveParticipant(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	whiteboardID, err := pathID(ctx, "id")
	if err != nil {
		rh.fail(ctx, errs.ErrInvalidWhiteboardId)
		return
	}
	targetID, err := pathID(ctx, "userId")
	if err != nil {
		rh.fail(ctx, errs.ErrInvalidParams)
		return
	}

	if err := rh.whiteboardService.RemoveParticipant(whiteboardID, userID, targetID); err != nil {
		rh.fail(ctx, err)
		return
	}

	rh.boardHub.NotifyParticipantRemoved(whiteboardID, targetID)

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgParticipantRemoved,
	})
}

func (rh *RestHandler) RevokeInvitation(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")
	whiteboardID, err := pathID(ctx, "id")
	if err != nil {
		rh.fail(ctx, errs.ErrInvalidWhiteboardId)
		return
	}
	code := ctx.Param("code")

	if err := rh.whiteboardService.RevokeInvitation(whiteboardID, userID, code); err != nil {
		rh.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgInvitationRevoked,
	})
}

func (rh *RestHandler) fail(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(statusFor(err), models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  []error{err},
	})
}

// statusFor maps the error taxonomy onto http statuses: access errors are
// 403, missing records 404, conflicts 409, everything else a plain 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotAParticipant),
		errors.Is(err, errs.ErrInsufficientRole),
		errors.Is(err, errs.ErrForbidden),
		errors.Is(err, errs.ErrRecipientMismatch):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrWhiteboardNotFound),
		errors.Is(err, errs.ErrParticipantNotFound),
		errors.Is(err, errs.ErrInvalidCode),
		errors.Is(err, errs.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyParticipant),
		errors.Is(err, errs.ErrInvalidRole):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func pathID(ctx *gin.Context, name string) (uint, error) {
	value, err := strconv.Atoi(ctx.Param(name))
	if err != nil || value <= 0 {
		return 0, errs.ErrInvalidParams
	}
	return uint(value), nil
}
