package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/dashboard"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const sessionKey = "dashboard.session"

type openSessionRequest struct {
	Role   string `json:"role" validate:"required,oneof=vendor delivery admin"`
	Screen string `json:"screen" validate:"required"`
}

// respondError maps service errors to status codes. Unexpected errors are
// logged with the request's correlation id.
func (a *app) respondError(c *gin.Context, funcName string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": utils.ProcessValidationErrors(err)})
	case errors.Is(err, utils.ErrorSessionNotFound), errors.Is(err, utils.ErrorUnknownScreen):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(a.logger, "server", funcName, "request failed", map[string]string{"correlation_id": cid, "path": c.Request.URL.Path}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (a *app) listScreens(c *gin.Context) {
	role, ok := dashboard.ParseRole(c.Param("role"))
	if !ok {
		a.respondError(c, "listScreens", fmt.Errorf("%w: role %s", utils.ErrorUnknownScreen, c.Param("role")))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":    role,
		"screens": a.manager.Catalogue().ForRole(role),
	})
}

func (a *app) openSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		a.respondError(c, "openSession", err)
		return
	}
	role, _ := dashboard.ParseRole(req.Role)

	ctx := utils.SetRoleInContext(c.Request.Context(), string(role))
	sess, err := a.manager.Open(ctx, role, req.Screen)
	if err != nil {
		a.respondError(c, "openSession", err)
		return
	}
	c.JSON(http.StatusCreated, sess.View(ctx))
}

// loadSession resolves :id and stores the session on the gin context.
func (a *app) loadSession(c *gin.Context) {
	sess, err := a.manager.Get(c.Param("id"))
	if err != nil {
		a.respondError(c, "loadSession", err)
		c.Abort()
		return
	}
	ctx := utils.SetSessionIdInContext(c.Request.Context(), sess.Id())
	ctx = utils.SetScreenInContext(ctx, sess.ScreenKey())
	c.Request = c.Request.WithContext(ctx)
	c.Set(sessionKey, sess)
	c.Next()
}

func sessionFrom(c *gin.Context) dashboard.Session {
	return c.MustGet(sessionKey).(dashboard.Session)
}

func (a *app) viewSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionFrom(c).View(c.Request.Context()))
}

func (a *app) dispatchAction(c *gin.Context) {
	var req dashboard.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := sessionFrom(c).Dispatch(c.Request.Context(), req)
	if err != nil {
		a.respondError(c, "dispatchAction", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (a *app) refreshSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionFrom(c).Refresh(c.Request.Context()))
}

// exportSession renders the workbook before writing anything, so a failed
// export still gets a clean JSON error.
func (a *app) exportSession(c *gin.Context) {
	sess := sessionFrom(c)
	var buf bytes.Buffer
	if err := sess.Export(c.Request.Context(), &buf); err != nil {
		a.respondError(c, "exportSession", err)
		return
	}
	filename := strings.ReplaceAll(sess.ScreenKey(), "/", "-") + ".xlsx"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, utils.XlsxContentType, buf.Bytes())
}

func (a *app) closeSession(c *gin.Context) {
	if err := a.manager.Close(sessionFrom(c).Id()); err != nil {
		a.respondError(c, "closeSession", err)
		return
	}
	c.Status(http.StatusNoContent)
}
