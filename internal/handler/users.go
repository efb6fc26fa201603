package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal/internal/model"
	"portal/internal/store"
)

// GetAllUsers returns the whole users tree keyed by code.
func (h *Handler) GetAllUsers(c *gin.Context) {
	h.listTree(c, store.UsersPath)
}

// GetPendingUsers returns the not-yet-approved registrations.
func (h *Handler) GetPendingUsers(c *gin.Context) {
	h.listTree(c, store.PendingPath)
}

// listTree reads an entire collection. An empty collection is reported as not
// found rather than an empty success; existing clients depend on that.
func (h *Handler) listTree(c *gin.Context, path string) {
	var users map[string]model.Record
	if err := h.store.Get(c.Request.Context(), path, &users); err != nil {
		h.log.Error().Err(err).Str("path", path).Msg("error getting users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No users found"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByCode returns one approved user record.
func (h *Handler) GetUserByCode(c *gin.Context) {
	code := c.Param("code")

	var user model.Record
	if err := h.store.Get(c.Request.Context(), store.UserPath(code), &user); err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("error getting user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser stores a new registration. New registrations always land in the
// pending tree; promotion into users happens elsewhere.
func (h *Handler) CreateUser(c *gin.Context) {
	var user model.Record
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, _ := user["code"].(string)
	fullName, _ := user["fullName"].(string)
	if code == "" || fullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Code and fullName are required fields"})
		return
	}

	ctx := c.Request.Context()
	path := store.PendingUserPath(code)

	exists, err := h.store.Exists(ctx, path)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("error creating user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"message": "User with this code already exists"})
		return
	}

	if err := h.store.Set(ctx, path, user); err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("error creating user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

// UpdateUser applies a single or bulk update; the body shape selects the mode.
func (h *Handler) UpdateUser(c *gin.Context) {
	var payload model.UpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.IsBulk() {
		h.bulkUpdate(c, payload.Bulk)
		return
	}
	h.singleUpdate(c, c.Param("code"), payload.Single)
}

func (h *Handler) singleUpdate(c *gin.Context, code string, user model.Record) {
	ctx := c.Request.Context()
	path := store.UserPath(code)

	exists, err := h.store.Exists(ctx, path)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("error updating user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := h.store.Update(ctx, path, stripCode(user)); err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("error updating user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var updated model.Record
	if err := h.store.Get(ctx, path, &updated); err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("error updating user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": updated})
}

// bulkUpdate processes items independently: one bad item is recorded and
// skipped, never aborting the batch. Partial success is the expected outcome,
// and there is no atomicity across items.
func (h *Handler) bulkUpdate(c *gin.Context, users []model.Record) {
	ctx := c.Request.Context()
	results := model.BulkResults{
		Successful: []model.BulkSuccess{},
		Failed:     []model.BulkFailure{},
	}

	for _, user := range users {
		code, _ := user["code"].(string)
		if code == "" {
			results.Failed = append(results.Failed, model.BulkFailure{User: user, Error: "Missing user code"})
			continue
		}

		path := store.UserPath(code)
		exists, err := h.store.Exists(ctx, path)
		if err != nil {
			results.Failed = append(results.Failed, model.BulkFailure{User: user, Error: err.Error()})
			continue
		}
		if !exists {
			results.Failed = append(results.Failed, model.BulkFailure{User: user, Error: "User not found"})
			continue
		}

		if err := h.store.Update(ctx, path, stripCode(user)); err != nil {
			results.Failed = append(results.Failed, model.BulkFailure{User: user, Error: err.Error()})
			continue
		}

		var updated model.Record
		if err := h.store.Get(ctx, path, &updated); err != nil {
			results.Failed = append(results.Failed, model.BulkFailure{User: user, Error: err.Error()})
			continue
		}
		results.Successful = append(results.Successful, model.BulkSuccess{Code: code, User: updated})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Bulk update completed. Successful: %d, Failed: %d",
			len(results.Successful), len(results.Failed)),
		"results": results,
	})
}

// DeleteUser removes one user record. The user's attendance subtree is left
// in place so historical reports keep their data.
func (h *Handler) DeleteUser(c *gin.Context) {
	code := c.Param("code")
	ctx := c.Request.Context()
	path := store.UserPath(code)

	exists, err := h.store.Exists(ctx, path)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("error deleting user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := h.store.Remove(ctx, path); err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("error deleting user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// stripCode copies a record without its code field; the code is the storage
// key and is never rewritten through the update path.
func stripCode(user model.Record) map[string]any {
	fields := make(map[string]any, len(user))
	for key, value := range user {
		if key == "code" {
			continue
		}
		fields[key] = value
	}
	return fields
}
